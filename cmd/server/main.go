package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wishtree/internal/config"
	"wishtree/internal/database"
	"wishtree/internal/handlers"
	"wishtree/internal/repository"
	"wishtree/internal/security"
	"wishtree/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg)

	revealDate, err := cfg.ParseRevealDate()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse reveal date")
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Str("type", cfg.DatabaseType).Msg("database connection established")

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	giftRepo := repository.NewGiftRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	familyService := service.NewFamilyService(familyRepo)
	wishlistService := service.NewWishlistService(wishlistRepo)
	giftService := service.NewGiftService(giftRepo, wishlistRepo, revealDate, nil)

	// Handlers
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	authLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, familyService, csrf, authLimiter)
	authHandler := handlers.NewAuthHandler(authService, templates)
	familyHandler := handlers.NewFamilyHandler(familyService, middleware, templates)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, middleware, templates)
	shopHandler := handlers.NewShopHandler(wishlistService, giftService, middleware, templates)
	treeHandler := handlers.NewTreeHandler(giftService, middleware, templates)

	// Routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /signup", authHandler.ShowSignup)
	mux.HandleFunc("POST /signup", middleware.RateLimit(authHandler.Signup))
	mux.HandleFunc("GET /logout", authHandler.Logout)

	// Protected routes
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(familyHandler.Dashboard))
	mux.HandleFunc("GET /family/create", middleware.RequireAuth(familyHandler.ShowCreateFamily))
	mux.HandleFunc("POST /family/create", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.CreateFamily)))
	mux.HandleFunc("GET /family/join", middleware.RequireAuth(familyHandler.ShowJoinFamily))
	mux.HandleFunc("POST /family/join", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.JoinFamily)))
	mux.HandleFunc("GET /family/{id}", middleware.RequireAuth(familyHandler.ShowFamily))

	// Wishlist routes
	mux.HandleFunc("GET /family/{id}/my-list", middleware.RequireAuth(wishlistHandler.ShowMyList))
	mux.HandleFunc("POST /family/{id}/my-list/add", middleware.RequireAuth(middleware.CSRFProtect(wishlistHandler.AddItem)))
	mux.HandleFunc("POST /family/{id}/my-list/delete/{itemId}", middleware.RequireAuth(middleware.CSRFProtect(wishlistHandler.DeleteItem)))

	// Shop routes
	mux.HandleFunc("GET /family/{id}/shop", middleware.RequireAuth(shopHandler.ShowShop))
	mux.HandleFunc("POST /family/{id}/shop/purchase/{itemId}", middleware.RequireAuth(middleware.CSRFProtect(shopHandler.Purchase)))

	// Tree routes
	mux.HandleFunc("GET /family/{id}/tree", middleware.RequireAuth(treeHandler.ShowTree))
	mux.HandleFunc("POST /family/{id}/tree/unwrap/{presentId}", middleware.RequireAuth(middleware.CSRFProtect(treeHandler.Unwrap)))
	mux.HandleFunc("POST /family/{id}/tree/thanks/{presentId}", middleware.RequireAuth(middleware.CSRFProtect(treeHandler.ThankYou)))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredSessions(authService)

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// setupLogging configures the global logger from config
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(templatesPath, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Error().Err(err).Msg("failed to clean up expired sessions")
		}
	}
}
