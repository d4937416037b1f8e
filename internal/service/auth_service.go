package service

import (
	"errors"
	"fmt"
	"time"

	"wishtree/internal/models"
	"wishtree/internal/repository"
	"wishtree/internal/security"
	"wishtree/internal/validation"
)

var (
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// UserStore is the persistence surface AuthService needs
type UserStore interface {
	CreateUser(username, email, passwordHash, displayName string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.Session, error)
	GetSession(sessionID string) (*models.Session, error)
	DeleteSession(sessionID string) error
	DeleteExpiredSessions() error
}

// AuthService handles signup, login and session business logic
type AuthService struct {
	users           UserStore
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		users:           users,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account. The uniqueness constraints on
// username and email are authoritative; a violation surfaces as
// ErrUserExists without revealing which field collided.
func (s *AuthService) Register(username, email, password, displayName string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, email, passwordHash, displayName)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.Sanitized(), nil
}

// Login authenticates a user and creates a session. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(username, password string) (*models.Session, *models.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.users.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user.Sanitized(), nil
}

// ValidateSession checks if a session is valid and returns the associated
// user with the password hash stripped
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.users.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		// Clean up expired session
		_ = s.users.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user.Sanitized(), nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.users.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.users.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}
