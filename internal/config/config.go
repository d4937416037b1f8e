package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration, read from the environment.
type Config struct {
	ServerPort string `envconfig:"PORT" default:"8080"`

	// DatabaseType selects the dialect: sqlite, postgres or mysql.
	// DataDir is only used for sqlite; DatabaseURL for the others.
	DatabaseType string `envconfig:"DB_TYPE" default:"sqlite"`
	DatabaseURL  string `envconfig:"DB_URL"`
	DataDir      string `envconfig:"DATA_DIR" default:"."`

	SessionSecret   string        `envconfig:"SESSION_SECRET" default:"christmas-secret-key"`
	SessionDuration time.Duration `envconfig:"SESSION_DURATION" default:"720h"`

	// RevealDate is the calendar date (YYYY-MM-DD) on which tree presents
	// may be unwrapped.
	RevealDate string `envconfig:"REVEAL_DATE" default:"2026-12-25"`

	StaticFilesPath string `envconfig:"STATIC_PATH" default:"./static"`
	TemplatesPath   string `envconfig:"TEMPLATES_PATH" default:"./internal/templates"`
	MigrationsPath  string `envconfig:"MIGRATIONS_PATH" default:"./migrations"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.ParseRevealDate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseRevealDate parses RevealDate as a local calendar date.
func (c *Config) ParseRevealDate() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", c.RevealDate, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid REVEAL_DATE %q: %w", c.RevealDate, err)
	}
	return t, nil
}
