// internal/config/config.go
//
// Process configuration.
//
// Load order:
//   1. Optional .env files (github.com/joho/godotenv); a missing file is not
//      an error and real environment variables always win.
//   2. Environment variables parsed into Config (github.com/caarlos0/env).
//   3. Validate: production deployments must set their own JWT secret.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevJWTSecret is the fallback signing secret for local development.
const DevJWTSecret = "dev_secret_change_me"

// Config holds every setting of the server and the terminal client.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	NodeEnv  string `env:"NODE_ENV" envDefault:"development"`

	DBPath string `env:"DB_PATH" envDefault:"./data/app.db"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"mines_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	DailySalt   string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	CatalogFile string `env:"CATALOG_FILE"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"5m"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c Config) Production() bool { return c.NodeEnv == "production" }

// JWTTTL is the token lifetime.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }

// Load reads .env files (default ".env") and the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads Config from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the env parser cannot.
func (c Config) Validate() error {
	if c.Production() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return errors.New("config: JWT_SECRET must be set in production")
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays)
	}
	if c.SessionTTL <= 0 || c.JanitorInterval <= 0 {
		return errors.New("config: SESSION_TTL and JANITOR_INTERVAL must be positive")
	}
	return nil
}
