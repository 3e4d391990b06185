package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrInvalidTTL       = errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
	ErrInvalidAlgorithm = errors.New("ALGORITHM must be one of HS256, HS384, HS512")
)

// Config holds all process-wide settings. It is built once at startup and
// passed to the components that need it.
type Config struct {
	Port string `env:"PORT" env-default:"8000"`
	Env  string `env:"ENV" env-default:"development"`

	DatabaseDSN string `env:"DB_URL" env-required:"true"`
	Migrate     bool   `env:"DB_MIGRATE" env-default:"true"`

	JWTSecret        string `env:"SECRET_KEY" env-required:"true"`
	JWTAlgorithm     string `env:"ALGORITHM" env-required:"true"`
	JWTExpiryMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-required:"true"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-default:"*" env-separator:","`

	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" env-default:"5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" env-default:"10"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	if c.JWTExpiryMinutes <= 0 {
		return ErrInvalidTTL
	}

	c.JWTAlgorithm = strings.ToUpper(strings.TrimSpace(c.JWTAlgorithm))
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return ErrInvalidAlgorithm
	}

	return nil
}

// JWTExpiry returns the token lifetime.
func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
