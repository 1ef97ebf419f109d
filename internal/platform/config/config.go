package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// devSecret is only acceptable outside production; Validate rejects it there.
const devSecret = "dev-only-change-me"

type Config struct {
	Addr          string        `env:"APP_ADDR" envDefault:":8080"`
	Environment   string        `env:"APP_ENV" envDefault:"development"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-only-change-me"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	MaxBodyBytes  int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RunMigrations bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RunSeed       bool          `env:"RUN_SEED" envDefault:"false"`
	SeedUsername  string        `env:"SEED_USERNAME"`
	SeedPassword  string        `env:"SEED_PASSWORD"`
	SeedGroup     string        `env:"SEED_GROUP" envDefault:"admin"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && c.JWTSecret == devSecret {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RunSeed && c.SeedUsername != "" && c.SeedPassword == "" {
		return fmt.Errorf("SEED_PASSWORD is required when SEED_USERNAME is set")
	}
	return nil
}
