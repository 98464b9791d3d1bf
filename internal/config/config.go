package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port               int    `env:"PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	RedisURL           string `env:"REDIS_URL,required"`
	AuthSecret         string `env:"AUTH_SECRET,required"`
	SessionDays        int    `env:"SESSION_DAYS" envDefault:"7"`
	APIRateLimitPerMin int    `env:"API_RATE_LIMIT_PER_MIN" envDefault:"120"`
	PaymentGraceDays   int    `env:"PAYMENT_GRACE_DAYS" envDefault:"31"`
	StaticDir          string `env:"STATIC_DIR" envDefault:"static/admin"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionDays) * 24 * time.Hour
}

func (c *Config) PaymentGracePeriod() time.Duration {
	return time.Duration(c.PaymentGraceDays) * 24 * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.SessionDays <= 0 {
		return fmt.Errorf("SESSION_DAYS must be positive")
	}

	if isProduction {
		if err := validateSecret("AUTH_SECRET", c.AuthSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	// Local development convenience; a missing .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
