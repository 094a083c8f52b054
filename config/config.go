// Package config provides environment-based configuration for the auth server.
//
// Configuration is loaded from environment variables using Viper, with sensible
// defaults for development. This package handles database connection settings,
// token signing, activation-link construction, SMTP credentials, and rate limits.
//
// # Environment Variables
//
//   - DB_TYPE: Database type (sqlite, postgres, mysql). Default: sqlite
//   - DSN: Database connection string. Default: auth.db
//   - SKIP_AUTO_MIGRATE: Skip automatic database migrations. Default: false
//   - LOG_LEVEL: Logging level (debug, info, warn, error). Default: info
//   - PORT: HTTP server port. Default: 8080
//   - SIGNING_KEY: HMAC secret for activation and session tokens. Required.
//   - TOKEN_TTL: Activation token lifetime. Default: 10m
//   - CLOCK_SKEW: Accepted clock skew when verifying tokens. Default: 30s
//   - SESSION_TTL: Session token lifetime after signin. Default: 24h
//   - CLIENT_URL: Base URL of the client app, used to build activation links.
//   - SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM: mail sender.
//   - REDIS_ADDR: Optional Redis address for distributed signup rate limiting.
//   - SIGNUP_RATE_LIMIT / SIGNUP_RATE_WINDOW: Signup attempts allowed per
//     address per window. Default: 5 per 1h.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Starting on port %d with %s database\n", cfg.Port, cfg.DBType)
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBType          string `mapstructure:"DB_TYPE"` // sqlite, postgres, mysql
	DSN             string `mapstructure:"DSN"`
	SkipAutoMigrate bool   `mapstructure:"SKIP_AUTO_MIGRATE"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	Port            int    `mapstructure:"PORT"`

	SigningKey string        `mapstructure:"SIGNING_KEY"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
	ClockSkew  time.Duration `mapstructure:"CLOCK_SKEW"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	SignupRateLimit  int           `mapstructure:"SIGNUP_RATE_LIMIT"`
	SignupRateWindow time.Duration `mapstructure:"SIGNUP_RATE_WINDOW"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DB_TYPE", "sqlite")
	viper.SetDefault("DSN", "auth.db")
	viper.SetDefault("SKIP_AUTO_MIGRATE", false)
	viper.SetDefault("TOKEN_TTL", "10m")
	viper.SetDefault("CLOCK_SKEW", "30s")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SIGNUP_RATE_LIMIT", 5)
	viper.SetDefault("SIGNUP_RATE_WINDOW", "1h")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.SigningKey == "" {
		return nil, errors.New("config: SIGNING_KEY is required")
	}

	return &cfg, nil
}
