package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/techdetails/storefront-api/shared/mailer"
)

// devFallbackSecret is a development-only convenience. Production
// configuration must reject it.
const devFallbackSecret = "replace-with-secure-secret-in-env-file"

// Config holds all environment-driven settings for the storefront API.
type Config struct {
	Env      string `env:"APP_ENV"  envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	BaseURL  string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"storefront"`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"replace-with-secure-secret-in-env-file"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"168h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	AdminEmails          []string `env:"ADMIN_EMAILS" envSeparator:","`
	DefaultAdminPassword string   `env:"DEFAULT_ADMIN_PASSWORD"`
}

// Load parses the configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the fail-closed secret policy: outside development the
// signing secret must be set and must not be the development fallback.
func (c *Config) Validate() error {
	if c.Env != "development" {
		if c.JWTSecret == "" || c.JWTSecret == devFallbackSecret {
			return fmt.Errorf("JWT_SECRET must be set to a secure value when APP_ENV=%s", c.Env)
		}
	}

	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGODB_URI environment variable")
	}

	if len(c.AdminEmails) > 0 && c.DefaultAdminPassword == "" {
		return fmt.Errorf("DEFAULT_ADMIN_PASSWORD must be set when ADMIN_EMAILS is configured")
	}

	return nil
}

// IsDevelopment reports whether the service runs in development mode.
// Session cookies drop the Secure flag only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SMTP returns the mailer configuration.
func (c *Config) SMTP() mailer.Config {
	return mailer.Config{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}
}
