package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// minSecretLength is the shortest accepted HMAC signing secret.
const minSecretLength = 16

// maxAdminPasswordBytes is bcrypt's input limit.
const maxAdminPasswordBytes = 72

// Config holds the application configuration.
// It is built once at startup and handed to the components that need it.
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ServerPort int    `env:"PORT" envDefault:"8080"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./devblogs.db"`

	// Session tokens
	JWTSecret  string        `env:"JWT_SECRET,required,unset"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"6h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	// Comma-separated list of origins allowed to call the API with credentials.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	ReadTimeout        time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Optional bootstrap administrator, created on startup when missing.
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD,unset"`

	StatsSchedule string `env:"STATS_SCHEDULE" envDefault:"@every 15m"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AllowedOrigins parses the comma-separated CORS origins.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// HasBootstrapAdmin reports whether an admin account should be seeded.
func (c *Config) HasBootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d is out of range", c.BcryptCost)
	}
	if len(c.AdminPassword) > maxAdminPasswordBytes {
		return fmt.Errorf("ADMIN_PASSWORD must be at most %d bytes", maxAdminPasswordBytes)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.ServerPort)
	}
	return nil
}
