package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int      `envconfig:"PORT" default:"8080"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL    string   `envconfig:"DATABASE_URL" required:"true"`
	Version        string   `envconfig:"VERSION" default:"dev"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// JWTSecret signs all issued tokens. There is deliberately no default:
	// the server refuses to start without one.
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`

	BcryptCost   int           `envconfig:"BCRYPT_COST" default:"12"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`

	RateLimitMax        int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow     time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	AuthRateLimitMax    int           `envconfig:"AUTH_RATE_LIMIT_MAX" default:"5"`
	AuthRateLimitWindow time.Duration `envconfig:"AUTH_RATE_LIMIT_WINDOW" default:"15m"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
