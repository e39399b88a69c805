package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration, read from the environment.
type Config struct {
	Env                string        `envconfig:"RADIUS_ENV" default:"development"`
	HTTPAddr           string        `envconfig:"RADIUS_HTTP_ADDR" default:":8080"`
	DatabaseURL        string        `envconfig:"RADIUS_DATABASE_URL" required:"true"`
	RedisAddr          string        `envconfig:"RADIUS_REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret      string        `envconfig:"RADIUS_SESSION_SECRET" required:"true"`
	SessionCookie      string        `envconfig:"RADIUS_SESSION_COOKIE" default:"radius_session"`
	SessionTTL         time.Duration `envconfig:"RADIUS_SESSION_TTL" default:"12h"`
	SecureCookies      bool          `envconfig:"RADIUS_SECURE_COOKIES" default:"false"`
	DashboardCacheTTL  time.Duration `envconfig:"RADIUS_DASHBOARD_CACHE_TTL" default:"5m"`
	RateLimitPerMinute int           `envconfig:"RADIUS_RATE_LIMIT_PER_MINUTE" default:"240"`
	LogLevel           string        `envconfig:"RADIUS_LOG_LEVEL" default:"info"`
	ShutdownTimeout    time.Duration `envconfig:"RADIUS_SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Production reports whether the service runs with production hardening.
func (c Config) Production() bool {
	return c.Env == "production"
}
