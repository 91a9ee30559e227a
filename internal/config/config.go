// Package config composes the per-package settings of the API binary.
package config

import (
	"errors"
	"time"

	"github.com/dmitrymomot/bookspace/pkg/config"
	"github.com/dmitrymomot/bookspace/pkg/email"
	"github.com/dmitrymomot/bookspace/pkg/httpserver"
	"github.com/dmitrymomot/bookspace/pkg/mongo"
	"github.com/dmitrymomot/bookspace/pkg/ratelimiter"
	"github.com/dmitrymomot/bookspace/pkg/redis"
)

// ErrWeakSecret is returned when JWT_SECRET is shorter than minSecretLen.
var ErrWeakSecret = errors.New("config: JWT_SECRET must be at least 32 bytes")

const minSecretLen = 32

type Config struct {
	Env        string        `env:"APP_ENV" envDefault:"development"`
	Service    string        `env:"SERVICE_NAME" envDefault:"bookspace-api"`
	BaseURL    string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	JWTSecret  string        `env:"JWT_SECRET,required"`
	RolesFile  string        `env:"RBAC_ROLES_FILE"`
	AsyncMail  bool          `env:"NOTIFICATION_ASYNC_EMAIL" envDefault:"true"`
	WSPongWait time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`

	HTTP      httpserver.Config
	Mongo     mongo.Config
	Redis     redis.Config
	Email     email.Config
	RateLimit ratelimiter.Config
}

// Load reads the configuration and checks cross-field constraints.
func Load(opts ...config.Option) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return Config{}, ErrWeakSecret
	}
	return cfg, nil
}
