package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/internal/config"
	pkgconfig "github.com/dmitrymomot/bookspace/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	secret := strings.Repeat("k", 32)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load(pkgconfig.WithEnvironment(map[string]string{
			"JWT_SECRET":  secret,
			"MONGODB_URL": "mongodb://localhost:27017",
		}))
		require.NoError(t, err)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
		assert.Equal(t, "bookspace", cfg.Mongo.Database)
		assert.False(t, cfg.Redis.Enabled())
		assert.False(t, cfg.Email.PostmarkEnabled())
		assert.True(t, cfg.AsyncMail)
		assert.Equal(t, time.Minute, cfg.WSPongWait)
		assert.Equal(t, 120, cfg.RateLimit.Capacity)
		assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := config.Load(pkgconfig.WithEnvironment(map[string]string{
			"JWT_SECRET":      secret,
			"MONGODB_URL":     "mongodb://db:27017",
			"REDIS_URL":       "redis://cache:6379/0",
			"HTTP_ADDR":       ":9000",
			"APP_ENV":         "production",
			"RBAC_ROLES_FILE": "/etc/bookspace/roles.yaml",
		}))
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.HTTP.Addr)
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, "/etc/bookspace/roles.yaml", cfg.RolesFile)
	})

	t.Run("missing mongo url", func(t *testing.T) {
		_, err := config.Load(pkgconfig.WithEnvironment(map[string]string{"JWT_SECRET": secret}))
		assert.ErrorIs(t, err, pkgconfig.ErrParsingConfig)
	})

	t.Run("weak secret", func(t *testing.T) {
		_, err := config.Load(pkgconfig.WithEnvironment(map[string]string{
			"JWT_SECRET":  "short",
			"MONGODB_URL": "mongodb://localhost:27017",
		}))
		assert.ErrorIs(t, err, config.ErrWeakSecret)
	})
}
