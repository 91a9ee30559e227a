package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/pkg/logger"
)

type ctxKey struct{}

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error", func(t *testing.T) {
		err := errors.New("boom")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, err, attr.Value.Any())
		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	})

	t.Run("errors skips nil", func(t *testing.T) {
		attr := logger.Errors(errors.New("a"), nil, errors.New("b"))
		require.Equal(t, slog.KindGroup, attr.Value.Kind())
		assert.Len(t, attr.Value.Group(), 2)
		assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	})

	t.Run("empty ids are dropped", func(t *testing.T) {
		assert.True(t, logger.UserID("").Equal(slog.Attr{}))
		assert.True(t, logger.NotificationID("").Equal(slog.Attr{}))
		assert.True(t, logger.ConnectionID("").Equal(slog.Attr{}))
		assert.Equal(t, "user_id", logger.UserID("u1").Key)
	})
}

func TestNew_JSONWithExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "test")),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			v, ok := ctx.Value(ctxKey{}).(string)
			return slog.String("request_id", v), ok
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "hello", logger.UserID("u1"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["service"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "u1", rec["user_id"])
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env        string
		debugShown bool
		wantEnv    string
	}{
		{env: "production", debugShown: false, wantEnv: "production"},
		{env: "stage", debugShown: false, wantEnv: "staging"},
		{env: "", debugShown: true, wantEnv: "development"},
	}

	for _, tt := range tests {
		t.Run(tt.wantEnv, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.New(logger.WithOutput(&buf), logger.WithEnvironment(tt.env, "api"))
			log.Debug("debug line")
			assert.Equal(t, tt.debugShown, buf.Len() > 0)

			buf.Reset()
			log.Info("info line")
			assert.Contains(t, buf.String(), tt.wantEnv)
			assert.Contains(t, buf.String(), "api")
		})
	}
}

func TestWithFormat_PanicsOnUnknown(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
}
