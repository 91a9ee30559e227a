package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/pkg/logger"
)

type recordingConn struct {
	id   string
	sent chan Envelope
}

func newRecordingConn() *recordingConn {
	return &recordingConn{id: uuid.NewString(), sent: make(chan Envelope, 4)}
}

func (c *recordingConn) ID() string   { return c.id }
func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Send(env Envelope) error {
	c.sent <- env
	return nil
}

func TestRedisRelay_Forward(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry(WithRegistryLogger(logger.Discard()))
	conn := newRecordingConn()
	reg.Register("u1", conn)
	relay := NewRedisRelay(nil, reg, WithRelayLogger(logger.Discard()))

	msg, err := encodeRelayMessage("u1", "notification", map[string]string{"title": "hi"})
	require.NoError(t, err)
	relay.forward(context.Background(), string(msg))

	env := <-conn.sent
	assert.Equal(t, "notification", env.Event)
	raw, ok := env.Data.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"hi"}`, string(raw))

	// Malformed payloads are dropped.
	relay.forward(context.Background(), "{")
	assert.Empty(t, conn.sent)
}

func TestRedisRelay_ServeResubscribes(t *testing.T) {
	t.Parallel()

	relay := NewRedisRelay(nil, NewMemoryRegistry(WithRegistryLogger(logger.Discard())),
		WithRelayLogger(logger.Discard()),
		WithRelayRetry(time.Millisecond, 4*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts atomic.Int32
	relay.run = func(ctx context.Context) error {
		switch attempts.Add(1) {
		case 1, 2:
			return errors.New("subscribe: connection refused")
		case 3:
			// Subscription closed without an error.
			return nil
		default:
			<-ctx.Done()
			return nil
		}
	}

	done := make(chan struct{})
	go func() {
		relay.Serve(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return attempts.Load() >= 4 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.EqualValues(t, 4, attempts.Load())
}

func TestRedisRelay_ServeStopsWhileWaiting(t *testing.T) {
	t.Parallel()

	relay := NewRedisRelay(nil, NewMemoryRegistry(WithRegistryLogger(logger.Discard())),
		WithRelayLogger(logger.Discard()),
		WithRelayRetry(time.Hour, time.Hour),
	)
	var attempts atomic.Int32
	relay.run = func(context.Context) error {
		attempts.Add(1)
		return errors.New("subscribe: connection refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Serve(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return attempts.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return during backoff")
	}
	assert.EqualValues(t, 1, attempts.Load())
}

func TestRedisRelay_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	reg := NewMemoryRegistry(WithRegistryLogger(logger.Discard()))
	conn := newRecordingConn()
	reg.Register("u1", conn)
	relay := NewRedisRelay(client, reg,
		WithRelayChannel("bookspace:test:"+uuid.NewString()),
		WithRelayLogger(logger.Discard()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, relay.channel).Result()
		return err == nil && n[relay.channel] > 0
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, relay.Emit(ctx, "u1", "notification", "ping"))

	select {
	case env := <-conn.sent:
		assert.Equal(t, "notification", env.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not deliver")
	}
}
