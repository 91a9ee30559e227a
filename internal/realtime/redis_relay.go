package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/bookspace/pkg/logger"
)

// DefaultRelayChannel is the pub/sub channel shared by all replicas.
const DefaultRelayChannel = "bookspace:realtime"

const (
	defaultRetryMin = 500 * time.Millisecond
	defaultRetryMax = 30 * time.Second
)

// relayMessage is the pub/sub payload.
type relayMessage struct {
	UserID string          `json:"user_id"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// RedisRelay fans events out across replicas: Emit publishes, and Run
// forwards every published event to the local registry.
type RedisRelay struct {
	client  redis.UniversalClient
	local   Registry
	channel  string
	logger   *slog.Logger
	retryMin time.Duration
	retryMax time.Duration
	run      func(context.Context) error
}

// RelayOption configures a RedisRelay.
type RelayOption func(*RedisRelay)

func WithRelayChannel(name string) RelayOption {
	return func(r *RedisRelay) {
		if name != "" {
			r.channel = name
		}
	}
}

func WithRelayLogger(l *slog.Logger) RelayOption {
	return func(r *RedisRelay) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRelayRetry sets the resubscribe backoff used by Serve. Delays
// double from min up to max.
func WithRelayRetry(minDelay, maxDelay time.Duration) RelayOption {
	return func(r *RedisRelay) {
		if minDelay > 0 && maxDelay >= minDelay {
			r.retryMin, r.retryMax = minDelay, maxDelay
		}
	}
}

func NewRedisRelay(client redis.UniversalClient, local Registry, opts ...RelayOption) *RedisRelay {
	r := &RedisRelay{
		client:   client,
		local:    local,
		channel:  DefaultRelayChannel,
		logger:   slog.Default(),
		retryMin: defaultRetryMin,
		retryMax: defaultRetryMax,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.run = r.Run
	r.logger = r.logger.With(logger.Component("realtime.relay"))
	return r
}

// Emit publishes the event for every replica, this one included.
func (r *RedisRelay) Emit(ctx context.Context, userID, event string, payload any) error {
	msg, err := encodeRelayMessage(userID, event, payload)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

// Run subscribes to the channel and blocks until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(ctx, m.Payload)
		}
	}
}

// Serve keeps the relay subscribed until ctx is done. Whenever Run stops
// early it is restarted after an exponential backoff; the delay resets
// once a subscription has stayed up longer than the maximum delay.
func (r *RedisRelay) Serve(ctx context.Context) {
	delay := r.retryMin
	for {
		started := time.Now()
		err := r.run(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > r.retryMax {
			delay = r.retryMin
		}
		r.logger.LogAttrs(ctx, slog.LevelError, "relay stopped, resubscribing",
			slog.Duration("retry_in", delay),
			logger.Error(err),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		delay = min(delay*2, r.retryMax)
	}
}

func (r *RedisRelay) forward(ctx context.Context, payload string) {
	var msg relayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "dropping malformed relay message", logger.Error(err))
		return
	}
	if err := r.local.Emit(ctx, msg.UserID, msg.Event, msg.Data); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "relay delivery failed",
			logger.UserID(msg.UserID),
			logger.Event(msg.Event),
			logger.Error(err),
		)
	}
}

func encodeRelayMessage(userID, event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(relayMessage{UserID: userID, Event: event, Data: data})
}
