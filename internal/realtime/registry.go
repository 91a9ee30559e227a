package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/bookspace/pkg/logger"
)

// Envelope is the wire frame sent to clients.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Conn is one live client connection.
type Conn interface {
	ID() string
	// Send queues env for delivery without blocking.
	Send(env Envelope) error
	Close() error
}

// Registry tracks live connections per user.
type Registry interface {
	Register(userID string, c Conn)
	// Unregister removes c and drops the user entry once it is empty.
	Unregister(userID string, c Conn)
	Lookup(userID string) []Conn
	// Emit sends event to every connection of userID. No connections is
	// not an error; per-connection failures are joined.
	Emit(ctx context.Context, userID, event string, payload any) error
	// CloseAll closes every connection; their handlers unregister them.
	CloseAll()
}

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu     sync.RWMutex
	conns  map[string]map[string]Conn
	logger *slog.Logger
}

// RegistryOption configures a MemoryRegistry.
type RegistryOption func(*MemoryRegistry)

func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *MemoryRegistry) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewMemoryRegistry(opts ...RegistryOption) *MemoryRegistry {
	r := &MemoryRegistry{
		conns:  make(map[string]map[string]Conn),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryRegistry) Register(userID string, c Conn) {
	r.mu.Lock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[string]Conn)
		r.conns[userID] = set
	}
	set[c.ID()] = c
	n := len(set)
	r.mu.Unlock()

	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "connection registered",
		logger.UserID(userID),
		logger.ConnectionID(c.ID()),
		slog.Int("user_connections", n),
	)
}

func (r *MemoryRegistry) Unregister(userID string, c Conn) {
	r.mu.Lock()
	if set, ok := r.conns[userID]; ok {
		delete(set, c.ID())
		if len(set) == 0 {
			delete(r.conns, userID)
		}
	}
	r.mu.Unlock()

	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "connection unregistered",
		logger.UserID(userID),
		logger.ConnectionID(c.ID()),
	)
}

func (r *MemoryRegistry) Lookup(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.conns[userID]
	out := make([]Conn, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// Users returns the number of users with at least one connection.
func (r *MemoryRegistry) Users() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *MemoryRegistry) Emit(_ context.Context, userID, event string, payload any) error {
	env := Envelope{Event: event, Data: payload}
	var errs []error
	for _, c := range r.Lookup(userID) {
		if err := c.Send(env); err != nil {
			errs = append(errs, fmt.Errorf("connection %s: %w", c.ID(), err))
		}
	}
	return errors.Join(errs...)
}

func (r *MemoryRegistry) CloseAll() {
	r.mu.RLock()
	var all []Conn
	for _, set := range r.conns {
		for _, c := range set {
			all = append(all, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range all {
		_ = c.Close()
	}
}
