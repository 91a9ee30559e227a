package notification

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
)

// MemoryStore keeps notifications in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*Notification
	now   func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides time.Now for creation timestamps.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, p CreateParams) (*Notification, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.build(s.now())

	s.mu.Lock()
	s.items = append(s.items, n)
	s.mu.Unlock()

	return n.clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, user, id bson.ObjectID) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.items {
		if n.ID == id && n.UserID == user {
			return n.clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListForUser(_ context.Context, user bson.ObjectID, page, limit int) (pagination.Page[Notification], error) {
	p := pagination.Clamp(page, limit)
	all := s.newestFirst(func(n *Notification) bool { return n.UserID == user })
	lo, hi := p.Window(len(all))
	return pagination.NewPage(all[lo:hi], int64(len(all)), p), nil
}

func (s *MemoryStore) ListUnread(_ context.Context, user bson.ObjectID, account *bson.ObjectID) ([]Notification, error) {
	return s.newestFirst(unreadFilter(user, account)), nil
}

func (s *MemoryStore) CountUnread(_ context.Context, user bson.ObjectID, account *bson.ObjectID) (int64, error) {
	return int64(len(s.newestFirst(unreadFilter(user, account)))), nil
}

func (s *MemoryStore) MarkRead(_ context.Context, user bson.ObjectID, account *bson.ObjectID) (int64, error) {
	match := unreadFilter(user, account)

	s.mu.Lock()
	defer s.mu.Unlock()
	var modified int64
	for _, n := range s.items {
		if match(n) {
			n.IsRead = true
			modified++
		}
	}
	return modified, nil
}

func (s *MemoryStore) MarkDelivered(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			n.IsDelivered = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteAllForUser(_ context.Context, user bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(n *Notification) bool { return n.UserID == user })
	return int64(before - len(s.items)), nil
}

// newestFirst copies matching records sorted by creation time, latest
// insert first on ties.
func (s *MemoryStore) newestFirst(match func(*Notification) bool) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0)
	for i := len(s.items) - 1; i >= 0; i-- {
		if match(s.items[i]) {
			out = append(out, *s.items[i].clone())
		}
	}
	slices.SortStableFunc(out, func(a, b Notification) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

func unreadFilter(user bson.ObjectID, account *bson.ObjectID) func(*Notification) bool {
	return func(n *Notification) bool {
		return n.UserID == user && !n.IsRead && matchesAccount(n, account)
	}
}
