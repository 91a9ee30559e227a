package resource

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
)

// MemoryRepository keeps documents in process memory. Documents are stored
// and returned as shallow copies.
type MemoryRepository[T any] struct {
	mu   sync.RWMutex
	docs []*T
	opts options[T]
}

func NewMemoryRepository[T any](opts ...Option[T]) *MemoryRepository[T] {
	return &MemoryRepository[T]{opts: newOptions(opts)}
}

func (r *MemoryRepository[T]) Create(_ context.Context, doc *T) error {
	stamp(meta(doc), r.opts.now())
	cp := *doc

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(&cp); err != nil {
		return err
	}
	r.docs = append(r.docs, &cp)
	return nil
}

func (r *MemoryRepository[T]) Get(_ context.Context, id bson.ObjectID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		cp := *r.docs[i]
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository[T]) List(_ context.Context, f Filter[T], p pagination.Params) (pagination.Page[T], error) {
	p = pagination.Clamp(p.Page, p.Limit)

	r.mu.RLock()
	matched := make([]T, 0)
	for i := len(r.docs) - 1; i >= 0; i-- {
		doc := r.docs[i]
		if isDeleted(doc) || (f != nil && !f.Match(doc)) {
			continue
		}
		matched = append(matched, *doc)
	}
	r.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b T) int {
		return cmp.Compare(meta(&b).CreatedAt.UnixNano(), meta(&a).CreatedAt.UnixNano())
	})
	lo, hi := p.Window(len(matched))
	return pagination.NewPage(matched[lo:hi], int64(len(matched)), p), nil
}

func (r *MemoryRepository[T]) Replace(_ context.Context, doc *T) error {
	b := meta(doc)

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(b.ID)
	if i < 0 {
		return ErrNotFound
	}
	b.CreatedAt = meta(r.docs[i]).CreatedAt
	stamp(b, r.opts.now())
	cp := *doc
	if err := r.checkUnique(&cp); err != nil {
		return err
	}
	r.docs[i] = &cp
	return nil
}

func (r *MemoryRepository[T]) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return ErrNotFound
	}
	if sd, ok := softMeta(r.docs[i]); ok {
		now := r.opts.now().UTC()
		sd.Deleted = true
		sd.DeletedAt = &now
		return nil
	}
	r.docs = slices.Delete(r.docs, i, i+1)
	return nil
}

// index finds a visible document; callers hold the lock.
func (r *MemoryRepository[T]) index(id bson.ObjectID) int {
	for i, doc := range r.docs {
		if meta(doc).ID == id && !isDeleted(doc) {
			return i
		}
	}
	return -1
}

// checkUnique compares doc against every other visible document.
func (r *MemoryRepository[T]) checkUnique(doc *T) error {
	id := meta(doc).ID
	for _, u := range r.opts.unique {
		key := u.Key(doc)
		for _, other := range r.docs {
			if meta(other).ID == id || isDeleted(other) {
				continue
			}
			if u.Key(other) == key {
				return u.violation()
			}
		}
	}
	return nil
}
