package resource

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

// Repository stores one entity type. Soft-deleted documents are invisible
// to every method.
type Repository[T any] interface {
	// Create assigns identity and timestamps to doc and stores it.
	Create(ctx context.Context, doc *T) error
	Get(ctx context.Context, id bson.ObjectID) (*T, error)
	// List returns a newest-first page of documents matching f; a nil f
	// matches everything.
	List(ctx context.Context, f Filter[T], p pagination.Params) (pagination.Page[T], error)
	// Replace overwrites the stored document with doc and bumps UpdatedAt.
	Replace(ctx context.Context, doc *T) error
	// Delete applies the entity's delete policy.
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Filter narrows List. Query is the MongoDB form and Match the in-memory
// form of the same predicate.
type Filter[T any] interface {
	Query() bson.D
	Match(doc *T) bool
}

// Unique declares a uniqueness constraint over Fields. Key must project a
// document onto the same fields.
type Unique[T any] struct {
	Name   string
	Fields []string
	Key    func(doc *T) string
}

// violation is the error reported for a duplicate on u.
func (u Unique[T]) violation() error {
	field := u.Name
	if len(u.Fields) > 0 {
		field = u.Fields[len(u.Fields)-1]
	}
	return validator.NewError(field, "validation.unique", "already exists")
}

// Option configures a repository.
type Option[T any] func(*options[T])

type options[T any] struct {
	unique []Unique[T]
	now    func() time.Time
}

// WithUnique adds uniqueness constraints.
func WithUnique[T any](u ...Unique[T]) Option[T] {
	return func(o *options[T]) { o.unique = append(o.unique, u...) }
}

// WithClock overrides time.Now for timestamps.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(o *options[T]) { o.now = now }
}

func newOptions[T any](opts []Option[T]) options[T] {
	mustBeDocument[T]()
	o := options[T]{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	for _, u := range o.unique {
		if u.Key == nil || len(u.Fields) == 0 {
			panic(fmt.Sprintf("resource: unique constraint %q needs fields and a key", u.Name))
		}
	}
	return o
}
