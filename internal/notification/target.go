package notification

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/pkg/validator"
)

// TargetKind names the entity a notification points at.
type TargetKind string

const (
	TargetAmenity     TargetKind = "amenity"
	TargetEventType   TargetKind = "eventType"
	TargetSubCategory TargetKind = "subCategory"
	TargetMessage     TargetKind = "message"
	TargetReaction    TargetKind = "reaction"
	TargetUser        TargetKind = "user"
)

var targetKinds = []TargetKind{
	TargetAmenity,
	TargetEventType,
	TargetSubCategory,
	TargetMessage,
	TargetReaction,
	TargetUser,
}

// TargetRef is a typed pointer to another document.
type TargetRef struct {
	Kind TargetKind    `bson:"kind" json:"kind"`
	ID   bson.ObjectID `bson:"id" json:"id"`
}

// TargetLookup loads the document behind an id. Not-found errors pass
// through unchanged.
type TargetLookup func(ctx context.Context, id bson.ObjectID) (any, error)

// TargetResolver dispatches a TargetRef to the lookup registered for its kind.
type TargetResolver struct {
	mu      sync.RWMutex
	lookups map[TargetKind]TargetLookup
}

func NewTargetResolver() *TargetResolver {
	return &TargetResolver{lookups: make(map[TargetKind]TargetLookup, len(targetKinds))}
}

// Register sets the lookup for kind and returns r for chaining.
// Registering an unknown kind panics.
func (r *TargetResolver) Register(kind TargetKind, fn TargetLookup) *TargetResolver {
	if !validTargetKind(kind) {
		panic(fmt.Sprintf("notification: unknown target kind %q", kind))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[kind] = fn
	return r
}

// Resolve loads the referenced document. An unknown kind or a kind with no
// registered lookup is a validation error.
func (r *TargetResolver) Resolve(ctx context.Context, ref TargetRef) (any, error) {
	r.mu.RLock()
	fn, ok := r.lookups[ref.Kind]
	r.mu.RUnlock()
	if !ok || !validTargetKind(ref.Kind) {
		return nil, validator.NewError("target.kind", "validation.target_kind",
			fmt.Sprintf("cannot resolve target kind %q", ref.Kind))
	}
	return fn(ctx, ref.ID)
}

func validTargetKind(k TargetKind) bool {
	return slices.Contains(targetKinds, k)
}
