package resource

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Base carries the identity and timestamps every entity has. Embed it with
// `bson:",inline"`.
type Base struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updated_at"`
}

func (b *Base) base() *Base { return b }

// SoftDelete marks entities that are hidden rather than removed. Embed it
// with `bson:",inline"`.
type SoftDelete struct {
	Deleted   bool       `bson:"deleted" json:"-"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"-"`
}

func (s *SoftDelete) softDelete() *SoftDelete { return s }

type document interface {
	base() *Base
}

type softDeletable interface {
	softDelete() *SoftDelete
}

// meta returns the embedded Base of doc. T is checked at construction time.
func meta[T any](doc *T) *Base {
	return any(doc).(document).base()
}

func softMeta[T any](doc *T) (*SoftDelete, bool) {
	sd, ok := any(doc).(softDeletable)
	if !ok {
		return nil, false
	}
	return sd.softDelete(), true
}

func isDeleted[T any](doc *T) bool {
	sd, ok := softMeta(doc)
	return ok && sd.Deleted
}

func mustBeDocument[T any]() {
	if _, ok := any(new(T)).(document); !ok {
		panic("resource: entity type must embed resource.Base")
	}
}

func stamp(b *Base, now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if b.ID.IsZero() {
		b.ID = bson.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
