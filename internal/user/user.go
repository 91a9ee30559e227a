package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var ErrNotFound = errors.New("user: not found")

// User is the account a credential subject resolves to. Accounts are managed
// elsewhere; this service only reads them.
type User struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	Email     string        `bson:"email" json:"email"`
	Name      string        `bson:"name" json:"name"`
	Role      string        `bson:"role" json:"role"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
}

// Finder resolves users by id. Implementations return ErrNotFound for
// unknown ids.
type Finder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
}
