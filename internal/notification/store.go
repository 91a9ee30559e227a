package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
)

// Store persists notifications. Unread queries take an optional account:
// non-nil selects that sub-account exactly, nil selects only notifications
// without an account.
type Store interface {
	// Create validates p and stores an unread, undelivered notification.
	Create(ctx context.Context, p CreateParams) (*Notification, error)
	// Get returns one notification owned by user, or ErrNotFound.
	Get(ctx context.Context, user, id bson.ObjectID) (*Notification, error)
	// ListForUser pages user's notifications newest first. page and limit
	// are clamped; an empty page is not an error.
	ListForUser(ctx context.Context, user bson.ObjectID, page, limit int) (pagination.Page[Notification], error)
	// ListUnread returns every matching unread notification, newest first.
	ListUnread(ctx context.Context, user bson.ObjectID, account *bson.ObjectID) ([]Notification, error)
	CountUnread(ctx context.Context, user bson.ObjectID, account *bson.ObjectID) (int64, error)
	// MarkRead flags the ListUnread selection as read and returns how many
	// records changed. Repeating it is harmless.
	MarkRead(ctx context.Context, user bson.ObjectID, account *bson.ObjectID) (int64, error)
	MarkDelivered(ctx context.Context, id bson.ObjectID) error
	// DeleteAllForUser removes user's notifications and nobody else's.
	DeleteAllForUser(ctx context.Context, user bson.ObjectID) (int64, error)
}

// matchesAccount applies the sub-account selection rule.
func matchesAccount(n *Notification, account *bson.ObjectID) bool {
	if account == nil {
		return n.Account == nil
	}
	return n.Account != nil && *n.Account == *account
}
