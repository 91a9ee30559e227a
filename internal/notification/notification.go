package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/pkg/validator"
)

// Notification is a persisted message addressed to one user. Only IsRead
// and IsDelivered change after creation.
type Notification struct {
	ID          bson.ObjectID  `bson:"_id" json:"id"`
	UserID      bson.ObjectID  `bson:"user" json:"user_id"`
	Title       string         `bson:"title" json:"title"`
	Message     string         `bson:"message" json:"message"`
	Type        Category       `bson:"type" json:"type"`
	IsRead      bool           `bson:"isRead" json:"is_read"`
	IsDelivered bool           `bson:"isDelivered" json:"is_delivered"`
	CreatedAt   time.Time      `bson:"createdAt" json:"created_at"`
	Target      *TargetRef     `bson:"target,omitempty" json:"target,omitempty"`
	Account     *bson.ObjectID `bson:"account,omitempty" json:"account,omitempty"`
	Link        string         `bson:"link,omitempty" json:"link,omitempty"`
}

const (
	maxTitleLen   = 200
	maxMessageLen = 2000
)

// CreateParams carries the caller-supplied fields of a new notification.
type CreateParams struct {
	UserID  bson.ObjectID
	Title   string
	Message string
	Type    Category
	Target  *TargetRef
	Account *bson.ObjectID
	Link    string
}

// Validate reports every invalid field as validator.ValidationErrors.
func (p CreateParams) Validate() error {
	rules := []validator.Rule{
		{
			Check: func() bool { return !p.UserID.IsZero() },
			Error: validator.ValidationError{Field: "user_id", Message: "field is required", Key: "validation.required"},
		},
		validator.OneOf("type", p.Type, Categories()),
		validator.Required("title", p.Title),
		validator.MaxLen("title", p.Title, maxTitleLen),
		validator.Required("message", p.Message),
		validator.MaxLen("message", p.Message, maxMessageLen),
		validator.When(p.Link != "", validator.ValidLink("link", p.Link)),
	}
	if p.Target != nil {
		rules = append(rules,
			validator.OneOf("target.kind", p.Target.Kind, targetKinds),
			validator.Rule{
				Check: func() bool { return !p.Target.ID.IsZero() },
				Error: validator.ValidationError{Field: "target.id", Message: "field is required", Key: "validation.required"},
			},
		)
	}
	if p.Account != nil {
		rules = append(rules, validator.Rule{
			Check: func() bool { return !p.Account.IsZero() },
			Error: validator.ValidationError{Field: "account", Message: "must be a valid identifier", Key: "validation.object_id"},
		})
	}
	return validator.Apply(rules...)
}

// build applies creation defaults: unread, undelivered, stamped now.
func (p CreateParams) build(now time.Time) *Notification {
	n := &Notification{
		ID:        bson.NewObjectID(),
		UserID:    p.UserID,
		Title:     p.Title,
		Message:   p.Message,
		Type:      p.Type,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		Link:      p.Link,
	}
	if p.Target != nil {
		t := *p.Target
		n.Target = &t
	}
	if p.Account != nil {
		a := *p.Account
		n.Account = &a
	}
	return n
}

// clone copies n including its pointer fields.
func (n *Notification) clone() *Notification {
	cp := *n
	if n.Target != nil {
		t := *n.Target
		cp.Target = &t
	}
	if n.Account != nil {
		a := *n.Account
		cp.Account = &a
	}
	return &cp
}
