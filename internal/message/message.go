// Package message stores direct messages between users. Messages are
// soft-deleted; creating one notifies the recipient.
package message

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

const CollectionName = "messages"

type Message struct {
	resource.Base       `bson:",inline"`
	resource.SoftDelete `bson:",inline"`
	Conversation        bson.ObjectID `bson:"conversation" json:"conversation"`
	Sender              bson.ObjectID `bson:"sender" json:"sender"`
	Recipient           bson.ObjectID `bson:"recipient" json:"recipient"`
	Body                string        `bson:"body" json:"body"`
	Attachments         []string      `bson:"attachments" json:"attachments"`
	IsRead              bool          `bson:"isRead" json:"is_read"`
}

func NewMongoRepository(db *mongo.Database) *resource.MongoRepository[Message] {
	return resource.NewMongoRepository[Message](db, CollectionName)
}

func NewMemoryRepository() *resource.MemoryRepository[Message] {
	return resource.NewMemoryRepository[Message]()
}

type Handler = resource.Handler[Message, CreateRequest, UpdateRequest, ListQuery]

// NewHandler fills in the entity name, permissions and participant
// scope. Pass NotifyRecipient as cfg.AfterCreate to notify recipients.
func NewHandler(repo resource.Repository[Message], cfg resource.Config[Message]) *Handler {
	cfg.Name = CollectionName
	cfg.ReadPermission = access.MessagesRead
	cfg.WritePermission = access.MessagesWrite
	cfg.Scope = ParticipantScope
	return resource.NewHandler[Message, CreateRequest, UpdateRequest, ListQuery](repo, cfg)
}

// ParticipantScope limits the caller to messages they sent or received.
func ParticipantScope(ctx context.Context) (resource.Filter[Message], error) {
	user, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return resource.Where(
		bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "sender", Value: user}},
			bson.D{{Key: "recipient", Value: user}},
		}},
		func(m *Message) bool { return m.Sender == user || m.Recipient == user },
	), nil
}

const (
	maxBodyLen     = 5000
	maxAttachments = 10
)

type CreateRequest struct {
	Conversation string   `json:"conversation"`
	Recipient    string   `json:"recipient"`
	Body         string   `json:"body"`
	Attachments  []string `json:"attachments"`
}

func (r CreateRequest) Validate() error {
	rules := []validator.Rule{
		validator.ValidObjectID("conversation", r.Conversation),
		validator.ValidObjectID("recipient", r.Recipient),
		validator.Required("body", r.Body),
		validator.MaxLen("body", r.Body, maxBodyLen),
		validator.MaxItems("attachments", r.Attachments, maxAttachments),
	}
	for _, a := range r.Attachments {
		rules = append(rules, validator.ValidLink("attachments", a))
	}
	return validator.Apply(rules...)
}

// Build sets the sender to the authenticated caller.
func (r CreateRequest) Build(ctx context.Context) (*Message, error) {
	sender, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	conversation, err := resource.ParseIDField("conversation", r.Conversation)
	if err != nil {
		return nil, err
	}
	recipient, err := resource.ParseIDField("recipient", r.Recipient)
	if err != nil {
		return nil, err
	}
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &Message{
		Conversation: conversation,
		Sender:       sender,
		Recipient:    recipient,
		Body:         r.Body,
		Attachments:  attachments,
	}, nil
}

type UpdateRequest struct {
	Body   *string `json:"body"`
	IsRead *bool   `json:"is_read"`
}

func (r UpdateRequest) Validate() error {
	if r.Body == nil {
		return nil
	}
	return validator.Apply(
		validator.Required("body", *r.Body),
		validator.MaxLen("body", *r.Body, maxBodyLen),
	)
}

// Guard lets only the sender edit the body and only the recipient flip
// the read flag.
func (r UpdateRequest) Guard(ctx context.Context, m *Message) error {
	user, err := access.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if r.Body != nil && user != m.Sender {
		return validator.NewError("body", "validation.not_sender", "only the sender can edit a message")
	}
	if r.IsRead != nil && user != m.Recipient {
		return validator.NewError("is_read", "validation.not_recipient", "only the recipient can mark a message read")
	}
	return nil
}

func (r UpdateRequest) Apply(m *Message) {
	if r.Body != nil {
		m.Body = *r.Body
	}
	if r.IsRead != nil {
		m.IsRead = *r.IsRead
	}
}

// ListQuery filters by conversation, sender and recipient; set filters
// are combined.
type ListQuery struct {
	pagination.Params
	Conversation string `query:"conversation"`
	Sender       string `query:"sender"`
	Recipient    string `query:"recipient"`
}

func (q ListQuery) Pagination() pagination.Params { return q.Params }

func (q ListQuery) Filter() (resource.Filter[Message], error) {
	var filters []resource.Filter[Message]
	for _, c := range []struct {
		field, value string
		get          func(*Message) bson.ObjectID
	}{
		{"conversation", q.Conversation, func(m *Message) bson.ObjectID { return m.Conversation }},
		{"sender", q.Sender, func(m *Message) bson.ObjectID { return m.Sender }},
		{"recipient", q.Recipient, func(m *Message) bson.ObjectID { return m.Recipient }},
	} {
		if c.value == "" {
			continue
		}
		id, err := resource.ParseIDField(c.field, c.value)
		if err != nil {
			return nil, err
		}
		get := c.get
		filters = append(filters, resource.Where(
			bson.E{Key: c.field, Value: id},
			func(m *Message) bool { return get(m) == id },
		))
	}
	return resource.All(filters...), nil
}
