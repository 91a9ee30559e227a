// Package reaction stores emoji reactions to messages. A user reacts to
// a message with a given emoji at most once.
package reaction

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

const CollectionName = "reactions"

type Reaction struct {
	resource.Base `bson:",inline"`
	Message       bson.ObjectID `bson:"message" json:"message"`
	User          bson.ObjectID `bson:"user" json:"user"`
	Emoji         string        `bson:"emoji" json:"emoji"`
}

var uniqueReaction = resource.Unique[Reaction]{
	Name:   "reactions_message_user_emoji_unique",
	Fields: []string{"message", "user", "emoji"},
	Key:    func(r *Reaction) string { return r.Message.Hex() + r.User.Hex() + r.Emoji },
}

func NewMongoRepository(db *mongo.Database) *resource.MongoRepository[Reaction] {
	return resource.NewMongoRepository(db, CollectionName, resource.WithUnique(uniqueReaction))
}

func NewMemoryRepository() *resource.MemoryRepository[Reaction] {
	return resource.NewMemoryRepository(resource.WithUnique(uniqueReaction))
}

type Handler = resource.Handler[Reaction, CreateRequest, UpdateRequest, ListQuery]

// NewHandler fills in the entity name and permissions. Anyone with read
// access sees every reaction; only the author may change or remove one.
func NewHandler(repo resource.Repository[Reaction], cfg resource.Config[Reaction]) *Handler {
	cfg.Name = CollectionName
	cfg.ReadPermission = access.ReactionsRead
	cfg.WritePermission = access.ReactionsWrite
	cfg.WriteScope = AuthorScope
	return resource.NewHandler[Reaction, CreateRequest, UpdateRequest, ListQuery](repo, cfg)
}

// AuthorScope limits the caller to their own reactions.
func AuthorScope(ctx context.Context) (resource.Filter[Reaction], error) {
	user, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return resource.Where(
		bson.E{Key: "user", Value: user},
		func(r *Reaction) bool { return r.User == user },
	), nil
}

type CreateRequest struct {
	Message string `json:"message"`
	Emoji   string `json:"emoji"`
}

func (r CreateRequest) Validate() error {
	return validator.Apply(
		validator.ValidObjectID("message", r.Message),
		validator.ValidEmoji("emoji", r.Emoji),
	)
}

// Build attributes the reaction to the authenticated caller.
func (r CreateRequest) Build(ctx context.Context) (*Reaction, error) {
	user, err := access.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := resource.ParseIDField("message", r.Message)
	if err != nil {
		return nil, err
	}
	return &Reaction{Message: msg, User: user, Emoji: r.Emoji}, nil
}

// UpdateRequest swaps the emoji of an existing reaction.
type UpdateRequest struct {
	Emoji *string `json:"emoji"`
}

func (r UpdateRequest) Validate() error {
	if r.Emoji == nil {
		return nil
	}
	return validator.Apply(validator.ValidEmoji("emoji", *r.Emoji))
}

func (r UpdateRequest) Apply(x *Reaction) {
	if r.Emoji != nil {
		x.Emoji = *r.Emoji
	}
}

type ListQuery struct {
	pagination.Params
	Message string `query:"message"`
	User    string `query:"user"`
}

func (q ListQuery) Pagination() pagination.Params { return q.Params }

func (q ListQuery) Filter() (resource.Filter[Reaction], error) {
	var filters []resource.Filter[Reaction]
	if q.Message != "" {
		id, err := resource.ParseIDField("message", q.Message)
		if err != nil {
			return nil, err
		}
		filters = append(filters, resource.Where(
			bson.E{Key: "message", Value: id},
			func(r *Reaction) bool { return r.Message == id },
		))
	}
	if q.User != "" {
		id, err := resource.ParseIDField("user", q.User)
		if err != nil {
			return nil, err
		}
		filters = append(filters, resource.Where(
			bson.E{Key: "user", Value: id},
			func(r *Reaction) bool { return r.User == id },
		))
	}
	return resource.All(filters...), nil
}
