// Package eventtype manages the kinds of events a space can host. Event
// types are removed outright and their names are unique.
package eventtype

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

const CollectionName = "event_types"

type EventType struct {
	resource.Base `bson:",inline"`
	Name          string `bson:"name" json:"name"`
	Description   string `bson:"description,omitempty" json:"description,omitempty"`
	Icon          string `bson:"icon,omitempty" json:"icon,omitempty"`
}

var uniqueName = resource.Unique[EventType]{
	Name:   "event_types_name_unique",
	Fields: []string{"name"},
	Key:    func(e *EventType) string { return e.Name },
}

func NewMongoRepository(db *mongo.Database) *resource.MongoRepository[EventType] {
	return resource.NewMongoRepository(db, CollectionName, resource.WithUnique(uniqueName))
}

func NewMemoryRepository() *resource.MemoryRepository[EventType] {
	return resource.NewMemoryRepository(resource.WithUnique(uniqueName))
}

type Handler = resource.Handler[EventType, CreateRequest, UpdateRequest, ListQuery]

func NewHandler(repo resource.Repository[EventType], cfg resource.Config[EventType]) *Handler {
	cfg.Name = CollectionName
	cfg.ReadPermission = access.EventTypesRead
	cfg.WritePermission = access.EventTypesWrite
	return resource.NewHandler[EventType, CreateRequest, UpdateRequest, ListQuery](repo, cfg)
}

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
)

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (r CreateRequest) Validate() error {
	return validator.Apply(
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, maxNameLen),
		validator.MaxLen("description", r.Description, maxDescriptionLen),
		validator.When(r.Icon != "", validator.ValidLink("icon", r.Icon)),
	)
}

func (r CreateRequest) Build(context.Context) (*EventType, error) {
	return &EventType{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Icon:        r.Icon,
	}, nil
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

func (r UpdateRequest) Validate() error {
	var rules []validator.Rule
	if r.Name != nil {
		rules = append(rules,
			validator.Required("name", *r.Name),
			validator.MaxLen("name", *r.Name, maxNameLen),
		)
	}
	if r.Description != nil {
		rules = append(rules, validator.MaxLen("description", *r.Description, maxDescriptionLen))
	}
	if r.Icon != nil && *r.Icon != "" {
		rules = append(rules, validator.ValidLink("icon", *r.Icon))
	}
	return validator.Apply(rules...)
}

func (r UpdateRequest) Apply(e *EventType) {
	if r.Name != nil {
		e.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.Icon != nil {
		e.Icon = *r.Icon
	}
}

// ListQuery filters by exact name.
type ListQuery struct {
	pagination.Params
	Name string `query:"name"`
}

func (q ListQuery) Pagination() pagination.Params { return q.Params }

func (q ListQuery) Filter() (resource.Filter[EventType], error) {
	if q.Name == "" {
		return resource.All[EventType](), nil
	}
	return resource.Where(
		bson.E{Key: "name", Value: q.Name},
		func(e *EventType) bool { return e.Name == q.Name },
	), nil
}
