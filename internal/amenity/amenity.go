// Package amenity manages the amenities a space can offer. Amenities are
// soft-deleted and their names are unique among visible amenities.
package amenity

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

const CollectionName = "amenities"

type Amenity struct {
	resource.Base       `bson:",inline"`
	resource.SoftDelete `bson:",inline"`
	Name                string `bson:"name" json:"name"`
	Description         string `bson:"description,omitempty" json:"description,omitempty"`
	Icon                string `bson:"icon,omitempty" json:"icon,omitempty"`
}

var uniqueName = resource.Unique[Amenity]{
	Name:   "amenities_name_unique",
	Fields: []string{"name"},
	Key:    func(a *Amenity) string { return a.Name },
}

func NewMongoRepository(db *mongo.Database) *resource.MongoRepository[Amenity] {
	return resource.NewMongoRepository(db, CollectionName, resource.WithUnique(uniqueName))
}

func NewMemoryRepository() *resource.MemoryRepository[Amenity] {
	return resource.NewMemoryRepository(resource.WithUnique(uniqueName))
}

// Handler serves /amenities.
type Handler = resource.Handler[Amenity, CreateRequest, UpdateRequest, ListQuery]

// NewHandler fills in the entity name and permissions.
func NewHandler(repo resource.Repository[Amenity], cfg resource.Config[Amenity]) *Handler {
	cfg.Name = CollectionName
	cfg.ReadPermission = access.AmenitiesRead
	cfg.WritePermission = access.AmenitiesWrite
	return resource.NewHandler[Amenity, CreateRequest, UpdateRequest, ListQuery](repo, cfg)
}

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
	maxIconLen        = 200
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
		validator.MaxLen("icon", r.Icon, maxIconLen),
	)
}

func (r CreateRequest) Build(context.Context) (*Amenity, error) {
	return &Amenity{
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
	if r.Icon != nil {
		rules = append(rules, validator.MaxLen("icon", *r.Icon, maxIconLen))
	}
	return validator.Apply(rules...)
}

func (r UpdateRequest) Apply(a *Amenity) {
	if r.Name != nil {
		a.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.Icon != nil {
		a.Icon = *r.Icon
	}
}

// ListQuery filters by a case-insensitive name fragment.
type ListQuery struct {
	pagination.Params
	Name string `query:"name"`
}

func (q ListQuery) Pagination() pagination.Params { return q.Params }

func (q ListQuery) Filter() (resource.Filter[Amenity], error) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return resource.All[Amenity](), nil
	}
	needle := strings.ToLower(name)
	return resource.Where(
		bson.E{Key: "name", Value: bson.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}},
		func(a *Amenity) bool { return strings.Contains(strings.ToLower(a.Name), needle) },
	), nil
}
