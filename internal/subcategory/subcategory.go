// Package subcategory manages the sub-categories listings are filed under.
// A name is unique within its category.
package subcategory

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

const CollectionName = "sub_categories"

type SubCategory struct {
	resource.Base `bson:",inline"`
	Category      string `bson:"category" json:"category"`
	Name          string `bson:"name" json:"name"`
	Description   string `bson:"description,omitempty" json:"description,omitempty"`
}

var uniqueCategoryName = resource.Unique[SubCategory]{
	Name:   "sub_categories_category_name_unique",
	Fields: []string{"category", "name"},
	Key:    func(s *SubCategory) string { return s.Category + "\x00" + s.Name },
}

func NewMongoRepository(db *mongo.Database) *resource.MongoRepository[SubCategory] {
	return resource.NewMongoRepository(db, CollectionName, resource.WithUnique(uniqueCategoryName))
}

func NewMemoryRepository() *resource.MemoryRepository[SubCategory] {
	return resource.NewMemoryRepository(resource.WithUnique(uniqueCategoryName))
}

type Handler = resource.Handler[SubCategory, CreateRequest, UpdateRequest, ListQuery]

func NewHandler(repo resource.Repository[SubCategory], cfg resource.Config[SubCategory]) *Handler {
	cfg.Name = CollectionName
	cfg.ReadPermission = access.SubCategoriesRead
	cfg.WritePermission = access.SubCategoriesWrite
	return resource.NewHandler[SubCategory, CreateRequest, UpdateRequest, ListQuery](repo, cfg)
}

const (
	maxCategoryLen    = 100
	maxNameLen        = 100
	maxDescriptionLen = 1000
)

type CreateRequest struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreateRequest) Validate() error {
	return validator.Apply(
		validator.Required("category", r.Category),
		validator.MaxLen("category", r.Category, maxCategoryLen),
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, maxNameLen),
		validator.MaxLen("description", r.Description, maxDescriptionLen),
	)
}

func (r CreateRequest) Build(context.Context) (*SubCategory, error) {
	return &SubCategory{
		Category:    strings.TrimSpace(r.Category),
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
	}, nil
}

type UpdateRequest struct {
	Category    *string `json:"category"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r UpdateRequest) Validate() error {
	var rules []validator.Rule
	if r.Category != nil {
		rules = append(rules,
			validator.Required("category", *r.Category),
			validator.MaxLen("category", *r.Category, maxCategoryLen),
		)
	}
	if r.Name != nil {
		rules = append(rules,
			validator.Required("name", *r.Name),
			validator.MaxLen("name", *r.Name, maxNameLen),
		)
	}
	if r.Description != nil {
		rules = append(rules, validator.MaxLen("description", *r.Description, maxDescriptionLen))
	}
	return validator.Apply(rules...)
}

func (r UpdateRequest) Apply(s *SubCategory) {
	if r.Category != nil {
		s.Category = strings.TrimSpace(*r.Category)
	}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
}

// ListQuery filters by category.
type ListQuery struct {
	pagination.Params
	Category string `query:"category"`
}

func (q ListQuery) Pagination() pagination.Params { return q.Params }

func (q ListQuery) Filter() (resource.Filter[SubCategory], error) {
	if q.Category == "" {
		return resource.All[SubCategory](), nil
	}
	return resource.Where(
		bson.E{Key: "category", Value: q.Category},
		func(s *SubCategory) bool { return s.Category == q.Category },
	), nil
}
