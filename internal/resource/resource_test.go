package resource_test

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

type widget struct {
	resource.Base       `bson:",inline"`
	resource.SoftDelete `bson:",inline"`
	Name                string `bson:"name" json:"name"`
	Group               string `bson:"group" json:"group"`
}

type gadget struct {
	resource.Base `bson:",inline"`
	Name          string `bson:"name" json:"name"`
}

var widgetByName = resource.Unique[widget]{
	Name:   "widgets_name_unique",
	Fields: []string{"name"},
	Key:    func(w *widget) string { return strings.ToLower(w.Name) },
}

type createWidget struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

func (r createWidget) Validate() error {
	return validator.Apply(validator.Required("name", r.Name))
}

func (r createWidget) Build(context.Context) (*widget, error) {
	return &widget{Name: r.Name, Group: r.Group}, nil
}

type updateWidget struct {
	Name *string `json:"name"`
}

func (r updateWidget) Validate() error {
	if r.Name == nil {
		return nil
	}
	return validator.Apply(validator.Required("name", *r.Name))
}

func (r updateWidget) Apply(w *widget) {
	if r.Name != nil {
		w.Name = *r.Name
	}
}

type listWidgets struct {
	pagination.Params
	Group string `query:"group"`
}

func (q listWidgets) Pagination() pagination.Params { return q.Params }

func (q listWidgets) Filter() (resource.Filter[widget], error) { return groupFilter(q.Group), nil }

type groupFilter string

func (g groupFilter) Query() bson.D {
	if g == "" {
		return nil
	}
	return bson.D{{Key: "group", Value: string(g)}}
}

func (g groupFilter) Match(w *widget) bool { return g == "" || w.Group == string(g) }

func steppingClock() func() time.Time {
	t := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}
