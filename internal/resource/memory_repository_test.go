package resource_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

func TestMemoryRepository_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := resource.NewMemoryRepository(
		resource.WithClock[widget](steppingClock()),
		resource.WithUnique(widgetByName),
	)

	w := &widget{Name: "Pool", Group: "outdoor"}
	require.NoError(t, repo.Create(ctx, w))
	assert.False(t, w.ID.IsZero())
	assert.False(t, w.CreatedAt.IsZero())
	assert.Equal(t, w.CreatedAt, w.UpdatedAt)

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, *w, *got)

	got.Name = "Heated pool"
	require.NoError(t, repo.Replace(ctx, got))
	assert.Equal(t, w.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	again, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heated pool", again.Name)

	_, err = repo.Get(ctx, bson.NewObjectID())
	assert.ErrorIs(t, err, resource.ErrNotFound)
	assert.ErrorIs(t, repo.Replace(ctx, &widget{Base: resource.Base{ID: bson.NewObjectID()}}), resource.ErrNotFound)
}

func TestMemoryRepository_Unique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := resource.NewMemoryRepository(resource.WithUnique(widgetByName))

	first := &widget{Name: "Gym"}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &widget{Name: "gym"})
	require.ErrorIs(t, err, validator.ErrValidationFailed)
	assert.True(t, validator.ExtractValidationErrors(err).Has("name"))

	second := &widget{Name: "Sauna"}
	require.NoError(t, repo.Create(ctx, second))
	second.Name = "GYM"
	assert.ErrorIs(t, repo.Replace(ctx, second), validator.ErrValidationFailed)

	// Soft-deleted documents release their unique keys.
	require.NoError(t, repo.Delete(ctx, first.ID))
	require.NoError(t, repo.Create(ctx, &widget{Name: "Gym"}))
}

func TestMemoryRepository_SoftDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := resource.NewMemoryRepository[widget]()

	w := &widget{Name: "Spa"}
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Delete(ctx, w.ID))

	_, err := repo.Get(ctx, w.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, w.ID), resource.ErrNotFound)

	page, err := repo.List(ctx, nil, pagination.Default())
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestMemoryRepository_HardDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := resource.NewMemoryRepository[gadget]()

	g := &gadget{Name: "Projector"}
	require.NoError(t, repo.Create(ctx, g))
	require.NoError(t, repo.Delete(ctx, g.ID))
	assert.ErrorIs(t, repo.Delete(ctx, g.ID), resource.ErrNotFound)
}

func TestMemoryRepository_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := resource.NewMemoryRepository(resource.WithClock[widget](steppingClock()))

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		group := "indoor"
		if name == "b" || name == "d" {
			group = "outdoor"
		}
		require.NoError(t, repo.Create(ctx, &widget{Name: name, Group: group}))
	}

	page, err := repo.List(ctx, nil, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "e", page.Items[0].Name)
	assert.Equal(t, "d", page.Items[1].Name)

	page, err = repo.List(ctx, groupFilter("outdoor"), pagination.Default())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "d", page.Items[0].Name)
	assert.Equal(t, "b", page.Items[1].Name)

	page, err = repo.List(ctx, nil, pagination.Params{Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, pagination.MaxLimit, page.Limit)

	require.NotPanics(t, func() {
		page, err = repo.List(ctx, nil, pagination.Params{Page: math.MaxInt, Limit: 100})
	})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 5, page.Total)
}

func TestNewRepository_PanicsWithoutBase(t *testing.T) {
	t.Parallel()

	type bare struct{ Name string }
	assert.Panics(t, func() { resource.NewMemoryRepository[bare]() })
	assert.Panics(t, func() {
		resource.NewMemoryRepository(resource.WithUnique(resource.Unique[widget]{Name: "broken"}))
	})
}

func TestFilters(t *testing.T) {
	t.Parallel()

	indoor := resource.Where(bson.E{Key: "group", Value: "indoor"}, func(w *widget) bool { return w.Group == "indoor" })
	named := resource.Where(bson.E{Key: "name", Value: "a"}, func(w *widget) bool { return w.Name == "a" })
	both := resource.All(indoor, named)

	assert.Equal(t, bson.D{{Key: "group", Value: "indoor"}, {Key: "name", Value: "a"}}, both.Query())
	assert.True(t, both.Match(&widget{Name: "a", Group: "indoor"}))
	assert.False(t, both.Match(&widget{Name: "b", Group: "indoor"}))

	none := resource.All[widget]()
	assert.Empty(t, none.Query())
	assert.True(t, none.Match(&widget{}))
}
