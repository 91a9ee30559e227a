package subcategory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/internal/subcategory"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

func TestUniqueWithinCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := subcategory.NewMemoryRepository()

	build := func(category, name string) *subcategory.SubCategory {
		req := subcategory.CreateRequest{Category: category, Name: name}
		require.NoError(t, req.Validate())
		s, err := req.Build(ctx)
		require.NoError(t, err)
		return s
	}

	require.NoError(t, repo.Create(ctx, build("sports", "Tennis")))
	require.NoError(t, repo.Create(ctx, build("music", "Tennis")))

	err := repo.Create(ctx, build("sports", "Tennis"))
	require.ErrorIs(t, err, validator.ErrValidationFailed)
	assert.True(t, validator.ExtractValidationErrors(err).Has("name"))

	f, err := subcategory.ListQuery{Category: "sports"}.Filter()
	require.NoError(t, err)
	page, err := repo.List(ctx, f, pagination.Default())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "sports", page.Items[0].Category)
}

func TestCreateRequest_Validate(t *testing.T) {
	t.Parallel()

	verrs := validator.ExtractValidationErrors(subcategory.CreateRequest{}.Validate())
	assert.ElementsMatch(t, []string{"category", "name"}, verrs.Fields())
}
