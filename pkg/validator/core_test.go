package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add(validator.ValidationError{Field: "name", Message: "field is required"})
	errs.Add(validator.ValidationError{Field: "icon", Message: "too long"})
	assert.Equal(t, "validation failed: name: field is required; icon: too long", errs.Error())
}

func TestValidationErrors_Accessors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "name", Message: "a"},
		{Field: "name", Message: "b"},
		{Field: "emoji", Message: "c"},
	}

	assert.True(t, errs.Has("name"))
	assert.False(t, errs.Has("body"))
	assert.Equal(t, []string{"a", "b"}, errs.Get("name"))
	assert.Equal(t, []string{"name", "emoji"}, errs.Fields())
	assert.Equal(t, map[string][]string{"name": {"a", "b"}, "emoji": {"c"}}, errs.Map())
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all pass", func(t *testing.T) {
		err := validator.Apply(
			validator.Required("name", "Pool"),
			validator.MaxLen("name", "Pool", 10),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		err := validator.Apply(
			validator.Required("name", "  "),
			validator.MaxLen("description", "too long text", 3),
			validator.OneOf("category", "x", []string{"a", "b"}),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		verrs := validator.ExtractValidationErrors(err)
		require.Len(t, verrs, 3)
		assert.Equal(t, "validation.required", verrs[0].Key)
		assert.Equal(t, "validation.max_length", verrs[1].Key)
		assert.Equal(t, "validation.one_of", verrs[2].Key)
	})

	t.Run("when skips optional fields", func(t *testing.T) {
		link := ""
		err := validator.Apply(validator.When(link != "", validator.ValidLink("link", link)))
		assert.NoError(t, err)
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("boom")))
	assert.False(t, validator.IsValidationError(errors.New("boom")))

	wrapped := fmt.Errorf("create amenity: %w", validator.NewError("name", "validation.unique", "already exists"))
	assert.True(t, validator.IsValidationError(wrapped))
	assert.ErrorIs(t, wrapped, validator.ErrValidationFailed)
	assert.Equal(t, []string{"already exists"}, validator.ExtractValidationErrors(wrapped).Get("name"))
}
