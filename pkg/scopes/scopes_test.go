package scopes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/bookspace/pkg/scopes"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scope, pattern string
		want           bool
	}{
		{"amenities.read", "amenities.read", true},
		{"amenities.read", "*", true},
		{"amenities.read", "amenities.*", true},
		{"amenities", "amenities.*", false},
		{"amenitiesx.read", "amenities.*", false},
		{"amenities.read", "amenities.write", false},
		{"a.b.c", "a.*", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scopes.Matches(tt.scope, tt.pattern), "%s vs %s", tt.scope, tt.pattern)
	}
}

func TestHas(t *testing.T) {
	t.Parallel()

	granted := []string{"messages.*", "amenities.read"}

	assert.True(t, scopes.Has(granted, "messages.create"))
	assert.False(t, scopes.Has(granted, "amenities.delete"))
	assert.True(t, scopes.HasAny(granted, []string{"amenities.delete", "amenities.read"}))
	assert.True(t, scopes.HasAny(granted, nil))
	assert.False(t, scopes.HasAny(nil, []string{"x"}))
	assert.True(t, scopes.HasAll(granted, []string{"messages.read", "amenities.read"}))
	assert.False(t, scopes.HasAll(granted, []string{"messages.read", "reactions.read"}))
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, scopes.Valid("notifications.read"))
	assert.True(t, scopes.Valid("notifications.*"))
	assert.True(t, scopes.Valid("*"))
	assert.False(t, scopes.Valid(""))
	assert.False(t, scopes.Valid("a..b"))
	assert.False(t, scopes.Valid("*.read"))
	assert.False(t, scopes.Valid("a.b*"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a.read", "b.read"}, scopes.Normalize([]string{" b.read", "a.read", "b.read", ""}))
	assert.Equal(t, []string{"*"}, scopes.Normalize([]string{"a.read", "*"}))
	assert.Empty(t, scopes.Normalize(nil))
}
