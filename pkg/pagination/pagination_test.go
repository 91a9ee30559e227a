package pagination_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, limit int
		want        pagination.Params
	}{
		{1, 20, pagination.Params{Page: 1, Limit: 20}},
		{0, 0, pagination.Params{Page: 1, Limit: 1}},
		{-3, -1, pagination.Params{Page: 1, Limit: 1}},
		{4, 1000, pagination.Params{Page: 4, Limit: 100}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pagination.Clamp(tt.page, tt.limit))
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, pagination.TotalPages(0, 10))
	assert.Equal(t, 1, pagination.TotalPages(10, 10))
	assert.Equal(t, 2, pagination.TotalPages(11, 10))
	assert.Equal(t, 3, pagination.TotalPages(250, 100))
}

func TestWindowAndSkip(t *testing.T) {
	t.Parallel()

	p := pagination.Clamp(3, 10)
	assert.Equal(t, int64(20), p.Skip())

	lo, hi := p.Window(25)
	assert.Equal(t, 20, lo)
	assert.Equal(t, 25, hi)

	lo, hi = p.Window(5)
	assert.Equal(t, 5, lo)
	assert.Equal(t, 5, hi)
}

func TestSkipSaturatesOnHugePage(t *testing.T) {
	t.Parallel()

	for _, p := range []pagination.Params{
		pagination.Clamp(math.MaxInt, 100),
		pagination.Clamp(math.MaxInt, 1),
		pagination.Clamp(math.MaxInt/50, 100),
	} {
		assert.Positive(t, p.Skip(), "%+v", p)

		var lo, hi int
		require.NotPanics(t, func() { lo, hi = p.Window(5) })
		assert.Equal(t, 5, lo)
		assert.Equal(t, 5, hi)
	}

	assert.Equal(t, int64(math.MaxInt64), pagination.Clamp(math.MaxInt, 100).Skip())
	assert.Zero(t, pagination.Params{Page: -4, Limit: 10}.Skip())

	lo, hi := pagination.Params{Page: 1, Limit: 10}.Window(0)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	page := pagination.NewPage[string](nil, 0, pagination.Default())
	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"limit":20,"total_pages":0}`, string(raw))

	page = pagination.NewPage([]string{"a"}, 21, pagination.Clamp(3, 10))
	assert.Equal(t, 3, page.TotalPages)
}

func TestOrDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pagination.Default(), pagination.Params{}.OrDefault())
	assert.Equal(t, pagination.Params{Page: 3, Limit: 20}, pagination.Params{Page: 3}.OrDefault())
	assert.Equal(t, pagination.Params{Page: 1, Limit: -5}, pagination.Params{Limit: -5}.OrDefault())
}
