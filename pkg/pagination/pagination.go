package pagination

import "math"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the page request bound from `?page=&limit=`.
type Params struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Default returns the parameters used when the client sends none.
func Default() Params {
	return Params{Page: 1, Limit: DefaultLimit}
}

// OrDefault fills zero fields with the defaults. Explicit out-of-range
// values are left for Clamp.
func (p Params) OrDefault() Params {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Clamp forces page into [1, inf) and limit into [1, MaxLimit].
func Clamp(page, limit int) Params {
	return Params{Page: max(page, 1), Limit: min(max(limit, 1), MaxLimit)}
}

// Skip is the number of records before the page. It saturates at
// math.MaxInt64 instead of overflowing.
func (p Params) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	pages, limit := int64(p.Page-1), int64(p.Limit)
	if pages > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return pages * limit
}

// Page is one slice of a sorted result set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a Page; p must already be clamped. A nil items slice is
// replaced with an empty one so it encodes as [].
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}

// TotalPages is ceil(total/limit); zero when there is nothing to show.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Window returns the [lo, hi) bounds of p over n in-memory items.
func (p Params) Window(n int) (lo, hi int) {
	skip := p.Skip()
	if n <= 0 || skip < 0 || skip >= int64(n) {
		return max(n, 0), max(n, 0)
	}
	lo = int(skip)
	hi = lo + min(max(p.Limit, 0), n-lo)
	return lo, hi
}
