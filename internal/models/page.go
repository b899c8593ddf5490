package models

// MaxPageSize caps the number of items any caller can request per page.
// Larger requests are silently clamped, never rejected.
const MaxPageSize = 50

// DefaultPageSize is used when a caller does not specify a page size.
const DefaultPageSize = 10

// PageParams selects a 1-based page of a result set.
type PageParams struct {
	PageNumber int
	PageSize   int
}

// Normalize returns the params with the page number floored at 1 and the
// page size defaulted and clamped to MaxPageSize.
func (p PageParams) Normalize() PageParams {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of items preceding the requested page.
func (p PageParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// PageInfo is pagination metadata returned alongside a page of items, never
// embedded in the items themselves.
type PageInfo struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// Page is a bounded slice of a larger result set plus its metadata.
type Page[T any] struct {
	Items []T      `json:"items"`
	Info  PageInfo `json:"info"`
}

// NewPage builds a page from already-sliced items and the total count of the
// unbounded set. An offset past the end yields an empty, non-nil item slice.
func NewPage[T any](items []T, total int, p PageParams) Page[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	totalPages := total / p.PageSize
	if total%p.PageSize != 0 {
		totalPages++
	}
	return Page[T]{
		Items: items,
		Info: PageInfo{
			CurrentPage: p.PageNumber,
			PageSize:    p.PageSize,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	}
}
