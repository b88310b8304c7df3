package pagination

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Defaults used when a Config leaves a value unset.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	// ErrPageNotFound is returned when the requested page is outside 1..TotalPages.
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidPageSize is returned when the page size is outside 1..max.
	ErrInvalidPageSize = errors.New("invalid page size")
)

// Config holds the page size bounds.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Request describes which page of which result set a client wants.
// Zero PageSize and PageNumber select the defaults.
type Request struct {
	PageSize   int
	PageNumber int
	Search     string
}

// Page is one window of a result set.
type Page[T any] struct {
	Items       []T `json:"results"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	TotalItems  int `json:"total_items"`
}

// CountFunc returns the number of items matching search.
type CountFunc func(ctx context.Context, search string) (int, error)

// FetchFunc returns at most limit items matching search, skipping offset.
type FetchFunc[T any] func(ctx context.Context, search string, limit, offset int) ([]T, error)

// Normalize applies cfg's defaults to req and checks the page size bounds.
// A zero page number becomes 1; page numbers are checked in Paginate.
func (cfg Config) Normalize(req Request) (Request, error) {
	defaultSize, maxSize := cfg.DefaultPageSize, cfg.MaxPageSize
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if defaultSize <= 0 || defaultSize > maxSize {
		defaultSize = min(DefaultPageSize, maxSize)
	}

	if req.PageSize == 0 {
		req.PageSize = defaultSize
	}
	if req.PageSize < 1 || req.PageSize > maxSize {
		return req, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPageSize, maxSize)
	}
	if req.PageNumber == 0 {
		req.PageNumber = 1
	}
	req.Search = strings.TrimSpace(req.Search)

	return req, nil
}

// TotalPages returns the number of pages needed for totalItems items.
// An empty result set still has one (empty) page.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Paginate counts the matching items, checks that the requested page exists
// and fetches it. req must already be normalized.
func Paginate[T any](ctx context.Context, req Request, count CountFunc, fetch FetchFunc[T]) (*Page[T], error) {
	if req.PageSize < 1 {
		return nil, fmt.Errorf("%w: must be at least 1", ErrInvalidPageSize)
	}

	total, err := count(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	totalPages := TotalPages(total, req.PageSize)
	if req.PageNumber < 1 || req.PageNumber > totalPages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageNotFound, req.PageNumber, totalPages)
	}

	items, err := fetch(ctx, req.Search, req.PageSize, (req.PageNumber-1)*req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", req.PageNumber, err)
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:       items,
		TotalPages:  totalPages,
		CurrentPage: req.PageNumber,
		TotalItems:  total,
	}, nil
}

// Map converts the items of a page, keeping its counters.
func Map[T, U any](page *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return &Page[U]{
		Items:       items,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		TotalItems:  page.TotalItems,
	}
}
