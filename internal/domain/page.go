package domain

import "fmt"

// Pagination bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a window of an ordered result set
type Page struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=1,lte=100"`
}

// FirstPage returns the first page of the given size
func FirstPage(size int) Page {
	return Page{Offset: 0, Limit: size}
}

// Next returns the page following p
func (p Page) Next() Page {
	return Page{Offset: p.Offset + p.Limit, Limit: p.Limit}
}

// Prev returns the page preceding p, clamped at the first page
func (p Page) Prev() Page {
	offset := p.Offset - p.Limit
	if offset < 0 {
		offset = 0
	}
	return Page{Offset: offset, Limit: p.Limit}
}

// Validate checks the page bounds
func (p Page) Validate() error {
	if p.Offset < 0 || p.Limit < 1 || p.Limit > MaxPageSize {
		return fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidPage, p.Offset, p.Limit)
	}
	return nil
}
