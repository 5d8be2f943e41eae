package pagination

import (
	"errors"
	"math"
)

var (
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Pagination is an offset page request bound from the query string.
// Zero values mean "not supplied".
type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize applies defaults and clamps Limit to maxLimit.
func (p Pagination) Normalize(defaultLimit, maxLimit int) (Pagination, error) {
	if p.Page < 0 {
		return p, ErrInvalidPage
	}
	if p.Limit < 0 {
		return p, ErrInvalidLimit
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit {
		return p, ErrInvalidPage
	}
	return p, nil
}

func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
