package dto

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int32 for every allowed limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// PageRequest holds raw paging parameters as sent by the client.
type PageRequest struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

// Normalize parses the raw parameters. Unparsable or out of range
// values fall back to page 1 and limit 10, limit is clamped to [1,100]
// and page to [1,MaxPage].
func (p PageRequest) Normalize() (page, limit int) {
	page = DefaultPage
	if v, err := strconv.Atoi(strings.TrimSpace(p.Page)); err == nil && v >= 1 {
		page = min(v, MaxPage)
	}

	limit = DefaultLimit
	if v, err := strconv.Atoi(strings.TrimSpace(p.Limit)); err == nil {
		limit = v
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

// Offset returns the row offset for a normalized page and limit.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPaginationMeta computes total_pages as ceil(total/limit).
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
