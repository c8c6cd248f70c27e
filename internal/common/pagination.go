package common

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams holds normalized pagination inputs.
type PageParams struct {
	Page  int
	Limit int
}

// ParsePageParams reads page and limit from query values, applying defaults
// and clamping limit to [1, MaxLimit].
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return PageParams{Page: page, Limit: limit}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta is the pagination block accompanying list responses. The
// resource-specific total key (totalTasks/totalUsers) is added by the
// wrapping struct.
type PageMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func NewPageMeta(p PageParams, total int) PageMeta {
	totalPages := (total + p.Limit - 1) / p.Limit
	return PageMeta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}
