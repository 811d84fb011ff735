package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/verum/pkg/query"
)

// SortFields wraps []query.SortField with flexible JSON unmarshaling.
// Accepts either a string ("name,-created_at") or an array of SortField objects.
type SortFields []query.SortField

// UnmarshalJSON supports unmarshaling from a comma-separated string or array format.
func (s *SortFields) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = query.ParseSortFields(str)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageRequest represents a client request for a page of data with optional search and sorting.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize moves Page to at least 1 and PageSize into [1, cfg.MaxPageSize],
// substituting cfg.DefaultPageSize when unset.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// Apply adds the request's search across fields and its sort order to b.
// Sort fields b's projection does not map are dropped.
func (r *PageRequest) Apply(b *query.Builder, fields ...string) *query.Builder {
	return b.WhereSearch(r.Search, fields...).OrderByFields(r.Sort)
}

// Offset calculates the number of records to skip based on page and page size.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads page, page_size, search, and sort from URL
// query values and normalizes the result. Malformed numbers fall back to defaults.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{Sort: query.ParseSortFields(values.Get("sort"))}
	req.Page, _ = strconv.Atoi(values.Get("page"))
	req.PageSize, _ = strconv.Atoi(values.Get("page_size"))
	if s := strings.TrimSpace(values.Get("search")); s != "" {
		req.Search = &s
	}
	req.Normalize(cfg)
	return req
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult wraps a page of data. An empty result still reports one
// page and a non-nil Data slice.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}
