package cases

import (
	"net/url"
	"time"

	"github.com/JaimeStill/verum/pkg/query"
	"github.com/JaimeStill/verum/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("name", "Name").
	Project("status", "Status").
	Project("integrity_hash", "IntegrityHash").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// Newest first, ties broken by id so pages never overlap.
var defaultSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID"},
}

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored. Status uses exact matching and Name case-insensitive
// contains matching. CreatedFrom is inclusive and CreatedUntil exclusive.
type Filters struct {
	Status       *string    `json:"status,omitempty"`
	Name         *string    `json:"name,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	CreatedFrom  *time.Time `json:"created_from,omitempty"`
	CreatedUntil *time.Time `json:"created_until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Name", f.Name).
		WhereEquals("CreatedBy", f.CreatedBy).
		WhereBetween("CreatedAt", f.CreatedFrom, f.CreatedUntil)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed timestamps are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if by := values.Get("created_by"); by != "" {
		f.CreatedBy = &by
	}
	f.CreatedFrom = parseTime(values.Get("created_from"))
	f.CreatedUntil = parseTime(values.Get("created_until"))

	return f
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func scanCase(s repository.Scanner) (Case, error) {
	var c Case
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Status,
		&c.IntegrityHash,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
