package query

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// SortField represents a single column in an ORDER BY clause.
// Field is the logical field name (mapped via ProjectionMap).
type SortField struct {
	Field      string
	Descending bool
}

// condition renders one WHERE clause. bind records an argument and returns
// its positional placeholder.
type condition func(bind func(any) string) string

// Builder constructs SQL queries using a fluent API with automatic parameter numbering.
// Conditions are joined with AND; nil filter values are skipped.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	order       []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string such as "Name,-CreatedAt".
// A "-" prefix sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns a SELECT query with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return b.selectSQL() + where + b.orderBy(), args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage returns a paginated SELECT query with ordering, limit, and offset.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	limit := fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	return b.selectSQL() + where + b.orderBy() + limit, args
}

// BuildSingle returns a SELECT query for a single record by ID. Other
// conditions are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.selectSQL() + " WHERE " + b.projection.Column(idField) + " = $1", []any{id}
}

// OrderByFields sets the sort order. Fields the projection does not map
// are dropped. Default sort fields follow as tiebreakers.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.order = b.order[:0]
	for _, f := range fields {
		if b.projection.Has(f.Field) {
			b.order = append(b.order, f)
		}
	}
	return b
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.compare(field, "=", value)
}

// WhereFrom adds an inclusive lower bound (col >= value). No-op for nil values.
func (b *Builder) WhereFrom(field string, value any) *Builder {
	return b.compare(field, ">=", value)
}

// WhereUntil adds an exclusive upper bound (col < value). No-op for nil values.
func (b *Builder) WhereUntil(field string, value any) *Builder {
	return b.compare(field, "<", value)
}

// WhereAtMost adds an inclusive upper bound (col <= value). No-op for nil values.
func (b *Builder) WhereAtMost(field string, value any) *Builder {
	return b.compare(field, "<=", value)
}

// WhereBetween bounds field to the half-open range [from, until).
// Either bound may be nil.
func (b *Builder) WhereBetween(field string, from, until any) *Builder {
	return b.WhereFrom(field, from).WhereUntil(field, until)
}

// WhereIn adds an IN condition for multiple values. No-op for empty slices.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(bind func(any) string) string {
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = bind(v)
		}
		return col + " IN (" + strings.Join(placeholders, ", ") + ")"
	})
	return b
}

// WhereContains adds a case-insensitive substring match. LIKE wildcards in
// value match literally. No-op for nil or empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.compare(field, "ILIKE", contains(*value))
}

// WhereSearch adds an OR group matching value as a case-insensitive
// substring of any field. No-op for nil or empty search.
func (b *Builder) WhereSearch(value *string, fields ...string) *Builder {
	if value == nil || *value == "" || len(fields) == 0 {
		return b
	}

	pattern := contains(*value)
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}

	b.conditions = append(b.conditions, func(bind func(any) string) string {
		clauses := make([]string, len(cols))
		for i, col := range cols {
			clauses[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(clauses, " OR ") + ")"
	})
	return b
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func contains(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

func (b *Builder) compare(field, op string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(bind func(any) string) string {
		return col + " " + op + " " + bind(value)
	})
	return b
}

func (b *Builder) selectSQL() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c(bind)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	fields := slices.Clone(b.order)
	for _, d := range b.defaultSort {
		if !slices.ContainsFunc(fields, func(f SortField) bool { return f.Field == d.Field }) {
			fields = append(fields, d)
		}
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		parts[i] = b.projection.Column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
