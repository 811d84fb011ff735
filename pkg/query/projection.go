// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

type join struct {
	kind  string
	table string
	on    string
}

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the base table, any joined tables, and column mappings for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	current    string
	joins      []join
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		current:    alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns are qualified with the most recently joined table's alias.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.current, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a joined table. Subsequent Project calls qualify columns with alias.
// kind is the join keyword, e.g. "LEFT JOIN".
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.joins = append(p.joins, join{
		kind:  kind,
		table: fmt.Sprintf("%s.%s %s", schema, table, alias),
		on:    on,
	})
	p.current = alias
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the fully qualified base table reference with alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// From returns the base table followed by every join clause.
func (p *ProjectionMap) From() string {
	if len(p.joins) == 0 {
		return p.Table()
	}

	var b strings.Builder
	b.WriteString(p.Table())
	for _, j := range p.joins {
		fmt.Fprintf(&b, " %s %s ON %s", j.kind, j.table, j.on)
	}
	return b.String()
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Has reports whether viewName is a mapped view property.
func (p *ProjectionMap) Has(viewName string) bool {
	_, ok := p.columns[viewName]
	return ok
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
