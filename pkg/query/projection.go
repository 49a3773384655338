// Package query builds SQL SELECT statements from projection maps,
// translating view property names into qualified column references.
package query

import "strings"

// ProjectionMap binds a table to its view: each projected column is
// addressable by a view property name and rendered as alias.column.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byView  map[string]string
	ordered []string
}

// NewProjectionMap creates an empty projection for schema.table under
// the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		byView: make(map[string]string),
	}
}

// Project maps a database column to a view property name. Projection
// order determines column order in rendered queries.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byView[viewName] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the qualified table reference with its alias.
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column resolves a view property name to its qualified column.
// Unmapped names pass through unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.byView[viewName]; ok {
		return col
	}
	return viewName
}

// Columns renders the projected columns as a comma-separated list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// ColumnList returns the projected columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	return p.ordered
}
