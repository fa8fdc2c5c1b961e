// Package query builds parameterized PostgreSQL queries from projection maps.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references (alias.column).
// Expressions map a view name to a computed value, such as a path into a jsonb
// column, that can be filtered and sorted on but is not selected.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a selected column mapping from database column to view property name.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Expression maps viewName to a computed expression over column. path is
// appended verbatim, e.g. Expression("state", "->'story'->>'genre'", "Genre")
// yields p.state->'story'->>'genre'.
func (p *ProjectionMap) Expression(column, path, viewName string) *ProjectionMap {
	p.columns[viewName] = fmt.Sprintf("%s.%s%s", p.alias, column, path)
	return p
}

// From returns the fully qualified table reference with alias (schema.table alias).
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup returns the qualified column for a view property name and whether it is mapped.
// Matching is case-insensitive so client sort strings like "name" resolve to "Name".
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	if col, ok := p.columns[viewName]; ok {
		return col, true
	}
	for name, col := range p.columns {
		if strings.EqualFold(name, viewName) {
			return col, true
		}
	}
	return "", false
}

// Columns returns the selected columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}
