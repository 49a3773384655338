package query

import (
	"fmt"
	"reflect"
	"strings"
)

// predicates carry "?" markers that are numbered into $N placeholders
// when the query is rendered.
type predicate struct {
	expr string
	args []any
}

// SortField is one column of an ORDER BY clause. Field is the logical
// property name; the projection maps it to a qualified column.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles SELECT statements over a projection with chained
// filter conditions and postgres-style positional parameters.
type Builder struct {
	projection  *ProjectionMap
	predicates  []predicate
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the projection. The optional sort
// fields apply whenever the caller sets no explicit ordering.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		predicates:  make([]predicate, 0),
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort expression such as
// "name,-createdAt". A "-" prefix marks a field descending. Empty
// input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, descending := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: field, Descending: descending})
	}

	return fields
}

// Build renders a SELECT with the accumulated conditions and ordering.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.Table())

	args := b.renderWhere(&sb)
	b.renderOrderBy(&sb)

	return sb.String(), args
}

// BuildCount renders a COUNT(*) over the accumulated conditions.
func (b *Builder) BuildCount() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(b.projection.Table())

	args := b.renderWhere(&sb)
	return sb.String(), args
}

// BuildPage renders a paginated SELECT. Pages are 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.Table())

	args := b.renderWhere(&sb)
	b.renderOrderBy(&sb)
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	return sb.String(), args
}

// BuildSingle renders a SELECT for one record by its identifier field.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

// BuildSingleOrNull renders a SELECT limited to one row with the
// accumulated conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.Table())

	args := b.renderWhere(&sb)
	sb.WriteString(" LIMIT 1")

	return sb.String(), args
}

// OrderByFields replaces the default sort with an explicit ordering.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereContains adds a case-insensitive substring match. Nil or empty
// values are a no-op.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.where(b.projection.Column(field)+" ILIKE ?", "%"+*value+"%")
}

// WhereEquals adds an equality condition. Nil values are a no-op.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = ?", value)
}

// WhereIn adds an IN condition. Empty slices are a no-op.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}

	markers := make([]string, len(values))
	for i := range values {
		markers[i] = "?"
	}
	expr := fmt.Sprintf("%s IN (%s)", b.projection.Column(field), strings.Join(markers, ", "))
	return b.where(expr, values...)
}

// WhereNullable adds an equality condition, or IS NULL when the value
// is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.where(col + " IS NULL")
	}
	return b.where(col+" = ?", value)
}

// WhereSearch adds a grouped OR of substring matches across fields.
// Nil or empty search terms are a no-op.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	exprs := make([]string, len(fields))
	args := make([]any, len(fields))
	pattern := "%" + *search + "%"

	for i, field := range fields {
		exprs[i] = b.projection.Column(field) + " ILIKE ?"
		args[i] = pattern
	}

	return b.where("("+strings.Join(exprs, " OR ")+")", args...)
}

func (b *Builder) where(expr string, args ...any) *Builder {
	b.predicates = append(b.predicates, predicate{expr: expr, args: args})
	return b
}

// renderWhere writes the WHERE clause with numbered parameters and
// returns the argument list in placeholder order.
func (b *Builder) renderWhere(sb *strings.Builder) []any {
	if len(b.predicates) == 0 {
		return nil
	}

	args := make([]any, 0, len(b.predicates))
	param := 1

	sb.WriteString(" WHERE ")
	for i, p := range b.predicates {
		if i > 0 {
			sb.WriteString(" AND ")
		}

		expr := p.expr
		for _, arg := range p.args {
			expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", param), 1)
			args = append(args, arg)
			param++
		}
		sb.WriteString(expr)
	}

	return args
}

func (b *Builder) renderOrderBy(sb *strings.Builder) {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return
	}

	sb.WriteString(" ORDER BY ")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.projection.Column(f.Field))
		if f.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}
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
