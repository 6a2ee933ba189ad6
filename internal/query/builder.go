// Package query assembles parametrized SQL from an ordered list of typed
// predicate fragments. Placeholders are rendered as "?" so the result can be
// handed straight to gorm's Raw, which rebinds them for the dialect.
package query

import (
	"strings"

	"github.com/lib/pq"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type predicate struct {
	sql  string
	args []any
}

type ordering struct {
	column    string
	direction Direction
}

// Builder is not safe for concurrent use; build one per query.
type Builder struct {
	selectClause string
	predicates   []predicate
	orderings    []ordering
	offset       *int
	limit        *int
}

// Select starts a query. The clause must include FROM and must not include WHERE.
func Select(clause string) *Builder {
	return &Builder{selectClause: clause}
}

// Where appends a raw predicate fragment with its own placeholders.
func (b *Builder) Where(fragment string, args ...any) *Builder {
	b.predicates = append(b.predicates, predicate{sql: fragment, args: args})
	return b
}

// In constrains column to values. One value renders "=", several render "IN".
// Empty values add nothing.
func (b *Builder) In(column string, values []string) *Builder {
	switch len(values) {
	case 0:
		return b
	case 1:
		return b.Where(column+" = ?", values[0])
	default:
		return b.Where(column+" IN ("+placeholders(len(values))+")", toArgs(values)...)
	}
}

// NotIn excludes values from column. One value renders "<>", several render "NOT IN".
// Empty values add nothing.
func (b *Builder) NotIn(column string, values []string) *Builder {
	switch len(values) {
	case 0:
		return b
	case 1:
		return b.Where(column+" <> ?", values[0])
	default:
		return b.Where(column+" NOT IN ("+placeholders(len(values))+")", toArgs(values)...)
	}
}

func (b *Builder) IsNull(column string) *Builder {
	return b.Where(column + " IS NULL")
}

// Overlaps renders a postgres array overlap against a text[] parameter.
func (b *Builder) Overlaps(column string, values []string) *Builder {
	return b.Where(column+" && ?::text[]", pq.StringArray(values))
}

func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	b.orderings = append(b.orderings, ordering{column: column, direction: direction})
	return b
}

func (b *Builder) Offset(n int) *Builder {
	b.offset = &n
	return b
}

func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

// Build renders the SQL and its arguments in placeholder order.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(b.selectClause)
	for i, p := range b.predicates {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(p.sql)
		args = append(args, p.args...)
	}

	for i, o := range b.orderings {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(o.column)
		sb.WriteString(" ")
		sb.WriteString(string(o.direction))
	}

	if b.offset != nil {
		sb.WriteString(" OFFSET ?")
		args = append(args, *b.offset)
	}
	if b.limit != nil {
		sb.WriteString(" LIMIT ?")
		args = append(args, *b.limit)
	}
	return sb.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
