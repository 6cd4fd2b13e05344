package database

import (
	"context"
	"fmt"
	"strings"
)

// QueryBuilder assembles a single SELECT statement incrementally and runs
// it through a Store.  Condition fragments are caller-supplied boolean
// expressions ("age > ?") combined only with AND; every Where call appends
// exactly one fragment and one positional parameter, so the two lists can
// never drift out of alignment.  A builder is constructed per read, then
// discarded.
type QueryBuilder struct {
	store      Store
	selectList string
	table      string
	joins      []string
	conds      []string
	params     []any
	orders     []string
	limit      *int
	offset     *int
}

// NewQueryBuilder returns an empty builder executing through store.
func NewQueryBuilder(store Store) *QueryBuilder {
	return &QueryBuilder{store: store, selectList: "*"}
}

// Select sets the select list.  With no fields the list stays "*".
func (q *QueryBuilder) Select(fields ...string) *QueryBuilder {
	if len(fields) > 0 {
		q.selectList = strings.Join(fields, ", ")
	}
	return q
}

// From sets the source table.
func (q *QueryBuilder) From(table string) *QueryBuilder {
	q.table = table
	return q
}

// Where appends one condition fragment and its bound value.  The value is
// never spliced into the fragment text; it travels the parameter list.
func (q *QueryBuilder) Where(condition string, value any) *QueryBuilder {
	q.conds = append(q.conds, condition)
	q.params = append(q.params, value)
	return q
}

// Join appends an inner join clause.
func (q *QueryBuilder) Join(table, on string) *QueryBuilder {
	q.joins = append(q.joins, fmt.Sprintf("JOIN %s ON %s", table, on))
	return q
}

// OrderBy appends an ordering term.
func (q *QueryBuilder) OrderBy(field, direction string) *QueryBuilder {
	q.orders = append(q.orders, field+" "+direction)
	return q
}

// Limit caps the result count.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = &n
	return q
}

// Offset skips the first n rows.
func (q *QueryBuilder) Offset(n int) *QueryBuilder {
	q.offset = &n
	return q
}

// Build renders the statement and its positional parameters.
func (q *QueryBuilder) Build() (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", q.selectList, q.table)
	if len(q.joins) > 0 {
		b.WriteString(" " + strings.Join(q.joins, " "))
	}
	if len(q.conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(q.conds, " AND "))
	}
	if len(q.orders) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(q.orders, ", "))
	}
	if q.limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *q.limit)
	}
	if q.offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *q.offset)
	}
	return b.String(), q.params
}

// Get executes the built query and returns all matching rows, empty on
// error (the Store records the failure).
func (q *QueryBuilder) Get(ctx context.Context) []Row {
	query, params := q.Build()
	return q.store.GetAll(ctx, query, params...)
}

// First forces LIMIT 1 and returns the single row or nil.
func (q *QueryBuilder) First(ctx context.Context) Row {
	q.Limit(1)
	rows := q.Get(ctx)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}
