package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/clinic-management/internal/audit"
)

// Store is the narrow statement surface the identity service programs
// against.  Failures are signaled through return values, never panics:
// Execute reports false, GetOne reports nil, GetAll reports an empty slice
// (indistinguishable from "no rows" at this level) and Count reports zero.
// The last error is sticky on Err until the next operation.
type Store interface {
	Execute(ctx context.Context, query string, args ...any) bool
	GetOne(ctx context.Context, query string, args ...any) Row
	GetAll(ctx context.Context, query string, args ...any) []Row
	Count(ctx context.Context, query string, args ...any) int64
	LastInsertID() int64
	Begin(ctx context.Context) bool
	Commit() bool
	Rollback() bool
	Err() string
}

// Row is one fetched record keyed by column name.  Typed accessors absorb
// the driver's value shapes ([]byte columns, MySQL tinyint booleans).
type Row map[string]any

// Str returns the column as a string, or "" when absent or NULL.  DATETIME
// columns arrive as time.Time (the pool opens with parseTime=true) and are
// rendered in the format the schema stores.
func (r Row) Str(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	}
	return ""
}

// Int64 returns the column as an int64, or 0 when absent or not numeric.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case []byte:
		var n int64
		for _, c := range v {
			if c < '0' || c > '9' {
				return 0
			}
			n = n*10 + int64(c-'0')
		}
		return n
	}
	return 0
}

// Bool returns the column as a bool.  MySQL BOOLEAN scans as int64 1/0 or
// as the bytes "1"/"0" depending on the statement path.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case []byte:
		return len(v) == 1 && v[0] == '1'
	}
	return false
}

// Time returns the column as a time.Time, zero when absent or not a time.
func (r Row) Time(col string) time.Time {
	if v, ok := r[col].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Executor runs parameterized statements against the shared pool and owns
// the single-level transaction state.  An Executor holds per-operation
// state (last error, affected count, insert id) and must not be shared
// across concurrent requests; callers create one per request and let the
// *sql.DB pool do the serialization.
type Executor struct {
	db       *sql.DB
	tx       *sql.Tx
	lastErr  string
	affected int64
	insertID int64
	errlog   audit.ErrorLog
}

// NewExecutor binds an executor to the shared pool.  errlog receives full
// driver errors (which are never surfaced to API callers); it may be nil.
func NewExecutor(db *sql.DB, errlog audit.ErrorLog) *Executor {
	return &Executor{db: db, errlog: errlog}
}

// fail records an error and reports it to the error sink.
func (e *Executor) fail(op, query string, err error) {
	e.lastErr = err.Error()
	if e.errlog != nil {
		e.errlog.Record(audit.ErrorEntry{
			Message: err.Error(),
			Context: map[string]any{"op": op, "query": query},
		})
	}
}

// Execute prepares and runs one parameterized statement.  Parameter values
// are never interpolated into the SQL text.  On success the affected-row
// count and last insert id are captured; on failure the error is recorded
// and false returned.
func (e *Executor) Execute(ctx context.Context, query string, args ...any) bool {
	e.lastErr = ""
	var (
		res sql.Result
		err error
	)
	if e.tx != nil {
		res, err = e.tx.ExecContext(ctx, query, args...)
	} else {
		res, err = e.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		e.fail("execute", query, err)
		return false
	}
	if n, err := res.RowsAffected(); err == nil {
		e.affected = n
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		e.insertID = id
	}
	return true
}

// GetOne runs a query and returns the first row, or nil when there is no
// row or the query failed (the failure is recorded).
func (e *Executor) GetOne(ctx context.Context, query string, args ...any) Row {
	rows := e.GetAll(ctx, query, args...)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// GetAll runs a query and returns every row in order.  An empty slice is
// returned both for "no rows" and for failure; callers that must tell the
// two apart check Err.
func (e *Executor) GetAll(ctx context.Context, query string, args ...any) []Row {
	e.lastErr = ""
	var (
		rows *sql.Rows
		err  error
	)
	if e.tx != nil {
		rows, err = e.tx.QueryContext(ctx, query, args...)
	} else {
		rows, err = e.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		e.fail("query", query, err)
		return nil
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		e.fail("columns", query, err)
		return nil
	}
	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			e.fail("scan", query, err)
			return nil
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		e.fail("rows", query, err)
		return nil
	}
	return out
}

// Count executes a statement and returns the number of rows it affected,
// zero on failure.
func (e *Executor) Count(ctx context.Context, query string, args ...any) int64 {
	if !e.Execute(ctx, query, args...) {
		return 0
	}
	return e.affected
}

// LastInsertID is valid only immediately after a successful insert through
// this executor.
func (e *Executor) LastInsertID() int64 { return e.insertID }

// Begin opens a transaction.  Nesting is rejected: a Begin while a
// transaction is active records an error and returns false.
func (e *Executor) Begin(ctx context.Context) bool {
	e.lastErr = ""
	if e.tx != nil {
		e.lastErr = "transaction already active"
		return false
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		e.fail("begin", "", err)
		return false
	}
	e.tx = tx
	return true
}

// Commit ends the active transaction.  Committing without one is a caller
// bug and is reported through the error state.
func (e *Executor) Commit() bool {
	e.lastErr = ""
	if e.tx == nil {
		e.lastErr = "no active transaction"
		return false
	}
	err := e.tx.Commit()
	e.tx = nil
	if err != nil {
		e.fail("commit", "", err)
		return false
	}
	return true
}

// Rollback discards the active transaction.
func (e *Executor) Rollback() bool {
	e.lastErr = ""
	if e.tx == nil {
		e.lastErr = "no active transaction"
		return false
	}
	err := e.tx.Rollback()
	e.tx = nil
	if err != nil {
		e.fail("rollback", "", err)
		return false
	}
	return true
}

// Err returns the last recorded error message, sticky until the next
// operation.
func (e *Executor) Err() string { return e.lastErr }
