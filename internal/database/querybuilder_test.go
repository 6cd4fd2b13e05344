package database

import (
	"context"
	"reflect"
	"testing"
)

// captureStore records the statements the builder hands to the Store and
// answers with canned rows.
type captureStore struct {
	query string
	args  []any
	rows  []Row
}

func (c *captureStore) Execute(ctx context.Context, query string, args ...any) bool { return true }
func (c *captureStore) GetOne(ctx context.Context, query string, args ...any) Row   { return nil }
func (c *captureStore) GetAll(ctx context.Context, query string, args ...any) []Row {
	c.query = query
	c.args = args
	return c.rows
}
func (c *captureStore) Count(ctx context.Context, query string, args ...any) int64 { return 0 }
func (c *captureStore) LastInsertID() int64                                        { return 0 }
func (c *captureStore) Begin(ctx context.Context) bool                             { return true }
func (c *captureStore) Commit() bool                                               { return true }
func (c *captureStore) Rollback() bool                                             { return true }
func (c *captureStore) Err() string                                                { return "" }

func TestBuildFullStatement(t *testing.T) {
	q := NewQueryBuilder(nil).
		Select("id", "email").
		From("users").
		Where("role = ?", "patient").
		Where("is_active = ?", 1).
		OrderBy("created_at", "DESC").
		Limit(10).
		Offset(20)

	query, params := q.Build()
	want := "SELECT id, email FROM users WHERE role = ? AND is_active = ? ORDER BY created_at DESC LIMIT 10 OFFSET 20"
	if query != want {
		t.Fatalf("unexpected query:\n got %q\nwant %q", query, want)
	}
	if !reflect.DeepEqual(params, []any{"patient", 1}) {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestBuildDefaultsToStar(t *testing.T) {
	query, params := NewQueryBuilder(nil).From("patients").Build()
	if query != "SELECT * FROM patients" {
		t.Fatalf("unexpected query: %q", query)
	}
	if len(params) != 0 {
		t.Fatalf("expected no params, got %v", params)
	}
}

func TestBuildWithJoin(t *testing.T) {
	query, _ := NewQueryBuilder(nil).
		Select("u.id", "p.name").
		From("users u").
		Join("patients p", "p.user_id = u.id").
		Where("u.role = ?", "patient").
		Build()
	want := "SELECT u.id, p.name FROM users u JOIN patients p ON p.user_id = u.id WHERE u.role = ?"
	if query != want {
		t.Fatalf("unexpected query:\n got %q\nwant %q", query, want)
	}
}

func TestWhereKeepsFragmentsAndParamsAligned(t *testing.T) {
	q := NewQueryBuilder(nil).From("users")
	for i, cond := range []string{"a = ?", "b = ?", "c = ?"} {
		q.Where(cond, i)
	}
	if len(q.conds) != len(q.params) {
		t.Fatalf("conditions (%d) and params (%d) drifted", len(q.conds), len(q.params))
	}
}

func TestGetExecutesThroughStore(t *testing.T) {
	st := &captureStore{rows: []Row{{"id": int64(1)}, {"id": int64(2)}}}
	rows := NewQueryBuilder(st).From("users").Where("role = ?", "doctor").Get(context.Background())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if st.query != "SELECT * FROM users WHERE role = ?" {
		t.Fatalf("unexpected query: %q", st.query)
	}
	if !reflect.DeepEqual(st.args, []any{"doctor"}) {
		t.Fatalf("unexpected args: %v", st.args)
	}
}

func TestFirstForcesLimitOne(t *testing.T) {
	st := &captureStore{rows: []Row{{"id": int64(7)}}}
	row := NewQueryBuilder(st).From("users").Where("id = ?", 7).First(context.Background())
	if row == nil || row.Int64("id") != 7 {
		t.Fatalf("expected row with id 7, got %v", row)
	}
	if st.query != "SELECT * FROM users WHERE id = ? LIMIT 1" {
		t.Fatalf("expected LIMIT 1 in %q", st.query)
	}

	st.rows = nil
	if row := NewQueryBuilder(st).From("users").First(context.Background()); row != nil {
		t.Fatalf("expected nil row, got %v", row)
	}
}
