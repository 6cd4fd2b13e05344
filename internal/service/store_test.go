package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/clinic-management/internal/audit"
	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/database"
)

// fakeStore scripts the Store surface.  Queries are matched by substring:
// rows answers reads, failOn makes the matching statement fail with the
// given error message.
type fakeStore struct {
	rows   map[string][]database.Row
	failOn map[string]string

	execs      []execCall
	queries    []string
	lastErr    string
	insertID   int64
	begun      int
	committed  int
	rolledBack int
}

type execCall struct {
	query string
	args  []any
}

func (f *fakeStore) matchFail(query string) (string, bool) {
	for sub, msg := range f.failOn {
		if strings.Contains(query, sub) {
			return msg, true
		}
	}
	return "", false
}

func (f *fakeStore) Execute(ctx context.Context, query string, args ...any) bool {
	f.execs = append(f.execs, execCall{query: query, args: args})
	if msg, ok := f.matchFail(query); ok {
		f.lastErr = msg
		return false
	}
	f.lastErr = ""
	return true
}

func (f *fakeStore) GetAll(ctx context.Context, query string, args ...any) []database.Row {
	f.queries = append(f.queries, query)
	if msg, ok := f.matchFail(query); ok {
		f.lastErr = msg
		return nil
	}
	f.lastErr = ""
	for sub, rows := range f.rows {
		if strings.Contains(query, sub) {
			return rows
		}
	}
	return nil
}

func (f *fakeStore) GetOne(ctx context.Context, query string, args ...any) database.Row {
	rows := f.GetAll(ctx, query, args...)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func (f *fakeStore) Count(ctx context.Context, query string, args ...any) int64 {
	if f.Execute(ctx, query, args...) {
		return 1
	}
	return 0
}

func (f *fakeStore) LastInsertID() int64 { return f.insertID }

func (f *fakeStore) Begin(ctx context.Context) bool { f.begun++; return true }
func (f *fakeStore) Commit() bool                   { f.committed++; return true }
func (f *fakeStore) Rollback() bool                 { f.rolledBack++; return true }
func (f *fakeStore) Err() string                    { return f.lastErr }

// executed reports whether any statement containing sub was run.
func (f *fakeStore) executed(sub string) bool {
	for _, e := range f.execs {
		if strings.Contains(e.query, sub) {
			return true
		}
	}
	return false
}

// activityRecorder captures entries instead of writing them anywhere.
type activityRecorder struct {
	entries []audit.Entry
}

func (r *activityRecorder) Record(ctx context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

func (r *activityRecorder) last(t *testing.T) audit.Entry {
	t.Helper()
	if len(r.entries) == 0 {
		t.Fatalf("expected an activity entry")
	}
	return r.entries[len(r.entries)-1]
}

func testConfig() config.Config {
	return config.Config{
		SessionTimeoutSec: 3600,
		PasswordMinLength: 8,
		BcryptCost:        4, // bcrypt.MinCost keeps the tests fast
		ItemsPerPage:      20,
	}
}

// newTestService wires a service to one fake store and an activity
// recorder, with a controllable clock.
func newTestService(st *fakeStore) (*Service, *activityRecorder) {
	rec := &activityRecorder{}
	svc := NewWithStore(func() database.Store { return st }, testConfig(), rec, nil)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	return svc, rec
}
