package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	state   string
	data    []byte
	updated time.Time
}

// fakeDB answers the statements PostgresStore issues from an in-memory
// table.
type fakeDB struct {
	mu      sync.Mutex
	rows    map[string]fakeRow
	execs   []string
	failAll error
}

func newFakeDB() *fakeDB { return &fakeDB{rows: make(map[string]fakeRow)} }

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	if f.failAll != nil {
		return pgconn.CommandTag{}, f.failAll
	}

	switch sql {
	case createTable:
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case upsertSession:
		f.rows[args[0].(string)] = fakeRow{
			state:   args[1].(string),
			data:    append([]byte(nil), args[2].([]byte)...),
			updated: args[3].(time.Time),
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case deleteSession:
		id := args[0].(string)
		if _, ok := f.rows[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(f.rows, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", sql)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return errRow{f.failAll}
	}
	if sql != selectSession {
		return errRow{fmt.Errorf("unexpected query: %s", sql)}
	}
	r, ok := f.rows[args[0].(string)]
	if !ok {
		return errRow{pgx.ErrNoRows}
	}
	return scanRow{values: []any{append([]byte(nil), r.data...), r.updated}}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	if sql != listSessions {
		return nil, fmt.Errorf("unexpected query: %s", sql)
	}

	ids := make([]string, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := f.rows[ids[i]], f.rows[ids[j]]
		if !a.updated.Equal(b.updated) {
			return a.updated.After(b.updated)
		}
		return ids[i] < ids[j]
	})

	rows := &fakeRows{}
	for _, id := range ids {
		r := f.rows[id]
		rows.data = append(rows.data, []any{id, r.state, r.updated})
	}
	return rows, nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type scanRow struct{ values []any }

func (r scanRow) Scan(dest ...any) error { return assign(dest, r.values) }

type fakeRows struct {
	data [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return assign(dest, r.data[r.pos-1]) }

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *[]byte:
			*d = v.([]byte)
		case *string:
			*d = v.(string)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func TestPostgresStore(t *testing.T) {
	t.Parallel()
	db := newFakeDB()
	st := NewPostgresStore(db)
	require.NoError(t, st.EnsureSchema(context.Background()))
	assert.True(t, strings.Contains(db.execs[0], "CREATE TABLE IF NOT EXISTS matrix_sessions"))

	runStoreSuite(t, st)
}

func TestPostgresStore_DefaultsUpdatedAt(t *testing.T) {
	t.Parallel()
	db := newFakeDB()
	st := NewPostgresStore(db)

	id := "6f1c1bb4-2a43-4c0b-8f55-9b1a0f5e8a11"
	before := time.Now().UTC()
	require.NoError(t, st.Save(context.Background(), Record{ID: id}))

	rec, err := st.Load(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, rec.UpdatedAt.Before(before))
	assert.Equal(t, "init", db.rows[id].state)
}

func TestPostgresStore_WrapsDriverErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection reset")
	db := newFakeDB()
	db.failAll = boom
	st := NewPostgresStore(db)
	ctx := context.Background()
	id := "6f1c1bb4-2a43-4c0b-8f55-9b1a0f5e8a11"

	assert.ErrorIs(t, st.EnsureSchema(ctx), boom)
	assert.ErrorIs(t, st.Save(ctx, Record{ID: id}), boom)
	_, err := st.Load(ctx, id)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, id), boom)
	_, err = st.List(ctx)
	assert.ErrorIs(t, err, boom)
}
