package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

// DBTX is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the store uses.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const (
	createTable = `
CREATE TABLE IF NOT EXISTS matrix_sessions (
	id         UUID PRIMARY KEY,
	state      TEXT NOT NULL,
	snapshot   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	upsertSession = `
INSERT INTO matrix_sessions (id, state, snapshot, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET state = EXCLUDED.state, snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`

	selectSession = `SELECT snapshot, updated_at FROM matrix_sessions WHERE id = $1`

	deleteSession = `DELETE FROM matrix_sessions WHERE id = $1`

	listSessions = `SELECT id::text, state, updated_at FROM matrix_sessions ORDER BY updated_at DESC, id`
)

// PostgresStore keeps snapshots as JSONB rows in matrix_sessions.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the sessions table if it is missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create matrix_sessions: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, rec Record) error {
	if err := CheckID(rec.ID); err != nil {
		return err
	}

	data, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	if _, err := p.db.Exec(ctx, upsertSession, rec.ID, rec.Snapshot.State.String(), data, updated); err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context, id string) (Record, error) {
	if err := CheckID(id); err != nil {
		return Record{}, err
	}

	var (
		data    []byte
		updated time.Time
	)
	if err := p.db.QueryRow(ctx, selectSession, id).Scan(&data, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return Record{}, fmt.Errorf("load session %s: %w", id, err)
	}

	var snap wizard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Record{}, fmt.Errorf("json unmarshal session %s: %w", id, err)
	}
	return Record{ID: id, UpdatedAt: updated, Snapshot: snap}, nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := CheckID(id); err != nil {
		return err
	}

	tag, err := p.db.Exec(ctx, deleteSession, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := p.db.Query(ctx, listSessions)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			s     Summary
			state string
		)
		if err := rows.Scan(&s.ID, &state, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.State, err = wizard.ParseState(state); err != nil {
			return nil, fmt.Errorf("session %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}
