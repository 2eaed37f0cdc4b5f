// Package store archives completed interview sessions: a SQLite-backed
// archive for querying past sessions and a JSON file dump matching what a
// recruiter downloads.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/techhire/interview-assistant/internal/interview"
	_ "modernc.org/sqlite"
)

// Record is one archived interview session.
type Record struct {
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Candidate interview.Candidate  `json:"candidate"`
	Responses []interview.Response `json:"responses"`
	Status    string               `json:"status"`
}

// Session statuses.
const (
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

// ErrNotFound is returned when no archived session matches the given id.
var ErrNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS interview_session (
	id TEXT PRIMARY KEY,
	created_ts INTEGER NOT NULL,
	candidate_name TEXT NOT NULL,
	status TEXT NOT NULL,
	record TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interview_session_created ON interview_session (created_ts);
`

// Archive is the SQLite-backed session archive. The full record is stored as
// a JSON blob; the indexed columns exist for listing and lookup only.
type Archive struct {
	db *sql.DB
}

// Open opens (and if necessary initializes) the archive at path. The special
// path ":memory:" opens a transient in-memory archive.
func Open(path string) (*Archive, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize archive schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Save upserts one session record.
func (a *Archive) Save(ctx context.Context, rec *Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("record id is required")
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO interview_session (id, created_ts, candidate_name, status, record)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_ts = excluded.created_ts,
			candidate_name = excluded.candidate_name,
			status = excluded.status,
			record = excluded.record`,
		rec.ID, rec.Timestamp.UTC().UnixMilli(), rec.Candidate.FullName, rec.Status, string(blob),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads one session record by id.
func (a *Archive) Get(ctx context.Context, id string) (*Record, error) {
	var blob string
	err := a.db.QueryRowContext(ctx,
		`SELECT record FROM interview_session WHERE id = ?`, id,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &rec, nil
}

// List returns all archived sessions, most recent first.
func (a *Archive) List(ctx context.Context) ([]*Record, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT record FROM interview_session ORDER BY created_ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal session row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}
