// Package sqlite implements ports.ReportStore on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/aretw0/parcel/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	strategy     TEXT NOT NULL,
	status       TEXT NOT NULL,
	parent_id    TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL,
	payload_json BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_created_at ON reports (created_at);
`

// Store persists reports in SQLite. The full report is kept as JSON; the
// indexed columns exist for listing and inspection.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating the schema when needed.
// The special path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := "file::memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts the report.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	if strings.TrimSpace(report.ID) == "" {
		return errors.New("report id cannot be empty")
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, strategy, status, parent_id, created_at, payload_json)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    strategy = excluded.strategy,
		    status = excluded.status,
		    parent_id = excluded.parent_id,
		    created_at = excluded.created_at,
		    payload_json = excluded.payload_json`,
		report.ID,
		report.Strategy.String(),
		string(report.Status),
		report.ParentID,
		report.CreatedAt.UnixMilli(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Load retrieves a report by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload_json FROM reports WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes a report.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// List returns report IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM reports ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Children returns the IDs of reports resubmitted from parentID, oldest first.
func (s *Store) Children(ctx context.Context, parentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM reports WHERE parent_id = ? ORDER BY created_at, id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child reports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
