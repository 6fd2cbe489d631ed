package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dayLayout = "2006-01-02"

// Store defines the interface for run-history operations.
type Store interface {
	RecordRun(ctx context.Context, run *Run) error
	LastSuccess(ctx context.Context, domain string) (*Run, error)
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	DomainTotals(ctx context.Context) ([]DomainTotal, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	insertRun *sql.Stmt
}

// Open opens (creating if needed) the history database at path, applies
// migrations, and returns a ready store with its underlying *sql.DB.
func Open(path string) (*SQLiteStore, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history database: %w", err)
	}

	runner := NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	var err error
	s.insertRun, err = db.Prepare(`
		INSERT INTO runs (id, domain, day, status, added, total, rejected, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

// generateID creates a run ID: RUN- + 8 random hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "RUN-" + hex.EncodeToString(b), nil
}

// RecordRun inserts one run row. The run's ID and RecordedAt fields are
// populated automatically when empty.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) error {
	if run.Status != StatusOK && run.Status != StatusError {
		return fmt.Errorf("invalid run status %q", run.Status)
	}

	if run.ID == "" {
		id, err := generateID()
		if err != nil {
			return fmt.Errorf("generate ID: %w", err)
		}
		run.ID = id
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now()
	}

	_, err := s.insertRun.ExecContext(ctx,
		run.ID, run.Domain, run.Day.UTC().Format(dayLayout), run.Status,
		run.Added, run.Total, run.Rejected,
		run.RecordedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// LastSuccess returns the most recent successful run for a domain, or nil
// when the domain has never merged successfully.
func (s *SQLiteStore) LastSuccess(ctx context.Context, domain string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, domain, day, status, added, total, rejected, recorded_at
		FROM runs
		WHERE domain = ? AND status = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`, domain, StatusOK)

	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("last success: %w", err)
	}
	return run, nil
}

// RecentRuns returns the newest runs across all domains, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, day, status, added, total, rejected, recorded_at
		FROM runs
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DomainTotals returns, per domain, the store total reported by the most
// recent successful run.
func (s *SQLiteStore) DomainTotals(ctx context.Context) ([]DomainTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.domain, r.total
		FROM runs r
		JOIN (
			SELECT domain, MAX(recorded_at) AS latest
			FROM runs
			WHERE status = ?
			GROUP BY domain
		) m ON m.domain = r.domain AND m.latest = r.recorded_at
		WHERE r.status = ?
		ORDER BY r.domain
	`, StatusOK, StatusOK)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	totals := []DomainTotal{}
	for rows.Next() {
		var dt DomainTotal
		if err := rows.Scan(&dt.Domain, &dt.Total); err != nil {
			return nil, err
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var dayStr, recordedStr string
	if err := sc.Scan(
		&r.ID, &r.Domain, &dayStr, &r.Status,
		&r.Added, &r.Total, &r.Rejected, &recordedStr,
	); err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(dayLayout, dayStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse run day %q: %w", dayStr, err)
	}
	r.Day = day

	recorded, err := time.Parse(time.RFC3339, recordedStr)
	if err != nil {
		return nil, fmt.Errorf("parse recorded_at %q: %w", recordedStr, err)
	}
	r.RecordedAt = recorded

	return &r, nil
}

// Close releases prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	if s.insertRun != nil {
		s.insertRun.Close()
	}
	return nil
}
