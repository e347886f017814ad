// internal/history/history.go

// Package history journals panel refreshes to a local SQLite file so a
// refresh cadence survives restarts and can be inspected from the CLI.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded panel refresh.
type Entry struct {
	At          time.Time
	Trigger     string
	Fingerprint uint64
	OK          bool
}

// Store journals refreshes. Safe for use from a single goroutine; the
// controller owns it.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS refreshes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		at          TEXT NOT NULL,
		trigger_by  TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		ok          INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_refreshes_at ON refreshes(at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one refresh to the journal.
func (s *Store) Record(ctx context.Context, e Entry) error {
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refreshes (at, trigger_by, fingerprint, ok) VALUES (?, ?, ?, ?)`,
		e.At.UTC().Format(time.RFC3339Nano),
		e.Trigger,
		fmt.Sprintf("%016x", e.Fingerprint),
		ok,
	)
	if err != nil {
		return fmt.Errorf("record refresh: %w", err)
	}
	return nil
}

// Last returns the most recent journal entry, or found=false on an empty
// journal.
func (s *Store) Last(ctx context.Context) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT at, trigger_by, fingerprint, ok FROM refreshes ORDER BY id DESC LIMIT 1`)

	var at, trigger, fp string
	var ok int
	if err := row.Scan(&at, &trigger, &fp, &ok); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read journal: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse journal timestamp: %w", err)
	}
	var f uint64
	fmt.Sscanf(fp, "%x", &f)

	return Entry{At: t, Trigger: trigger, Fingerprint: f, OK: ok == 1}, true, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, trigger_by, fingerprint, ok FROM refreshes ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var at, trigger, fp string
		var ok int
		if err := rows.Scan(&at, &trigger, &fp, &ok); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse journal timestamp: %w", err)
		}
		var f uint64
		fmt.Sscanf(fp, "%x", &f)
		out = append(out, Entry{At: t, Trigger: trigger, Fingerprint: f, OK: ok == 1})
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
