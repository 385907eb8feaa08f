// Package sqlitejournal keeps an append-only SQLite log of review decisions.
// The log is informational; the decision file stays authoritative.
package sqlitejournal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/reelsort/pkg/ports"
)

// migrations are applied in order and recorded in _migrations.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "001_decisions",
		sql: `CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dir TEXT NOT NULL,
			file TEXT NOT NULL,
			decision TEXT NOT NULL CHECK (decision IN ('keep', 'trash')),
			trashed_path TEXT NOT NULL DEFAULT '',
			decided_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_file ON decisions (dir, file);`,
	},
}

// Journal implements ports.Journal on SQLite.
type Journal struct {
	conn   *sql.DB
	dir    string
	logger ports.Logger
}

// Open opens or creates the journal at dbPath. Entries are tagged with dir.
func Open(dbPath, dir string, logger ports.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	j := &Journal{conn: conn, dir: dir, logger: logger.WithComponent("journal")}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	if _, err := j.conn.Exec(`CREATE TABLE IF NOT EXISTS _migrations (
		name TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := j.conn.QueryRow("SELECT 1 FROM _migrations WHERE name = ?", m.name).Scan(&applied)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", m.name, err)
		}

		if _, err := j.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		if _, err := j.conn.Exec("INSERT INTO _migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
		j.logger.Debug("Applied journal migration %s", m.name)
	}
	return nil
}

// Record appends an entry.
func (j *Journal) Record(ctx context.Context, e ports.JournalEntry) error {
	_, err := j.conn.ExecContext(ctx,
		`INSERT INTO decisions (dir, file, decision, trashed_path, decided_at) VALUES (?, ?, ?, ?, ?)`,
		j.dir, e.File, string(e.Decision), e.TrashedPath, e.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record %s: %w", e.File, err)
	}
	return nil
}

// Entries returns the entries recorded for the journal's directory, oldest first.
func (j *Journal) Entries(ctx context.Context) ([]ports.JournalEntry, error) {
	rows, err := j.conn.QueryContext(ctx,
		`SELECT file, decision, trashed_path, decided_at FROM decisions WHERE dir = ? ORDER BY id`, j.dir)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []ports.JournalEntry
	for rows.Next() {
		var e ports.JournalEntry
		var decision, at string
		if err := rows.Scan(&e.File, &decision, &e.TrashedPath, &at); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.Decision = ports.Decision(decision)
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse time of %s: %w", e.File, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.conn.Close()
}

var _ ports.Journal = (*Journal)(nil)
