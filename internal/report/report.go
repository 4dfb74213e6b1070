// Package report persists check results to a SQLite database so other
// tooling (editors, CI dashboards) can query diagnostics without
// re-parsing compiler output.
package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/loomlang/loom/internal/diagnostics"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	started_at TEXT NOT NULL,
	diag_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS diags (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	seq        INTEGER NOT NULL,
	code       TEXT NOT NULL,
	file       TEXT NOT NULL,
	line       INTEGER NOT NULL,
	col        INTEGER NOT NULL,
	message    TEXT NOT NULL,
	left_type  TEXT,
	right_type TEXT,
	PRIMARY KEY (session_id, seq)
);
`

// Store is an open report database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening report db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing report db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record writes one check session and its diagnostics.
func (s *Store) Record(sessionID, file string, bag *diagnostics.Bag) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, file, started_at, diag_count) VALUES (?, ?, ?, ?)`,
		sessionID, file, time.Now().UTC().Format(time.RFC3339), bag.Len(),
	)
	if err != nil {
		return err
	}

	for i, d := range bag.Items() {
		_, err = tx.Exec(
			`INSERT INTO diags (session_id, seq, code, file, line, col, message, left_type, right_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, i, string(d.Code), d.File, d.Token.Line, d.Token.Column, d.Message, d.Left, d.Right,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SessionDiagCount returns the stored diagnostic count for a session,
// mostly for tests and sanity checks.
func (s *Store) SessionDiagCount(sessionID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT diag_count FROM sessions WHERE id = ?`, sessionID).Scan(&n)
	return n, err
}
