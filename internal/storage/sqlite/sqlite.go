// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk, just like the JSON
// backend, but survives a crash mid-save: Save replaces the whole roster
// inside one transaction, so the file holds either the old roster or the
// new one, never half of each.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// schema is idempotent — safe to run every time the file is opened for
// writing. Load never runs it.
//
//	position    — entry order; the only ordering a roster has
//	first_name  — student's first name
//	last_name   — student's last name
//	course_name — free-form course name, may be empty but never NULL
const schema = `
	CREATE TABLE IF NOT EXISTS registrations (
		position    INTEGER PRIMARY KEY,
		first_name  TEXT    NOT NULL,
		last_name   TEXT    NOT NULL,
		course_name TEXT    NOT NULL
	)
`

// SQLite is the concrete implementation of storage.Storage.
// Unlike a server, a desktop tool touches the file twice per run at most,
// so each call opens its own *sql.DB and closes it before returning.
type SQLite struct{}

// New returns a ready-to-use *SQLite.
func New() *SQLite {
	return &SQLite{}
}

// open connects to path for writing and makes sure the registrations
// table exists. A file that is not a SQLite database fails here.
func open(path string) (*sql.DB, error) {
	// sql.Open does NOT touch the file yet; the Exec below does.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return db, nil
}

// Load returns every stored registration ordered by position.
func (s *SQLite) Load(path string) (recs []types.Registration, err error) {
	// go-sqlite3 silently creates missing files, so check first.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("sqlite.Load: %w: %s", storage.ErrNotFound, path)
	}

	// Load only reads: the schema is checked, never created, so a database
	// belonging to something else is reported rather than modified.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: open db: %w", err)
	}
	defer db.Close()

	var tables int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables); err != nil {
		return nil, fmt.Errorf("sqlite.Load: %w: %w", storage.ErrMalformed, err)
	}
	// An empty database, e.g. a zero-byte file, holds zero records.
	if tables == 0 {
		return []types.Registration{}, nil
	}

	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'registrations'",
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite.Load: %w: no registrations table", storage.ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: %w: %w", storage.ErrMalformed, err)
	}

	rows, err := db.Query(
		"SELECT first_name, last_name, course_name FROM registrations ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: %w: query: %w", storage.ErrMalformed, err)
	}
	defer rows.Close()

	recs = []types.Registration{}
	for rows.Next() {
		var r types.Registration
		// Scan fails on NULL, which is how a missing attribute shows up.
		if err := rows.Scan(&r.FirstName, &r.LastName, &r.CourseName); err != nil {
			return nil, fmt.Errorf("sqlite.Load: %w: record %d: %w",
				storage.ErrMalformed, len(recs)+1, err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: %w: %w", storage.ErrMalformed, err)
	}

	return recs, nil
}

// Create makes a new database file at path holding an empty table.
func (s *SQLite) Create(path string) error {
	db, err := open(path)
	if err != nil {
		return fmt.Errorf("sqlite.Create: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("sqlite.Create: close: %w", err)
	}
	return nil
}

// Save replaces every stored row with records in a single transaction.
func (s *SQLite) Save(path string, records []types.Registration) error {
	db, err := open(path)
	if err != nil {
		return fmt.Errorf("sqlite.Save: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite.Save: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM registrations"); err != nil {
		return fmt.Errorf("sqlite.Save: clear: %w", err)
	}

	// Placeholders keep course names like "Bobby'; DROP TABLE" as data.
	stmt, err := tx.Prepare(
		"INSERT INTO registrations (position, first_name, last_name, course_name) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i+1, r.FirstName, r.LastName, r.CourseName); err != nil {
			return fmt.Errorf("sqlite.Save: insert record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Save: commit: %w", err)
	}
	return nil
}
