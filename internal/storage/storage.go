// Package storage defines the Storage interface — the contract any
// on-disk backend must satisfy so the persistence gateway can load and
// save the roster.
//
// WHY AN INTERFACE?
// ─────────────────
// The gateway decides what to tell the user and when to give up; it
// should not care whether records live in a JSON file or a SQLite file.
// Backends only move bytes and report what went wrong through the
// sentinel errors below.
package storage

import (
	"errors"

	"github.com/aanand-mishra/course-registration/internal/types"
)

// Sentinel errors. Backends wrap them with %w so callers can use
// errors.Is while still seeing the low-level cause.
var (
	// ErrNotFound means the data file does not exist yet.
	ErrNotFound = errors.New("data file not found")

	// ErrMalformed means the file exists but its content is not a valid
	// roster, or a record is missing one of its required attributes.
	ErrMalformed = errors.New("malformed data file")
)

// Storage is the backend contract.
//
// Every method opens and closes its own file handle; nothing stays open
// between calls.
type Storage interface {
	// Load reads every record stored at path, in stored order.
	// Returns an error wrapping ErrNotFound when the file is absent and
	// ErrMalformed when it cannot be decoded.
	Load(path string) ([]types.Registration, error)

	// Create makes an empty data file at path.
	Create(path string) error

	// Save replaces whatever is stored at path with records.
	Save(path string, records []types.Registration) error
}
