// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles: the
// console, gateway, storage backends, and control loop all import types
// without depending on each other.
package types

// Registration is one student/course pairing.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — the on-disk key names. They are capitalised to stay
//     compatible with existing Enrollments.json files.
//
//  2. validate:"..." — rules checked by go-playground/validator when a
//     record is entered at the console. Names must be non-empty and made
//     of letters only; the course name is free-form.
type Registration struct {
	FirstName  string `json:"FirstName"  validate:"required,alphaunicode"`
	LastName   string `json:"LastName"   validate:"required,alphaunicode"`
	CourseName string `json:"CourseName"`
}

// Roster is the ordered in-memory record store for the current run.
//
// Records are only ever appended; entry order is the only ordering and
// duplicates are allowed. A Roster is shared by pointer so every
// component observes the same collection.
type Roster struct {
	records []Registration
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{records: []Registration{}}
}

// Add appends records in the order given.
func (r *Roster) Add(recs ...Registration) {
	r.records = append(r.records, recs...)
}

// Len reports how many records the roster holds.
func (r *Roster) Len() int {
	return len(r.records)
}

// Records returns a copy of the roster contents in entry order.
// The copy is never nil so it encodes to [] rather than null.
func (r *Roster) Records() []Registration {
	out := make([]Registration, len(r.records))
	copy(out, r.records)
	return out
}
