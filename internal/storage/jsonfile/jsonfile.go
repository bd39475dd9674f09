// Package jsonfile provides the default storage.Storage backend: a single
// JSON file holding an array of registration objects, written with
// 4-space indentation.
//
//	[
//	    {
//	        "FirstName": "John",
//	        "LastName": "Smith",
//	        "CourseName": "CS101"
//	    }
//	]
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/types"
)

// indent matches the layout of files written by earlier versions of the
// program, so diffs of Enrollments.json stay small.
const indent = "    "

// fileRecord is the on-disk shape used while decoding.
//
// Pointer fields let us tell a missing key (nil) apart from an empty
// string. validator's "required" on a pointer only checks that it is
// non-nil, so "CourseName": "" is accepted while a record without the
// key is rejected. Fields are filled by exact key match in decodeRecord;
// encoding/json's own field matching ignores case.
type fileRecord struct {
	FirstName  *string `json:"FirstName"  validate:"required"`
	LastName   *string `json:"LastName"   validate:"required"`
	CourseName *string `json:"CourseName" validate:"required"`
}

// JSONFile is the concrete implementation of storage.Storage.
// It is stateless; the path travels with every call.
type JSONFile struct {
	validate *validator.Validate
}

// New returns a ready-to-use *JSONFile.
func New() *JSONFile {
	return &JSONFile{validate: validator.New()}
}

// Load opens path, decodes the array, and checks every record carries
// all three keys. An empty or whitespace-only file holds zero records.
func (j *JSONFile) Load(path string) (recs []types.Registration, err error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("jsonfile.Load: %w: %s", storage.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Load: open: %w", err)
	}
	// The handle is closed on every return path, including decode errors.
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("jsonfile.Load: close: %w", cerr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Load: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []types.Registration{}, nil
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("jsonfile.Load: %w: %w", storage.ErrMalformed, err)
	}
	// A bare "null" decodes without error but is not an array.
	if raw == nil {
		return nil, fmt.Errorf("jsonfile.Load: %w: top-level value is not an array", storage.ErrMalformed)
	}

	recs = make([]types.Registration, 0, len(raw))
	for i, obj := range raw {
		r, err := decodeRecord(obj)
		if err != nil {
			return nil, fmt.Errorf("jsonfile.Load: %w: record %d: %w", storage.ErrMalformed, i+1, err)
		}
		if err := j.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("jsonfile.Load: %w: %w",
				storage.ErrMalformed, missingKeys(i+1, err))
		}
		recs = append(recs, types.Registration{
			FirstName:  *r.FirstName,
			LastName:   *r.LastName,
			CourseName: *r.CourseName,
		})
	}

	return recs, nil
}

// decodeRecord fills a fileRecord from the keys spelled exactly
// FirstName, LastName and CourseName. A null value counts as missing.
func decodeRecord(obj map[string]json.RawMessage) (fileRecord, error) {
	var r fileRecord
	for _, f := range []struct {
		key string
		dst **string
	}{
		{"FirstName", &r.FirstName},
		{"LastName", &r.LastName},
		{"CourseName", &r.CourseName},
	} {
		key, dst := f.key, f.dst
		raw, ok := obj[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fileRecord{}, fmt.Errorf("key %s: %w", key, err)
		}
		*dst = &v
	}
	return r, nil
}

// Create makes an empty file at path, truncating anything already there.
func (j *JSONFile) Create(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("jsonfile.Create: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("jsonfile.Create: close: %w", err)
	}
	return nil
}

// Save truncates path and writes records as an indented JSON array.
func (j *JSONFile) Save(path string, records []types.Registration) (err error) {
	data, err := Marshal(records)
	if err != nil {
		return fmt.Errorf("jsonfile.Save: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("jsonfile.Save: open: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("jsonfile.Save: close: %w", cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("jsonfile.Save: write: %w", err)
	}
	return nil
}

// Marshal renders records the way Save writes them to disk: indented,
// with no trailing newline. The gateway uses it to echo saved data to
// the console whatever the backend.
func Marshal(records []types.Registration) ([]byte, error) {
	if records == nil {
		records = []types.Registration{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	// Course names are free text; keep "&" and "<" readable in the file.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// missingKeys turns validator failures into one line naming the record
// and the absent keys, e.g. "record 2 is missing key(s) LastName".
func missingKeys(n int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("record %d: %w", n, err)
	}

	keys := make([]string, 0, len(verrs))
	for _, e := range verrs {
		keys = append(keys, e.Field())
	}
	return fmt.Errorf("record %d is missing key(s) %s", n, strings.Join(keys, ", "))
}
