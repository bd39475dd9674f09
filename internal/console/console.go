// Package console is the interaction layer: everything the user sees and
// types passes through here.
//
// The functions are stateless. Callers hand in the streams explicitly
// (a *bufio.Reader wrapping stdin, an io.Writer for stdout), which keeps
// the package free of globals and lets tests drive it with in-memory
// buffers.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/course-registration/internal/types"
)

// Menu is the fixed banner shown before every choice. Trailing spaces
// are part of the banner.
const Menu = "\n" +
	"------ Course Registration Program ------\n" +
	"  Select from the following menu:  \n" +
	"    1. Register a Student for a Course.\n" +
	"    2. Show current data.  \n" +
	"    3. Save data to a file.\n" +
	"    4. Exit the program.\n" +
	"----------------------------------------- \n"

const (
	columnWidth = 20
	separator   = "------------------------------------------------------------"
	header      = "First Name          Last Name           Course Name         "
)

var validate = validator.New()

// ShowMenu prints the menu banner followed by a blank line.
func ShowMenu(w io.Writer) {
	fmt.Fprint(w, Menu+"\n")
}

// ReadMenuChoice prompts for a menu choice and returns the raw line.
// Whether the choice is valid is for the caller to decide.
func ReadMenuChoice(r *bufio.Reader, w io.Writer) (string, error) {
	return Ask(r, w, "Enter your choice: ")
}

// Ask prints prompt and returns the next input line without its line
// terminator. It returns io.EOF once input is exhausted.
func Ask(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)

	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ShowRecords prints roster as a fixed-width table. It only reads from
// the roster.
func ShowRecords(w io.Writer, roster *types.Roster) {
	fmt.Fprintln(w, ">>> The current data is:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, separator)
	for _, rec := range roster.Records() {
		fmt.Fprintf(w, "%-20s%-20s%-20s\n",
			truncate(rec.FirstName), truncate(rec.LastName), truncate(rec.CourseName))
	}
	fmt.Fprintln(w, separator)
}

// truncate cuts s to the column width, counting characters not bytes.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= columnWidth {
		return s
	}
	return string(runes[:columnWidth])
}

// PromptNewRecord collects one registration and appends it to roster.
//
// First and last name are asked again until they consist of letters
// only; the course name is taken as typed. The only error returned is
// from the input stream, in which case nothing is appended.
func PromptNewRecord(r *bufio.Reader, w io.Writer, roster *types.Roster) error {
	first, err := askName(r, w, "Enter student's first name: ", "FirstName")
	if err != nil {
		return err
	}
	last, err := askName(r, w, "Enter student's last name: ", "LastName")
	if err != nil {
		return err
	}
	course, err := Ask(r, w, "Enter the course name: ")
	if err != nil {
		return err
	}

	rec := types.Registration{FirstName: first, LastName: last, CourseName: course}
	roster.Add(rec)

	fmt.Fprintf(w, ">>> Registered %s %s for %s.\n\n", rec.FirstName, rec.LastName, rec.CourseName)
	return nil
}

// askName re-prompts until the answer passes the validate tag of the
// named Registration field.
func askName(r *bufio.Reader, w io.Writer, prompt, field string) (string, error) {
	for {
		name, err := Ask(r, w, prompt)
		if err != nil {
			return "", err
		}
		if validField(field, name) {
			return name, nil
		}
		ReportError(w, ">>> Please use only letters. Try again.\n", nil)
	}
}

// ValidName reports whether s is usable as a first or last name.
func ValidName(s string) bool {
	return validField("FirstName", s)
}

// validField checks s against the validate tag of one Registration name
// field, so the rule lives only on the struct.
func validField(field, s string) bool {
	var rec types.Registration
	switch field {
	case "FirstName":
		rec.FirstName = s
	case "LastName":
		rec.LastName = s
	default:
		return false
	}
	return validate.StructPartial(rec, field) == nil
}

// ReportError prints a user-facing message and, when detail is non-nil,
// the low-level diagnostic on its own line.
func ReportError(w io.Writer, message string, detail error) {
	fmt.Fprintln(w, message)
	if detail != nil {
		fmt.Fprintf(w, ">>> Technical error: %v\n", detail)
	}
}
