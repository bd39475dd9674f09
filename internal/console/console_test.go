package console

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aanand-mishra/course-registration/internal/types"
)

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestShowMenu(t *testing.T) {
	var out bytes.Buffer
	ShowMenu(&out)

	want := "\n" +
		"------ Course Registration Program ------\n" +
		"  Select from the following menu:  \n" +
		"    1. Register a Student for a Course.\n" +
		"    2. Show current data.  \n" +
		"    3. Save data to a file.\n" +
		"    4. Exit the program.\n" +
		"----------------------------------------- \n" +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestReadMenuChoice_ReturnsRawLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader(" 1 \r\n4"))

	choice, err := ReadMenuChoice(r, &out)
	require.NoError(t, err)
	assert.Equal(t, " 1 ", choice)
	assert.Equal(t, "Enter your choice: ", out.String())

	// Last line without a newline is still delivered.
	choice, err = ReadMenuChoice(r, &out)
	require.NoError(t, err)
	assert.Equal(t, "4", choice)

	_, err = ReadMenuChoice(r, &out)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestShowRecords_Table(t *testing.T) {
	roster := types.NewRoster()
	roster.Add(
		types.Registration{FirstName: "John", LastName: "Smith", CourseName: "CS101"},
		types.Registration{FirstName: "Bartholomewjeremiahs", LastName: "Wolfeschlegelsteinhausen", CourseName: "Introduction to Programming"},
	)

	var out bytes.Buffer
	ShowRecords(&out, roster)

	want := ">>> The current data is:\n" +
		"\n" +
		"First Name          Last Name           Course Name         \n" +
		"------------------------------------------------------------\n" +
		"John                Smith               CS101               \n" +
		"BartholomewjeremiahsWolfeschlegelsteinhaIntroduction to Prog\n" +
		"------------------------------------------------------------\n"
	assert.Equal(t, want, out.String())
}

func TestShowRecords_TruncatesByCharacter(t *testing.T) {
	roster := types.NewRoster()
	roster.Add(types.Registration{FirstName: "Éléonoreéléonoreéléonore", LastName: "Ng", CourseName: ""})

	var out bytes.Buffer
	ShowRecords(&out, roster)

	assert.Contains(t, out.String(), "Éléonoreéléonoreéléo"+"Ng                  ")
}

func TestShowRecords_DoesNotMutate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roster := types.NewRoster()
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		for i := 0; i < n; i++ {
			roster.Add(types.Registration{
				FirstName:  rapid.StringMatching(`[A-Za-z]{1,30}`).Draw(rt, "first"),
				LastName:   rapid.StringMatching(`[A-Za-z]{1,30}`).Draw(rt, "last"),
				CourseName: rapid.String().Draw(rt, "course"),
			})
		}
		before := roster.Records()

		ShowRecords(io.Discard, roster)
		ShowRecords(io.Discard, roster)

		if !assert.ObjectsAreEqual(before, roster.Records()) {
			rt.Fatalf("roster changed by ShowRecords")
		}
	})
}

func TestPromptNewRecord_Appends(t *testing.T) {
	roster := types.NewRoster()
	var out bytes.Buffer

	err := PromptNewRecord(input("John", "Smith", "CS101"), &out, roster)
	require.NoError(t, err)

	require.Equal(t, []types.Registration{{FirstName: "John", LastName: "Smith", CourseName: "CS101"}}, roster.Records())
	assert.Contains(t, out.String(), ">>> Registered John Smith for CS101.")
}

func TestPromptNewRecord_RepromptsBadNames(t *testing.T) {
	roster := types.NewRoster()
	var out bytes.Buffer

	err := PromptNewRecord(input("", "J0hn", "John Paul", "John", "O'Neil", "-", "Neil", ""), &out, roster)
	require.NoError(t, err)

	require.Equal(t, []types.Registration{{FirstName: "John", LastName: "Neil", CourseName: ""}}, roster.Records())
	assert.Equal(t, 5, strings.Count(out.String(), ">>> Please use only letters. Try again."))
	assert.Equal(t, 4, strings.Count(out.String(), "Enter student's first name: "))
	assert.Equal(t, 3, strings.Count(out.String(), "Enter student's last name: "))
}

func TestPromptNewRecord_InputClosedAppendsNothing(t *testing.T) {
	roster := types.NewRoster()

	err := PromptNewRecord(input("John", "Sm1th"), io.Discard, roster)
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, roster.Len())
}

func TestPromptNewRecord_NonLetterNamesNeverAppended(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bad := rapid.StringMatching(`[A-Za-z]{0,5}[0-9 !.,'_\-]{1,3}[A-Za-z0-9]{0,5}`).Draw(rt, "bad")
		roster := types.NewRoster()

		// Input ends right after the bad name, so nothing valid ever arrives.
		err := PromptNewRecord(input(bad), io.Discard, roster)
		if !errors.Is(err, io.EOF) {
			rt.Fatalf("expected EOF after re-prompt, got %v", err)
		}
		if roster.Len() != 0 {
			rt.Fatalf("record appended for name %q", bad)
		}
	})
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"John", true},
		{"José", true},
		{"Zoë", true},
		{"", false},
		{" ", false},
		{"John ", false},
		{"Mary-Jane", false},
		{"R2D2", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidName(tt.name), "ValidName(%q)", tt.name)
	}
}

func TestValidField_FollowsRegistrationTags(t *testing.T) {
	assert.True(t, validField("LastName", "Neil"))
	assert.False(t, validField("LastName", "O'Neil"))
	assert.False(t, validField("LastName", ""))
	assert.True(t, validField("FirstName", "Zoë"))
	assert.False(t, validField("FirstName", "R2D2"))

	// CourseName carries no rule and is not a name field.
	assert.False(t, validField("CourseName", "CS101"))

	// The same rule applied through the struct tags directly.
	err := validate.Struct(types.Registration{FirstName: "John", LastName: "Sm1th"})
	assert.Error(t, err)
	assert.NoError(t, validate.Struct(types.Registration{FirstName: "John", LastName: "Smith"}))
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	ReportError(&out, ">>> Something failed.", nil)
	assert.Equal(t, ">>> Something failed.\n", out.String())

	out.Reset()
	ReportError(&out, ">>> Something failed.", errors.New("permission denied"))
	assert.Equal(t, ">>> Something failed.\n>>> Technical error: permission denied\n", out.String())
}
