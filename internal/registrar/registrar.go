// Package registrar is the control loop. It owns the session state for
// one run of the program and moves between menu states until the user
// exits.
//
// STATE MACHINE:
//
//	MENU ──"1"──▶ REGISTER ──▶ MENU
//	     ──"2"──▶ VIEW ──────▶ MENU
//	     ──"3"──▶ SAVE ──────▶ MENU
//	     ──"4"──▶ CONFIRM_EXIT ──▶ EXIT | MENU
//	     ──else─▶ MENU
package registrar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aanand-mishra/course-registration/internal/console"
	"github.com/aanand-mishra/course-registration/internal/gateway"
	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/types"
)

// ErrInputClosed is returned by Run when the console reaches EOF before
// the user chose to exit. Unsaved data is not written.
var ErrInputClosed = errors.New("console input closed")

// State is a position in the menu state machine.
type State int

const (
	StateMenu State = iota
	StateRegister
	StateView
	StateSave
	StateConfirmExit
	StateExit
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StateRegister:
		return "REGISTER"
	case StateView:
		return "VIEW"
	case StateSave:
		return "SAVE"
	case StateConfirmExit:
		return "CONFIRM_EXIT"
	case StateExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// Session is everything one run of the program reads or mutates.
// It is built once at startup and passed by pointer; there is no
// package-level state.
type Session struct {
	// Roster is the record store for this run.
	Roster *types.Roster

	// Unsaved is true when Roster holds records not yet written to Path.
	Unsaved bool

	// Path is the data file; Storage knows its format.
	Path    string
	Storage storage.Storage

	In  *bufio.Reader
	Out io.Writer
	Log *slog.Logger

	// Exit terminates the process. Defaults to os.Exit.
	Exit func(int)
}

// New returns a session with an empty roster and nothing unsaved.
func New(path string, st storage.Storage, in io.Reader, out io.Writer, log *slog.Logger) *Session {
	return &Session{
		Roster:  types.NewRoster(),
		Path:    path,
		Storage: st,
		In:      bufio.NewReader(in),
		Out:     out,
		Log:     log,
		Exit:    os.Exit,
	}
}

// Start populates the roster from the data file. A corrupt file ends the
// process through s.Exit before the menu is ever shown.
func (s *Session) Start() {
	gateway.MustLoad(s.Out, s.Log, s.Storage, s.Path, s.Roster, s.Exit)
}

// Run drives the menu until the user exits. It returns nil on a normal
// exit and an error wrapping ErrInputClosed if input runs out first.
func (s *Session) Run() error {
	state := StateMenu
	for state != StateExit {
		next, err := s.step(state)
		if err != nil {
			return err
		}
		if next != state {
			s.Log.Debug("state transition",
				slog.String("from", state.String()),
				slog.String("to", next.String()))
		}
		state = next
	}

	fmt.Fprintln(s.Out, ">>> Have a nice day!")
	fmt.Fprintln(s.Out)
	s.Log.Info("session ended", slog.Int("records", s.Roster.Len()))
	return nil
}

func (s *Session) step(state State) (State, error) {
	switch state {
	case StateMenu:
		return s.menu()
	case StateRegister:
		if err := console.PromptNewRecord(s.In, s.Out, s.Roster); err != nil {
			return state, inputErr(err)
		}
		s.Unsaved = true
		return StateMenu, nil
	case StateView:
		console.ShowRecords(s.Out, s.Roster)
		return StateMenu, nil
	case StateSave:
		if s.save() {
			s.Unsaved = false
		}
		return StateMenu, nil
	case StateConfirmExit:
		return s.confirmExit()
	default:
		return StateExit, fmt.Errorf("registrar: unknown state %d", state)
	}
}

func (s *Session) menu() (State, error) {
	console.ShowMenu(s.Out)
	choice, err := console.ReadMenuChoice(s.In, s.Out)
	if err != nil {
		return StateMenu, inputErr(err)
	}

	switch choice {
	case "1":
		return StateRegister, nil
	case "2":
		return StateView, nil
	case "3":
		return StateSave, nil
	case "4":
		return StateConfirmExit, nil
	default:
		fmt.Fprintln(s.Out, "Please only choose option 1, 2, 3, or 4.")
		return StateMenu, nil
	}
}

// confirmExit asks to save only when there is something to save. An
// answer other than Y or N goes back to the menu with nothing changed.
func (s *Session) confirmExit() (State, error) {
	if !s.Unsaved {
		return StateExit, nil
	}

	answer, err := console.Ask(s.In, s.Out, ">>> New registration data not saved. Save it now? (Y/N): ")
	if err != nil {
		return StateConfirmExit, inputErr(err)
	}

	switch {
	case strings.EqualFold(answer, "Y"):
		if !s.save() {
			return StateMenu, nil
		}
		s.Unsaved = false
		return StateExit, nil
	case strings.EqualFold(answer, "N"):
		fmt.Fprintln(s.Out, ">>> Newly entered data not saved.")
		return StateExit, nil
	default:
		s.Log.Debug("unrecognised exit answer", slog.String("answer", answer))
		return StateMenu, nil
	}
}

func (s *Session) save() bool {
	return gateway.Save(s.Out, s.Log, s.Storage, s.Path, s.Roster)
}

func inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("registrar: %w", ErrInputClosed)
	}
	return fmt.Errorf("registrar: read input: %w", err)
}
