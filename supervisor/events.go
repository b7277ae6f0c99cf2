package supervisor

import (
	"fmt"
	"syscall"

	"github.com/amonks/crunkurrent/printer"
	"github.com/charmbracelet/lipgloss"
)

// LaunchSpec is one requested command and its position in the command list.
type LaunchSpec struct {
	Index   int
	Command string

	// Name, if set, labels the process in output instead of its pid.
	Name string
	Dir  string
	Env  map[string]string
}

// Tag labels every event from one launched process. A Tag is created once
// per process and shared by pointer among all of its events.
type Tag struct {
	ID      string
	Color   lipgloss.Color
	Index   int
	Command string
	Pid     int
}

func (t *Tag) key() printer.Key {
	return printer.Key{ID: t.ID, Color: t.Color}
}

//go:generate go run golang.org/x/tools/cmd/stringer -type StreamKind
type StreamKind int

const (
	streamKindInvalid StreamKind = iota
	StreamOut
	StreamErr

	// StreamMeta lines are notices a pump emits about its own process,
	// like a failed kill. They are written to stderr.
	StreamMeta
)

// OutputLine is one line read from a child, without its line terminator.
type OutputLine struct {
	Tag    *Tag
	Stream StreamKind
	Text   string
}

//go:generate go run golang.org/x/tools/cmd/stringer -type OutcomeKind
type OutcomeKind int

const (
	outcomeKindInvalid OutcomeKind = iota

	// OutcomeExited means the child exited on its own with a status code.
	OutcomeExited

	// OutcomeSignaled means the child was killed by a signal and has no
	// status code.
	OutcomeSignaled

	// OutcomeFailedToStart means the command interpreter could not be
	// launched at all.
	OutcomeFailedToStart

	// OutcomeUnknown means the child was started but waiting for it failed,
	// so how it ended can't be known.
	OutcomeUnknown
)

// LaunchFailureStatus is the aggregate status contributed by a command that
// couldn't be started, or whose exit couldn't be collected. It is outside the range shells use for their own
// errors (126, 127) and for signals (128+n).
const LaunchFailureStatus = 125

type Outcome struct {
	Kind   OutcomeKind
	Code   int
	Signal syscall.Signal
	Err    error
}

// Status is the outcome's contribution to the aggregate exit status. ok is
// false for outcomes that contribute nothing.
func (o Outcome) Status() (status int, ok bool) {
	switch o.Kind {
	case OutcomeExited:
		return o.Code, true
	case OutcomeFailedToStart, OutcomeUnknown:
		return LaunchFailureStatus, true
	default:
		return 0, false
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeExited:
		return fmt.Sprintf("exited with status %d", o.Code)
	case OutcomeSignaled:
		return fmt.Sprintf("killed by signal %d (%s)", int(o.Signal), o.Signal)
	case OutcomeFailedToStart:
		return fmt.Sprintf("failed to start: %s", o.Err)
	case OutcomeUnknown:
		return fmt.Sprintf("exit status unknown: %s", o.Err)
	}
	return o.Kind.String()
}

// Termination reports how one process ended. Exactly one is produced per
// process, after all of its OutputLines.
type Termination struct {
	Tag     *Tag
	Outcome Outcome
}

// Result is the outcome of a whole run.
type Result struct {
	// Status is the largest status code among processes that exited
	// normally, or LaunchFailureStatus if that is larger and some process
	// failed to start or to be waited for. It is 0 if neither happened.
	Status int

	// Finished counts processes that have reported a Termination.
	Finished int

	// Terminations are in the order the aggregator received them.
	Terminations []Termination
}
