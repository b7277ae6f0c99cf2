// Package supervisor runs several shell commands at once, multiplexes their
// output into one stream with each line tagged by the process it came from,
// kills every child when cancellation is requested, and reports a single
// exit status once they have all finished.
//
// Every command gets a pump, which reads the child's stdout and stderr and
// waits for it to exit. All pumps feed one aggregator, which does all of the
// printing. Within one process and one stream, lines are printed in the
// order the child wrote them, and a process's exit notice is always printed
// after all of its output. Lines from different processes interleave in
// whatever order they arrive.
package supervisor

import (
	"context"
	"fmt"
	"strconv"
	"syscall"

	"github.com/amonks/crunkurrent/internal/cancel"
	"github.com/amonks/crunkurrent/internal/child"
	"github.com/amonks/crunkurrent/internal/color"
	"github.com/amonks/crunkurrent/internal/debuglog"
	"github.com/amonks/crunkurrent/printer"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type ColorPolicy
type ColorPolicy int

const (
	// ColorByCommand keeps a command's color the same across runs even
	// if the order of commands changes.
	ColorByCommand ColorPolicy = iota

	// ColorByIndex colors commands in palette order.
	ColorByIndex
)

type Options struct {
	// Shell interprets each command. Defaults to /bin/sh.
	Shell string

	// KillSignal is sent to each child's process group on cancellation.
	// Defaults to SIGKILL. There is no escalation: a child that survives
	// KillSignal keeps the run alive until it exits.
	KillSignal syscall.Signal

	ColorPolicy ColorPolicy

	// Buffer is the capacity of each channel from the pumps to the
	// aggregator.
	Buffer int

	// Logger receives a debug trace of the run. Defaults to the
	// process-wide debug log.
	Logger *zap.Logger
}

type Supervisor struct {
	opts    Options
	printer *printer.Printer
}

func New(p *printer.Printer, opts Options) *Supervisor {
	if opts.Shell == "" {
		opts.Shell = child.DefaultShell
	}
	if opts.KillSignal == 0 {
		opts.KillSignal = syscall.SIGKILL
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	if opts.Logger == nil {
		opts.Logger = debuglog.L()
	}
	return &Supervisor{opts: opts, printer: p}
}

type launch struct {
	tag   *Tag
	child *child.Child
	err   error
}

// Run starts every LaunchSpec and does not return until all of them have
// finished. Tripping flag, or canceling ctx, kills every child; Run still
// waits for each one to actually exit.
//
// A LaunchSpec that can't be started is reported and counted as finished with
// LaunchFailureStatus; it doesn't stop the others.
func (s *Supervisor) Run(ctx context.Context, flag *cancel.Flag, specs []LaunchSpec) Result {
	log := s.opts.Logger
	if len(specs) == 0 {
		return Result{}
	}

	stop := context.AfterFunc(ctx, func() { flag.Trip("cancellation") })
	defer stop()

	launches := make([]launch, len(specs))
	for i, spec := range specs {
		launches[i] = s.start(spec)
		if err := launches[i].err; err != nil {
			log.Warn("spawn failed", zap.Int("index", spec.Index), zap.Error(err))
		} else {
			log.Debug("spawned", zap.Int("index", spec.Index), zap.Int("pid", launches[i].tag.Pid))
		}
	}

	width := 0
	for _, l := range launches {
		if w := lipgloss.Width(l.tag.ID); w > width {
			width = w
		}
	}
	s.printer.SetGutterWidth(max(width, 8))

	for _, l := range launches {
		if l.err == nil {
			s.printer.Meta(l.tag.key(), "started '%s'", l.tag.Command)
		}
	}

	var (
		stdout         = make(chan OutputLine, s.opts.Buffer)
		stderr         = make(chan OutputLine, s.opts.Buffer)
		exits          = make(chan Termination, len(specs))
		aggregatorDone = make(chan struct{})
	)
	defer close(aggregatorDone)

	agg := &aggregator{
		printer:  s.printer,
		flag:     flag,
		log:      log,
		stdout:   stdout,
		stderr:   stderr,
		exits:    exits,
		expected: len(specs),
	}

	for _, l := range launches {
		if l.err != nil {
			agg.finish(Termination{Tag: l.tag, Outcome: Outcome{Kind: OutcomeFailedToStart, Err: l.err}})
			continue
		}
		p := &pump{
			tag:            l.tag,
			child:          l.child,
			flag:           flag,
			killSignal:     s.opts.KillSignal,
			signal:         l.child.Kill,
			log:            log,
			stdout:         stdout,
			stderr:         stderr,
			exits:          exits,
			aggregatorDone: aggregatorDone,
		}
		go p.run()
	}

	result := agg.run()
	log.Debug("done", zap.Int("status", result.Status), zap.Int("finished", result.Finished))
	return result
}

func (s *Supervisor) start(spec LaunchSpec) launch {
	tag := &Tag{
		Index:   spec.Index,
		Command: spec.Command,
		Color:   s.color(spec),
	}

	c, err := child.Start(child.Spec{
		Shell: s.opts.Shell,
		Dir:   spec.Dir,
		Env:   spec.Env,
		Text:  spec.Command,
	})
	switch {
	case spec.Name != "":
		tag.ID = spec.Name
	case err != nil:
		tag.ID = "#" + strconv.Itoa(spec.Index)
	default:
		tag.ID = strconv.Itoa(c.Pid())
	}
	if err != nil {
		return launch{tag: tag, err: fmt.Errorf("%s: %w", spec.Command, err)}
	}
	tag.Pid = c.Pid()
	return launch{tag: tag, child: c}
}

func (s *Supervisor) color(spec LaunchSpec) lipgloss.Color {
	if s.opts.ColorPolicy == ColorByIndex {
		return color.ForIndex(spec.Index)
	}
	return color.Assign(spec.Command)
}
