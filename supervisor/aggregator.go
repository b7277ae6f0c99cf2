package supervisor

import (
	"github.com/amonks/crunkurrent/internal/cancel"
	"github.com/amonks/crunkurrent/printer"
	"go.uber.org/zap"
)

// aggregator is the single consumer of every pump's events. It prints lines
// as they arrive and tallies terminations until it has seen one per
// process.
type aggregator struct {
	printer *printer.Printer
	flag    *cancel.Flag
	log     *zap.Logger

	stdout <-chan OutputLine
	stderr <-chan OutputLine
	exits  <-chan Termination

	expected int
	result   Result
}

func (a *aggregator) run() Result {
	canceled := a.flag.Done()
	for a.result.Finished < a.expected {
		select {
		case line := <-a.stdout:
			a.print(line)

		case line := <-a.stderr:
			a.print(line)

		case <-canceled:
			canceled = nil
			a.printer.Notice("%s received; killing all processes", a.flag.Reason())

		case t := <-a.exits:
			// select doesn't prefer any ready case, so lines sent
			// just before this termination may still be buffered.
			// Print them first.
			a.drain()
			a.finish(t)
		}
	}
	return a.result
}

// drain prints every line that is already waiting, without blocking.
func (a *aggregator) drain() {
	for {
		select {
		case line := <-a.stdout:
			a.print(line)
		case line := <-a.stderr:
			a.print(line)
		default:
			return
		}
	}
}

func (a *aggregator) print(line OutputLine) {
	key := line.Tag.key()
	switch line.Stream {
	case StreamOut:
		a.printer.Stdout(key, line.Text)
	case StreamErr:
		a.printer.Stderr(key, line.Text)
	case StreamMeta:
		a.printer.Meta(key, "%s", line.Text)
	default:
		panic("supervisor: line with invalid stream kind " + line.Stream.String())
	}
}

// finish records one termination. A process that exited with a status code
// raises the aggregate to at least that code, and one that failed to start
// or couldn't be waited for raises it to LaunchFailureStatus. A signaled
// process is counted but leaves the aggregate alone.
func (a *aggregator) finish(t Termination) {
	key := t.Tag.key()
	switch t.Outcome.Kind {
	case OutcomeExited, OutcomeSignaled:
		a.printer.Meta(key, "%s", t.Outcome)
	default:
		a.printer.MetaError(key, "%s", t.Outcome)
	}

	if status, ok := t.Outcome.Status(); ok && status > a.result.Status {
		a.result.Status = status
	}
	a.result.Finished++
	a.result.Terminations = append(a.result.Terminations, t)

	a.log.Debug("finished",
		zap.String("id", t.Tag.ID),
		zap.Stringer("outcome", t.Outcome),
		zap.Int("finished", a.result.Finished),
		zap.Int("expected", a.expected),
		zap.Int("status", a.result.Status),
	)
}
