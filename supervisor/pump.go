package supervisor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/amonks/crunkurrent/internal/cancel"
	"github.com/amonks/crunkurrent/internal/child"
	"go.uber.org/zap"
)

// pump owns one child. It forwards the child's output line by line, kills
// the child when the cancellation flag trips, and finally reports how the
// child ended.
type pump struct {
	tag        *Tag
	child      *child.Child
	flag       *cancel.Flag
	killSignal syscall.Signal
	log        *zap.Logger

	// signal delivers killSignal to the child. It is child.Kill outside
	// of tests.
	signal func(syscall.Signal) error

	stdout chan<- OutputLine
	stderr chan<- OutputLine
	exits  chan<- Termination

	// aggregatorDone is closed when the aggregator stops receiving. A
	// pump that still has something to send at that point has found a
	// bug, not a runtime condition.
	aggregatorDone <-chan struct{}
}

type waitResult struct {
	exit child.Exit
	err  error
}

func (p *pump) run() {
	stdout := readLines(p.child.Stdout)
	stderr := readLines(p.child.Stderr)

	waited := make(chan waitResult, 1)
	go func() {
		exit, err := p.child.Wait()
		waited <- waitResult{exit, err}
	}()

	var (
		killed   bool
		canceled = p.flag.Done()

		// exited stays nil, disabling its select case, until both
		// streams are exhausted. That way a line and the exit can never
		// race: every line is forwarded before the exit is even looked
		// at.
		exited <-chan waitResult
	)
	for {
		if !killed && p.flag.IsSet() {
			killed, canceled = true, nil
			p.kill()
		}
		if stdout == nil && stderr == nil {
			exited = waited
		}

		select {
		case <-canceled:
			// Handled at the top of the loop.

		case line, ok := <-stdout:
			if !ok {
				p.log.Debug("stdout closed", zap.String("id", p.tag.ID))
				stdout = nil
				continue
			}
			p.sendLine(p.stdout, OutputLine{Tag: p.tag, Stream: StreamOut, Text: line})

		case line, ok := <-stderr:
			if !ok {
				p.log.Debug("stderr closed", zap.String("id", p.tag.ID))
				stderr = nil
				continue
			}
			p.sendLine(p.stderr, OutputLine{Tag: p.tag, Stream: StreamErr, Text: line})

		case res := <-exited:
			outcome := outcomeOf(res)
			p.log.Debug("exited", zap.String("id", p.tag.ID), zap.Stringer("outcome", outcome))
			p.sendExit(Termination{Tag: p.tag, Outcome: outcome})
			return
		}
	}
}

func (p *pump) kill() {
	p.log.Debug("killing", zap.String("id", p.tag.ID), zap.Stringer("signal", p.killSignal))
	if err := p.signal(p.killSignal); err != nil {
		p.log.Warn("kill failed", zap.String("id", p.tag.ID), zap.Error(err))
		p.sendLine(p.stderr, OutputLine{
			Tag:    p.tag,
			Stream: StreamMeta,
			Text:   fmt.Sprintf("kill failed: %s; waiting for exit", err),
		})
		return
	}
	p.sendLine(p.stderr, OutputLine{
		Tag:    p.tag,
		Stream: StreamMeta,
		Text:   fmt.Sprintf("canceled; sent %s", signalName(p.killSignal)),
	})
}

func (p *pump) sendLine(c chan<- OutputLine, line OutputLine) {
	select {
	case c <- line:
	case <-p.aggregatorDone:
		panic(fmt.Sprintf("supervisor: aggregator exited before process %s finished sending output", p.tag.ID))
	}
}

func (p *pump) sendExit(t Termination) {
	select {
	case p.exits <- t:
	case <-p.aggregatorDone:
		panic(fmt.Sprintf("supervisor: aggregator exited before process %s reported its exit", p.tag.ID))
	}
}

func outcomeOf(res waitResult) Outcome {
	switch {
	case res.err != nil:
		return Outcome{Kind: OutcomeUnknown, Err: res.err}
	case res.exit.Signaled:
		return Outcome{Kind: OutcomeSignaled, Signal: res.exit.Signal}
	default:
		return Outcome{Kind: OutcomeExited, Code: res.exit.Code}
	}
}

// readLines reads r line by line until EOF, then closes r and the returned
// channel. A read error counts as EOF: the child's exit status, not its
// pipes, is what says it's done. A final line without a trailing newline is
// still delivered.
func readLines(r io.ReadCloser) <-chan string {
	c := make(chan string)
	go func() {
		defer close(c)
		defer r.Close()

		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				c <- strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

func signalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGKILL:
		return "SIGKILL"
	case syscall.SIGHUP:
		return "SIGHUP"
	case syscall.SIGQUIT:
		return "SIGQUIT"
	}
	return sig.String()
}
