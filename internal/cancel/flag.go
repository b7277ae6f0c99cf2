// Package cancel holds the process-wide cancellation state shared by every
// pump, and the signal handler that sets it.
package cancel

import (
	"sync/atomic"
)

// Flag is a one-way boolean. It starts unset, can be tripped exactly once,
// and never resets. Readers may either poll IsSet or wait on Done.
type Flag struct {
	set    atomic.Bool
	done   chan struct{}
	reason string
}

func NewFlag() *Flag {
	return &Flag{done: make(chan struct{})}
}

// Trip sets the flag. It returns true only for the call that actually
// changed the flag; every later call is a no-op that returns false.
func (f *Flag) Trip(reason string) bool {
	if !f.set.CompareAndSwap(false, true) {
		return false
	}
	f.reason = reason
	close(f.done)
	return true
}

func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Done is closed once the flag has been tripped.
func (f *Flag) Done() <-chan struct{} {
	return f.done
}

// Reason is the string passed to the winning Trip call. It is only
// meaningful after Done is closed.
func (f *Flag) Reason() string {
	select {
	case <-f.done:
		return f.reason
	default:
		return ""
	}
}
