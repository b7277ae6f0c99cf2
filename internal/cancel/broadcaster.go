package cancel

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// DefaultSignals are the signals that request cancellation when Listen is
// given none.
var DefaultSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

// Broadcaster turns interrupt signals into a tripped Flag. It is the only
// thing that should trip the flag on behalf of the operator.
type Broadcaster struct {
	flag *Flag
	sigs chan os.Signal
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// Listen installs handlers for signals and returns once they are installed.
// The first signal received trips flag; later signals are swallowed so a
// second Ctrl-C neither kills the supervisor nor re-kills its children.
func Listen(flag *Flag, signals ...os.Signal) *Broadcaster {
	if len(signals) == 0 {
		signals = DefaultSignals
	}
	b := &Broadcaster{
		flag: flag,
		sigs: make(chan os.Signal, 1),
		stop: make(chan struct{}),
	}
	signal.Notify(b.sigs, signals...)

	b.wg.Add(1)
	go b.loop()
	return b
}

func (b *Broadcaster) loop() {
	defer b.wg.Done()
	for {
		select {
		case sig := <-b.sigs:
			b.flag.Trip(describe(sig))
		case <-b.stop:
			return
		}
	}
}

// Stop uninstalls the signal handlers. It is safe to call more than once.
func (b *Broadcaster) Stop() {
	b.once.Do(func() {
		signal.Stop(b.sigs)
		close(b.stop)
		b.wg.Wait()
	})
}

func describe(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "interrupt"
	case syscall.SIGTERM:
		return "terminate"
	case syscall.SIGHUP:
		return "hangup"
	case syscall.SIGQUIT:
		return "quit"
	}
	return sig.String()
}
