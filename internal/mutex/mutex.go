package mutex

import (
	"fmt"
	"strings"
	"sync"

	"github.com/amonks/crunkurrent/internal/debuglog"
	"go.uber.org/zap"
)

func New(name string) *Mutex {
	mu := &Mutex{name: name}
	mu.Printf("--- begin ---")
	return mu
}

// Mutex wraps sync.Mutex, providing these additional features:
//   - You can `defer Lock(...).Unlock()` in a single line
//   - If Trace is true, lock/unlock info is written to the debug log.
//   - You can log additional info to the debug log with [Mutex.Printf].
type Mutex struct {
	name string
	mu   sync.Mutex
}

// Trace enables lock tracing. It must be set before any Mutex is used.
var Trace = false

func (mu *Mutex) Lock(name string) *Mutex {
	mu.Printf("%s seeks lock", name)
	mu.mu.Lock()
	mu.Printf("%s receives lock", name)

	return mu
}

func (mu *Mutex) Unlock() {
	mu.Printf("releases lock")
	mu.mu.Unlock()
}

func (mu *Mutex) Printf(s string, args ...interface{}) {
	if !Trace {
		return
	}
	debuglog.L().Debug(
		fmt.Sprintf(strings.TrimSpace(s), args...),
		zap.String("mutex", mu.name),
	)
}
