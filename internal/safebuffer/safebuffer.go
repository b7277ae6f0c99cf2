// Package safebuffer is a bytes.Buffer that can be written from several
// goroutines while a test reads it.
package safebuffer

import (
	"bytes"
	"strings"
	"sync"
)

func New() *SafeBuffer {
	return &SafeBuffer{}
}

type SafeBuffer struct {
	mu  sync.RWMutex
	buf bytes.Buffer
}

func (sb *SafeBuffer) Write(bs []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.buf.Write(bs)
}

func (sb *SafeBuffer) String() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.buf.String()
}

// Lines splits the buffer into lines, dropping the empty string after a
// trailing newline.
func (sb *SafeBuffer) Lines() []string {
	s := strings.TrimSuffix(sb.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
