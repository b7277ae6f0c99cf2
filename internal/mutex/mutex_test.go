package mutex_test

import (
	"testing"

	"github.com/amonks/crunkurrent/internal/debuglog"
	"github.com/amonks/crunkurrent/internal/mutex"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, trace bool) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	debuglog.Set(zap.New(core))
	mutex.Trace = trace
	t.Cleanup(func() {
		debuglog.Set(nil)
		mutex.Trace = false
	})
	return logs
}

func TestTrace(t *testing.T) {
	logs := observe(t, true)

	mu := mutex.New("printer")
	func() {
		defer mu.Lock("Stdout").Unlock()
	}()

	var msgs []string
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
		assert.Equal(t, "printer", e.ContextMap()["mutex"])
	}
	assert.Equal(t, []string{
		"--- begin ---",
		"Stdout seeks lock",
		"Stdout receives lock",
		"releases lock",
	}, msgs)
}

func TestNoTrace(t *testing.T) {
	logs := observe(t, false)

	mu := mutex.New("printer")
	mu.Lock("Stdout").Unlock()

	assert.Zero(t, logs.Len())
}
