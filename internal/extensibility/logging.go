// Package extensibility holds ambient cross-cutting adapters over the core
// engine: logging decorators and reflection-driven descriptor derivation.
package extensibility

import (
	"log"
	"time"

	"github.com/outpace/corotick"
)

// LoggingExecutor wraps a CoroutineExecutor and logs around every Tick,
// the way the teacher's LoggingActionRunner wraps an ActionRunner.
type LoggingExecutor struct {
	inner *corotick.CoroutineExecutor
}

// NewLoggingExecutor creates a LoggingExecutor wrapping inner.
func NewLoggingExecutor(inner *corotick.CoroutineExecutor) *LoggingExecutor {
	return &LoggingExecutor{inner: inner}
}

// Tick logs before and after delegating to the wrapped executor's Tick.
func (e *LoggingExecutor) Tick(dt time.Duration) (int, error) {
	log.Printf("tick: dt=%v time=%v threads=%d", dt, e.inner.Time(), len(e.inner.Threads()))
	start := time.Now()
	alive, err := e.inner.Tick(dt)
	log.Printf("tick done in %v: alive=%d err=%v", time.Since(start), alive, err)
	return alive, err
}

// Unwrap returns the wrapped executor, for callers that need the full
// CoroutineExecutor API (Start, Capture, Dispose, ...).
func (e *LoggingExecutor) Unwrap() *corotick.CoroutineExecutor { return e.inner }
