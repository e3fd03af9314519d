package corotick

import (
	"fmt"
	"time"
)

// ThreadStatus is the lifecycle state of a CoroutineThread.
type ThreadStatus int

const (
	// StatusYielded is observed externally between ticks.
	StatusYielded ThreadStatus = iota
	// StatusExecuting holds only while the driver is inside a drive step.
	StatusExecuting
	// StatusFinished is terminal: the stack ran out without error.
	StatusFinished
	// StatusFaulted is terminal: an error escaped a generator or an
	// explicit Dispose(err) was requested.
	StatusFaulted
)

func (s ThreadStatus) String() string {
	switch s {
	case StatusYielded:
		return "Yielded"
	case StatusExecuting:
		return "Executing"
	case StatusFinished:
		return "Finished"
	case StatusFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// CoroutineThread is a single logical coroutine: a stack of suspended
// generator frames driven one step at a time by a CoroutineExecutor.
// Threads are not OS threads; an executor confined to one goroutine drives
// all of its threads synchronously.
type CoroutineThread struct {
	id        uint64
	stack     []Generator
	status    ThreadStatus
	exception error
	result    any
	hasResult bool
	elapsed   time.Duration
	tag       any
	executor  *CoroutineExecutor
	disposed  bool
}

// ID returns the thread's identity, unique within its owning executor.
func (t *CoroutineThread) ID() uint64 { return t.id }

// Status returns the thread's current lifecycle state. Outside of a drive
// step this is never StatusExecuting.
func (t *CoroutineThread) Status() ThreadStatus { return t.status }

// Exception returns the error that fault-disposed the thread, or nil.
func (t *CoroutineThread) Exception() error { return t.exception }

// FrameCount returns the number of suspended frames on the thread's stack.
// It is zero iff the thread has reached a terminal status.
func (t *CoroutineThread) FrameCount() int { return len(t.stack) }

// Elapsed returns the cumulative time this thread has been driven for,
// summed across every Tick that advanced it.
func (t *CoroutineThread) Elapsed() time.Duration { return t.elapsed }

// Tag returns the user-assigned tag value, if any (see SetTag).
func (t *CoroutineThread) Tag() any { return t.tag }

// SetTag attaches an arbitrary user value to the thread, for the host's
// own bookkeeping; the executor never reads it.
func (t *CoroutineThread) SetTag(tag any) { t.tag = tag }

// Result returns the thread's transient result slot: the value passed to
// the most recent Result action, and whether one is currently pending. It
// is only populated during the single step immediately following that
// Result action.
func (t *CoroutineThread) Result() (any, bool) { return t.result, t.hasResult }

// GetResult reads the thread's transient result slot as T. ok is false if
// no result is pending or the pending value is not assignable to T.
func GetResult[T any](t *CoroutineThread) (value T, ok bool) {
	v, has := t.Result()
	if !has {
		return value, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// GetResultOrDefault is GetResult, substituting def when no result of type
// T is currently pending.
func GetResultOrDefault[T any](t *CoroutineThread, def T) T {
	if v, ok := GetResult[T](t); ok {
		return v
	}
	return def
}

// Dispose terminates the thread. It is idempotent: subsequent calls are
// no-ops. The stack is drained top-down, running each frame's close hook;
// status becomes StatusFaulted if err is non-nil, else StatusFinished. The
// owning executor is not signalled and the thread stays in its thread
// list; Tick skips threads in a terminal status, so it is not driven again.
func (t *CoroutineThread) Dispose(err error) {
	if t.disposed {
		return
	}
	t.disposed = true

	for i := len(t.stack) - 1; i >= 0; i-- {
		_ = closeFrame(t.stack[i])
	}
	t.stack = nil

	if err != nil {
		t.status = StatusFaulted
		t.exception = err
	} else {
		t.status = StatusFinished
	}
}

// popFrame pops and closes the top frame. Caller must check len(t.stack)
// afterward to detect the thread running out of frames.
func (t *CoroutineThread) popFrame() {
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	_ = closeFrame(top)
}

// driveStep advances the thread until it yields to the next tick or
// reaches a terminal status, exactly as described in spec.md §4.4.
func (t *CoroutineThread) driveStep(dt time.Duration) error {
	if t.status == StatusFinished || t.status == StatusFaulted {
		return nil
	}

	t.elapsed += dt

	for {
		t.status = StatusExecuting
		top := t.stack[len(t.stack)-1]

		ok, err := func() (bool, error) {
			pushContext(t.executor, t)
			defer popContext()
			return top.Advance()
		}()

		// Exactly one subsequent step has now consumed any result left by
		// a prior Result action; clear unconditionally before applying
		// whatever this step yields.
		t.result, t.hasResult = nil, false

		if err != nil {
			t.Dispose(NewUserError(err))
			return t.exception
		}

		t.status = StatusYielded

		if !ok {
			t.popFrame()
			if len(t.stack) == 0 {
				t.Dispose(nil)
				return nil
			}
			continue
		}

		action := top.Current()
		coAction, isAction := action.(CoroutineAction)
		if !isAction {
			err := fmt.Errorf("%w: generator %s yielded %T, want CoroutineAction", ErrProtocolError, top.MethodID(), action)
			t.Dispose(err)
			return t.exception
		}

		switch coAction.Kind {
		case KindNullYield:
			return nil

		case KindNested:
			t.stack = append(t.stack, coAction.nested)
			continue

		case KindDelay:
			t.stack = append(t.stack, newDelayGenerator(t.executor, coAction.duration))
			continue

		case KindParallel:
			t.stack = append(t.stack, newParallelGenerator(t.executor, coAction.parallel))
			continue

		case KindResult:
			t.result, t.hasResult = coAction.value, true
			t.popFrame()
			if len(t.stack) == 0 {
				// No further frame exists to observe this result during
				// the "exactly one subsequent step" window, so there is
				// nothing left to clear it; drop it now rather than leave
				// it observable after the thread has finished.
				t.result, t.hasResult = nil, false
				t.Dispose(nil)
				return nil
			}
			continue

		default:
			err := fmt.Errorf("%w: unrecognized action kind %v", ErrProtocolError, coAction.Kind)
			t.Dispose(err)
			return t.exception
		}
	}
}
