package corotick

import "time"

// ActionKind discriminates the CoroutineAction sum type.
type ActionKind int

const (
	// KindNullYield continues the owning thread on the next tick.
	KindNullYield ActionKind = iota
	// KindNested pushes a generator onto the owning thread's stack.
	KindNested
	// KindDelay suspends until the executor's clock reaches a deadline.
	KindDelay
	// KindParallel starts sibling top-level threads and joins on them.
	KindParallel
	// KindResult sets the thread's transient result slot and pops the frame.
	KindResult
)

func (k ActionKind) String() string {
	switch k {
	case KindNullYield:
		return "NullYield"
	case KindNested:
		return "Nested"
	case KindDelay:
		return "Delay"
	case KindParallel:
		return "Parallel"
	case KindResult:
		return "Result"
	default:
		return "Unknown"
	}
}

// CoroutineAction is the sum type of directives a generator body may yield
// to the driving CoroutineThread. Construct values with NullYield, Nested,
// Execute, Delay, Parallel, or Result rather than the struct literal
// directly.
type CoroutineAction struct {
	Kind     ActionKind
	nested   Generator
	duration time.Duration
	parallel []Generator
	value    any
}

// NullYield is the sentinel action meaning "continue on the next tick".
var NullYield = CoroutineAction{Kind: KindNullYield}

// Nested pushes gen onto the yielding thread's stack; the driver continues
// driving within the same tick rather than yielding to the next one.
func Nested(gen Generator) CoroutineAction {
	return CoroutineAction{Kind: KindNested, nested: gen}
}

// Execute is an alias for Nested, preserved for ergonomics at call sites
// that read better as "execute this sub-coroutine".
func Execute(gen Generator) CoroutineAction {
	return Nested(gen)
}

// Delay is equivalent to pushing a generator that yields NullYield until
// the executor's clock reaches start+d, where start is the executor time
// observed the first time the pushed frame is advanced.
func Delay(d time.Duration) CoroutineAction {
	return CoroutineAction{Kind: KindDelay, duration: d}
}

// Parallel starts each of gens as an independent top-level thread on the
// current executor, then yields NullYield repeatedly until either any
// child faults (the error is surfaced to the composing frame's caller on
// its next step) or all children finish.
func Parallel(gens ...Generator) CoroutineAction {
	cp := make([]Generator, len(gens))
	copy(cp, gens)
	return CoroutineAction{Kind: KindParallel, parallel: cp}
}

// Result sets the current thread's transient result slot to value and pops
// the yielding frame. The value is observable for exactly one subsequent
// step of the now-top frame.
func Result(value any) CoroutineAction {
	return CoroutineAction{Kind: KindResult, value: value}
}
