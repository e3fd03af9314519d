package corotick

// Generator is an opaque, restartable-from-snapshot producer of yielded
// values. A generator is always in exactly one of three states: not-started
// (its descriptor's InitialState), at-yield-point (Current is defined), or
// completed.
//
// Implementations are plain explicit state machines: Advance dispatches on
// an internal program-counter field and mutates internal fields before
// returning. Every field a GeneratorDescriptor needs to introspect or
// restore (state, current, receiver, named arguments, hoisted locals) is
// reached only through accessor closures supplied at registration time —
// Generator itself exposes no reflection-friendly layout.
type Generator interface {
	// MethodID identifies the GeneratorDescriptor that governs this
	// generator's resumable state, used both for driving (CoroutineThread
	// dispatch needs no descriptor lookup, but this is still how a
	// generator identifies itself in snapshots) and for SnapshotEngine
	// capture.
	MethodID() Identifier

	// Advance runs the generator forward one logical step from its current
	// program-counter state. ok is false once the generator has completed;
	// Current is meaningless once ok is false. An error escaping Advance
	// propagates to the caller (CoroutineThread wraps it as a fault).
	Advance() (ok bool, err error)

	// Current returns the value most recently yielded. It is only defined
	// immediately after an Advance call that returned ok == true.
	Current() any
}

// closer is implemented by generators that hold a resource which must be
// released when their frame is popped off a CoroutineThread's stack,
// whether by completion, a Result action, or Dispose.
type closer interface {
	Close() error
}

// closeFrame invokes gen's close hook, if it has one.
func closeFrame(gen Generator) error {
	if c, ok := gen.(closer); ok {
		return c.Close()
	}
	return nil
}
