package corotick

import (
	"errors"
	"testing"
	"time"
)

// scriptGen yields a fixed, pre-scripted sequence of CoroutineActions in
// order, then completes. It is a convenient stand-in for a hand-written
// state-machine body in tests that only care about action dispatch.
type scriptGen struct {
	id      Identifier
	actions []CoroutineAction
	idx     int
}

func newScriptGen(actions ...CoroutineAction) *scriptGen {
	return &scriptGen{id: NewIdentifier("corotick_test", "script"), actions: actions}
}

func (g *scriptGen) MethodID() Identifier { return g.id }

func (g *scriptGen) Current() any { return g.actions[g.idx-1] }

func (g *scriptGen) Advance() (bool, error) {
	if g.idx >= len(g.actions) {
		return false, nil
	}
	g.idx++
	return true, nil
}

// failGen always returns an error from Advance, simulating a user error
// raised inside a generator body.
type failGen struct {
	err error
}

func (g *failGen) MethodID() Identifier { return NewIdentifier("corotick_test", "fail") }
func (g *failGen) Current() any         { return NullYield }
func (g *failGen) Advance() (bool, error) {
	return false, g.err
}

func newTestExecutor() *CoroutineExecutor {
	return NewExecutor(NewGeneratorRegistry())
}

// TestDelayAcrossTicks is spec.md's S4 scenario.
func TestDelayAcrossTicks(t *testing.T) {
	e := newTestExecutor()

	th, err := e.Start(e.Delay(time.Second))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if th.Status() != StatusYielded {
		t.Fatalf("initial status = %v, want Yielded", th.Status())
	}

	if _, err := e.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if th.Status() != StatusYielded {
		t.Fatalf("after tick 1 status = %v, want Yielded", th.Status())
	}

	if _, err := e.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("tick 2 (cumulative 1.10s): %v", err)
	}
	if th.Status() != StatusYielded {
		t.Fatalf("after tick 2 status = %v, want Yielded (deadline 1.55s not yet reached)", th.Status())
	}

	if _, err := e.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("tick 3: %v", err)
	}
	if th.Status() != StatusFinished {
		t.Fatalf("after tick 3 status = %v, want Finished", th.Status())
	}
}

// TestParallelJoin is spec.md's S5 scenario: Parallel of two 0.5s delays,
// ticked in 0.2s steps. The composing frame learns a child is done only on
// the tick after that child's own drive step observed it, because children
// started from a Parallel frame are appended after it and so are driven
// later within the tick that starts them.
func TestParallelJoin(t *testing.T) {
	e := newTestExecutor()

	gen := newScriptGen(Parallel(e.Delay(500*time.Millisecond), e.Delay(500*time.Millisecond)))
	th, err := e.Start(gen)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := e.Tick(200 * time.Millisecond); err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
		if th.Status() != StatusYielded {
			t.Fatalf("after tick %d status = %v, want Yielded", i+1, th.Status())
		}
	}

	// Cumulative 0.8s: both children's own drive step this tick now sees
	// their deadline passed and finishes, but the composing frame was
	// already evaluated earlier in this same tick against their prior
	// (not-yet-finished) status.
	if _, err := e.Tick(200 * time.Millisecond); err != nil {
		t.Fatalf("tick 4: %v", err)
	}
	if th.Status() != StatusYielded {
		t.Fatalf("after tick 4 status = %v, want Yielded (children finish within this tick, composing frame notices next tick)", th.Status())
	}

	if _, err := e.Tick(200 * time.Millisecond); err != nil {
		t.Fatalf("tick 5: %v", err)
	}
	if th.Status() != StatusFinished {
		t.Fatalf("after tick 5 status = %v, want Finished", th.Status())
	}
}

// TestExecutorSnapshotMidFlight is spec.md's S6 scenario.
func TestExecutorSnapshotMidFlight(t *testing.T) {
	registry := NewGeneratorRegistry()
	e := NewExecutor(registry)
	engine := NewSnapshotEngine(registry)

	th, err := e.Start(e.Delay(time.Second))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := e.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if _, err := e.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	if th.Status() != StatusYielded {
		t.Fatalf("before capture status = %v, want Yielded", th.Status())
	}

	snap, err := e.Capture(engine)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	// The original executor keeps running and finishes on the next tick.
	if _, err := e.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("original tick 3: %v", err)
	}
	if th.Status() != StatusFinished {
		t.Fatalf("original after tick 3 status = %v, want Finished", th.Status())
	}

	rehydratedRegistry := NewGeneratorRegistry()
	rehydratedEngine := NewSnapshotEngine(rehydratedRegistry)
	e2, err := RehydrateExecutor(rehydratedEngine, rehydratedRegistry, snap)
	if err != nil {
		t.Fatalf("RehydrateExecutor: %v", err)
	}
	if len(e2.Threads()) != 1 {
		t.Fatalf("rehydrated thread count = %d, want 1", len(e2.Threads()))
	}

	if _, err := e2.Tick(550 * time.Millisecond); err != nil {
		t.Fatalf("rehydrated tick: %v", err)
	}
	if got := e2.Threads()[0].Status(); got != StatusFinished {
		t.Fatalf("rehydrated thread status = %v, want Finished", got)
	}
}

// TestResultVisibleExactlyOnce exercises spec.md's transient Result
// visibility window: the value yielded via Result is observable during
// exactly one subsequent Advance on the new top frame, then cleared. Since
// popping a completed frame continues driving the new top within the same
// drive step (no tick boundary required), that one subsequent Advance
// happens immediately after the child's Result-yielding frame is popped.
func TestResultVisibleExactlyOnce(t *testing.T) {
	e := newTestExecutor()

	var observed []bool
	parent := &recordingParentGen{}
	child := newScriptGen(Result(42))
	parent.child = child
	parent.observe = &observed

	th, err := e.Start(parent)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3 && th.Status() != StatusFinished; i++ {
		if _, err := e.Tick(0); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	want := []bool{true, false, false}
	if len(observed) != len(want) {
		t.Fatalf("observed %v, want %v", observed, want)
	}
	for i, w := range want {
		if observed[i] != w {
			t.Fatalf("observed[%d] = %v, want %v (full: %v)", i, observed[i], w, observed)
		}
	}
}

// recordingParentGen pushes a child frame on its first step (state 0->1).
// Current() reflects the action for the state Advance() just transitioned
// into, matching the push/pop convention used throughout this package: the
// value read by driveStep after an Advance call always corresponds to the
// state that call just produced, not the state before it.
type recordingParentGen struct {
	state   int32
	child   Generator
	observe *[]bool
}

func (g *recordingParentGen) MethodID() Identifier { return NewIdentifier("corotick_test", "recordingParent") }
func (g *recordingParentGen) Current() any         { return g.currentAction() }

func (g *recordingParentGen) currentAction() CoroutineAction {
	if g.state == 1 {
		return Nested(g.child)
	}
	return NullYield
}

func (g *recordingParentGen) Advance() (bool, error) {
	if g.state == 0 {
		g.state = 1
		return true, nil
	}

	_, hasResult := CurrentThread().Result()
	*g.observe = append(*g.observe, hasResult)

	g.state++
	if g.state >= 4 {
		return false, nil
	}
	return true, nil
}

func TestParallelChildFaultSurfacesToComposingFrame(t *testing.T) {
	e := newTestExecutor()

	boom := errors.New("boom")
	gen := newScriptGen(Parallel(&failGen{err: boom}, e.Delay(time.Hour)))
	th, err := e.Start(gen)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Tick 1: the composing frame starts both children and yields before
	// either has been driven this tick, so the fault is not yet visible to
	// it. The failing child is driven later in this same tick and faults.
	if _, err := e.Tick(0); err == nil {
		t.Fatalf("tick 1: want the failing child's error to escape Tick")
	}
	if th.Status() != StatusYielded {
		t.Fatalf("after tick 1 status = %v, want Yielded (fault not yet observed by composing frame)", th.Status())
	}

	// Tick 2: the composing frame's Parallel generator now observes the
	// faulted child and surfaces the error from its own Advance, which
	// fault-disposes the composing thread.
	if _, err := e.Tick(0); err == nil {
		t.Fatalf("tick 2: want composing frame's error")
	}

	if th.Status() != StatusFaulted {
		t.Fatalf("status = %v, want Faulted", th.Status())
	}
	if !errors.Is(th.Exception(), boom) {
		t.Fatalf("exception = %v, want wrapping %v", th.Exception(), boom)
	}
}

func TestDisposeIdempotentAndDrains(t *testing.T) {
	e := newTestExecutor()
	gen := newScriptGen(NullYield, NullYield)
	th, err := e.Start(gen)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	th.Dispose(nil)
	if th.Status() != StatusFinished || th.FrameCount() != 0 {
		t.Fatalf("after Dispose: status=%v frameCount=%d", th.Status(), th.FrameCount())
	}

	th.Dispose(errors.New("ignored, already disposed"))
	if th.Status() != StatusFinished {
		t.Fatalf("second Dispose changed status to %v", th.Status())
	}
}

func TestTickRejectsNegativeAndReentrant(t *testing.T) {
	e := newTestExecutor()

	if _, err := e.Tick(-time.Second); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative Tick: err=%v, want ErrInvalidArgument", err)
	}

	reentrant := &reentrantTickGen{executor: e}
	if _, err := e.Start(reentrant); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := e.Tick(0); err == nil {
		t.Fatalf("Tick containing reentrant Tick call: want error")
	}
}

type reentrantTickGen struct {
	executor *CoroutineExecutor
}

func (g *reentrantTickGen) MethodID() Identifier { return NewIdentifier("corotick_test", "reentrant") }
func (g *reentrantTickGen) Current() any         { return NullYield }
func (g *reentrantTickGen) Advance() (bool, error) {
	_, err := g.executor.Tick(0)
	return false, err
}

func TestTickZeroIsLegal(t *testing.T) {
	e := newTestExecutor()
	gen := newScriptGen(Result(1))
	if _, err := e.Start(gen); err != nil {
		t.Fatalf("Start: %v", err)
	}

	alive, err := e.Tick(0)
	if err != nil {
		t.Fatalf("Tick(0): %v", err)
	}
	if e.Time() != 0 {
		t.Fatalf("Time() = %v, want 0", e.Time())
	}
	if alive != 0 {
		t.Fatalf("alive = %d, want 0 (single-frame thread should finish immediately)", alive)
	}
}

func TestProtocolErrorOnNonConformingYield(t *testing.T) {
	e := newTestExecutor()
	gen := &badYieldGen{}
	th, err := e.Start(gen)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := e.Tick(0); err == nil {
		t.Fatalf("Tick: want ProtocolError")
	}
	if th.Status() != StatusFaulted {
		t.Fatalf("status = %v, want Faulted", th.Status())
	}
	if !errors.Is(th.Exception(), ErrProtocolError) {
		t.Fatalf("exception = %v, want ErrProtocolError", th.Exception())
	}
}

type badYieldGen struct{ done bool }

func (g *badYieldGen) MethodID() Identifier { return NewIdentifier("corotick_test", "badYield") }
func (g *badYieldGen) Current() any         { return "not a CoroutineAction" }
func (g *badYieldGen) Advance() (bool, error) {
	if g.done {
		return false, nil
	}
	g.done = true
	return true, nil
}
