package corotick

import (
	"fmt"
	"time"
)

// CoroutineExecutor owns a set of CoroutineThreads, a monotonic clock, and
// the per-tick drive loop that advances them. An executor must be confined
// to one goroutine across its lifetime; it provides no internal
// synchronization.
type CoroutineExecutor struct {
	registry *GeneratorRegistry
	threads  []*CoroutineThread
	time     time.Duration
	inTick   bool
	nextID   uint64
}

// NewExecutor creates an empty executor backed by registry, which is used
// to resolve the built-in Delay/Parallel generators for snapshot purposes.
// registry is shared, not copied: descriptors registered on it by the
// caller are visible to SnapshotEngine instances built over the same
// registry.
func NewExecutor(registry *GeneratorRegistry) *CoroutineExecutor {
	registry.registerIfAbsent(delayDescriptor)
	registry.registerIfAbsent(parallelDescriptor)

	return &CoroutineExecutor{registry: registry}
}

// Registry returns the registry this executor resolves built-in
// descriptors against.
func (e *CoroutineExecutor) Registry() *GeneratorRegistry { return e.registry }

// Time returns the executor's monotonically non-decreasing clock.
func (e *CoroutineExecutor) Time() time.Duration { return e.time }

// Threads returns a snapshot slice of the executor's threads, in insertion
// order. The slice is a copy; mutating it does not affect the executor.
func (e *CoroutineExecutor) Threads() []*CoroutineThread {
	out := make([]*CoroutineThread, len(e.threads))
	copy(out, e.threads)
	return out
}

// Start creates a new thread wrapping gen and appends it to the executor.
// If called from within a drive step (e.g. from a generator's Advance),
// the new thread is appended to the same slice the running Tick is
// iterating and so begins advancing within the same tick.
func (e *CoroutineExecutor) Start(gen Generator) (*CoroutineThread, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: nil generator", ErrInvalidArgument)
	}

	e.nextID++
	th := &CoroutineThread{
		id:       e.nextID,
		stack:    []Generator{gen},
		status:   StatusYielded,
		executor: e,
	}
	e.threads = append(e.threads, th)

	return th, nil
}

// Tick advances every live thread by exactly one drive step, using dt as
// the elapsed time for this tick. It rejects a negative dt and a reentrant
// call (Tick invoked again while already inside one, e.g. from a generator
// body). It returns the number of threads still alive (not Finished or
// Faulted) after the tick, and the first error to escape any thread's
// drive step, if any — the error has already fault-disposed its thread;
// Tick itself still advances the remaining threads.
func (e *CoroutineExecutor) Tick(dt time.Duration) (int, error) {
	if dt < 0 {
		return 0, fmt.Errorf("%w: negative elapsed %v", ErrInvalidArgument, dt)
	}
	if e.inTick {
		return 0, fmt.Errorf("%w: reentrant Tick", ErrInvalidState)
	}

	e.inTick = true
	defer func() { e.inTick = false }()

	e.time += dt

	var firstErr error
	alive := 0

	// Classic index loop: threads appended mid-tick (via Parallel or a
	// nested Start call from a generator body) extend len(e.threads) and
	// are therefore driven within this same tick. This is the deterministic
	// choice documented in SPEC_FULL.md for spec.md's mid-tick-append open
	// question.
	for i := 0; i < len(e.threads); i++ {
		th := e.threads[i]
		if th.status == StatusFinished || th.status == StatusFaulted {
			continue
		}

		if err := th.driveStep(dt); err != nil && firstErr == nil {
			firstErr = err
		}

		if th.status != StatusFinished && th.status != StatusFaulted {
			alive++
		}
	}

	return alive, firstErr
}

// Delay returns a generator that yields NullYield while executor.Time() <
// start+d (start captured at the generator's first Advance), then
// completes. It can be Start-ed directly as a top-level thread or yielded
// via the Delay action.
func (e *CoroutineExecutor) Delay(d time.Duration) Generator {
	return newDelayGenerator(e, d)
}

// ParallelGenerator returns a generator equivalent to the Parallel action:
// starting each of gens as an independent top-level thread and joining on
// them. It can be Start-ed directly as a top-level thread or yielded via
// the Parallel action.
func (e *CoroutineExecutor) ParallelGenerator(gens ...Generator) Generator {
	return newParallelGenerator(e, gens)
}

// Finish drives ticks using a wall-clock source, scaling real elapsed time
// by factor (which must be > 0), until a Tick reports zero living threads.
func (e *CoroutineExecutor) Finish(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("%w: non-positive factor %v", ErrInvalidArgument, factor)
	}

	last := time.Now()
	for {
		now := time.Now()
		dt := time.Duration(float64(now.Sub(last)) * factor)
		last = now

		alive, err := e.Tick(dt)
		if err != nil {
			return err
		}
		if alive == 0 {
			return nil
		}
	}
}

// Dispose disposes every remaining thread, in reverse insertion order.
func (e *CoroutineExecutor) Dispose() {
	for i := len(e.threads) - 1; i >= 0; i-- {
		e.threads[i].Dispose(nil)
	}
}

// Capture walks every thread's frame stack (bottom to top) through engine
// and produces an ExecutorSnapshot. It fails with ErrInvalidState if
// called while the executor is mid-Tick.
func (e *CoroutineExecutor) Capture(engine *SnapshotEngine) (ExecutorSnapshot, error) {
	if e.inTick {
		return ExecutorSnapshot{}, fmt.Errorf("%w: cannot capture while executing", ErrInvalidState)
	}

	snap := ExecutorSnapshot{
		Time:    e.time,
		Threads: make([][]FrameSnapshot, 0, len(e.threads)),
	}

	for _, th := range e.threads {
		if th.status == StatusFinished || th.status == StatusFaulted {
			continue
		}

		frames := make([]FrameSnapshot, len(th.stack))
		for i, gen := range th.stack {
			fs, err := engine.Capture(gen)
			if err != nil {
				return ExecutorSnapshot{}, fmt.Errorf("thread %d frame %d: %w", th.id, i, err)
			}
			frames[i] = fs
		}
		snap.Threads = append(snap.Threads, frames)
	}

	return snap, nil
}

// RehydrateExecutor inverts Capture: it builds a fresh executor backed by
// registry and, for each thread list in snap, rehydrates each frame
// through engine and pushes it bottom-up onto a new thread.
func RehydrateExecutor(engine *SnapshotEngine, registry *GeneratorRegistry, snap ExecutorSnapshot) (*CoroutineExecutor, error) {
	e := NewExecutor(registry)
	e.time = snap.Time

	for ti, frames := range snap.Threads {
		if len(frames) == 0 {
			continue
		}

		stack := make([]Generator, len(frames))
		for fi, fs := range frames {
			gen, err := engine.Rehydrate(fs)
			if err != nil {
				return nil, fmt.Errorf("thread %d frame %d: %w", ti, fi, err)
			}
			if b, ok := gen.(executorBound); ok {
				b.bindExecutor(e)
			}
			stack[fi] = gen
		}

		e.nextID++
		e.threads = append(e.threads, &CoroutineThread{
			id:       e.nextID,
			stack:    stack,
			status:   StatusYielded,
			executor: e,
		})
	}

	return e, nil
}
