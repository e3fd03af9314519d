package corotick

import (
	"fmt"
	"time"
)

// FrameSnapshot is a neutral, serializer-agnostic record of one suspended
// generator frame: its method identity, program-counter state, last
// yielded value, optional capturing receiver, and named arguments/locals.
//
// Value fields (Current, Receiver, and the map values) are opaque payloads
// from the core's point of view; a serializer collaborator is responsible
// for mapping them to bytes.
type FrameSnapshot struct {
	MethodID Identifier
	State    int32
	Current  any
	Receiver any
	Args     map[string]any
	Locals   map[string]any
}

// ExecutorSnapshot captures an entire CoroutineExecutor: its clock and
// every thread's frame stack, bottom frame first.
type ExecutorSnapshot struct {
	Time    time.Duration
	Threads [][]FrameSnapshot
}

// SnapshotEngine converts live generators to and from FrameSnapshot records
// via a GeneratorRegistry. Two options control capture/rehydrate policy:
// WithStrictSchema rejects unrecognized argument/local names instead of
// dropping them, and WithNeverAdvancedCapture permits capturing a
// not-yet-advanced generator (returning Current = nil) instead of
// rejecting it.
type SnapshotEngine struct {
	registry            *GeneratorRegistry
	strict              bool
	allowNeverAdvanced  bool
}

// SnapshotOption configures a SnapshotEngine.
type SnapshotOption func(*SnapshotEngine)

// WithStrictSchema makes Rehydrate fail with ErrSchemaMismatch on any
// argument/local name the target descriptor does not recognize, instead
// of silently dropping it (the default, tolerant behavior).
func WithStrictSchema() SnapshotOption {
	return func(e *SnapshotEngine) { e.strict = true }
}

// WithNeverAdvancedCapture makes Capture accept a generator still at its
// descriptor's InitialState, returning a snapshot with Current == nil,
// instead of the default of rejecting it with ErrInvalidState.
func WithNeverAdvancedCapture() SnapshotOption {
	return func(e *SnapshotEngine) { e.allowNeverAdvanced = true }
}

// NewSnapshotEngine creates a SnapshotEngine backed by registry.
func NewSnapshotEngine(registry *GeneratorRegistry, opts ...SnapshotOption) *SnapshotEngine {
	e := &SnapshotEngine{registry: registry}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Capture converts a live generator into a FrameSnapshot. It fails with
// ErrUnknownGenerator if gen's MethodID has no registered descriptor, and
// with ErrInvalidState if gen has never been advanced (unless the engine
// was built WithNeverAdvancedCapture).
func (e *SnapshotEngine) Capture(gen Generator) (FrameSnapshot, error) {
	if gen == nil {
		return FrameSnapshot{}, fmt.Errorf("%w: nil generator", ErrInvalidArgument)
	}

	desc, err := e.registry.Lookup(gen.MethodID())
	if err != nil {
		return FrameSnapshot{}, err
	}

	snap := desc.Introspect(gen)
	if snap.State == desc.InitialState {
		if !e.allowNeverAdvanced {
			return FrameSnapshot{}, fmt.Errorf("%w: generator %s has never been advanced", ErrInvalidState, gen.MethodID())
		}
		snap.Current = nil
	}

	return snap, nil
}

// Rehydrate builds a fresh generator from snap via its registered
// descriptor's Instantiate. It fails with ErrUnknownGenerator if
// snap.MethodID is unregistered, and with ErrSchemaMismatch in strict mode
// if an argument/local name is unrecognized.
func (e *SnapshotEngine) Rehydrate(snap FrameSnapshot) (Generator, error) {
	desc, err := e.registry.Lookup(snap.MethodID)
	if err != nil {
		return nil, err
	}

	return desc.Instantiate(snap, e.strict)
}
