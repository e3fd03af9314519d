package corotick

import "fmt"

// NamedAccessor is a getter/setter pair for one named argument or hoisted
// local on a generator frame. Set must reject a value it cannot represent
// with ErrSchemaMismatch rather than assume the caller's concrete type —
// a value arriving via Rehydrate may have passed through a serializer
// (encoding/json, gopkg.in/yaml.v3) that re-typed it, e.g. a time.Duration
// local coming back as float64.
type NamedAccessor struct {
	Name string
	Get  func(Generator) any
	Set  func(Generator, any) error
}

// GeneratorDescriptor is the per-method metadata a host registers so a
// generator's state can be externalized and rebuilt without privileged
// reflection tricks. The registry is the sole mediator between the
// SnapshotEngine and a generator's actual field layout: capture and
// rehydrate both go exclusively through the closures here.
type GeneratorDescriptor struct {
	// ID is this descriptor's registry key.
	ID Identifier

	// InitialState is the program-counter sentinel a freshly constructed,
	// never-advanced generator reports. SnapshotEngine.Capture rejects
	// generators still at this state.
	InitialState int32

	// New is a zero-argument factory producing a not-started generator of
	// this method, at InitialState.
	New func() Generator

	// GetState/SetState read and write the program-counter field.
	GetState func(Generator) int32
	SetState func(Generator, int32)

	// GetCurrent/SetCurrent read and write the last-yielded-value field.
	// If GetCurrent is nil, Generator.Current is used instead. SetCurrent
	// follows the same ErrSchemaMismatch-on-unrepresentable-value contract
	// as NamedAccessor.Set.
	GetCurrent func(Generator) any
	SetCurrent func(Generator, any) error

	// GetReceiver/SetReceiver read and write the optional capturing
	// instance. Both may be nil for generators with no receiver.
	GetReceiver func(Generator) any
	SetReceiver func(Generator, any) error

	// Args and Locals declare the named argument and hoisted-variable
	// accessors. Order is insignificant; lookup is by Name.
	Args   []NamedAccessor
	Locals []NamedAccessor
}

func (d *GeneratorDescriptor) getCurrent(gen Generator) any {
	if d.GetCurrent != nil {
		return d.GetCurrent(gen)
	}
	return gen.Current()
}

func findAccessor(accessors []NamedAccessor, name string) (NamedAccessor, bool) {
	for _, a := range accessors {
		if a.Name == name {
			return a, true
		}
	}
	return NamedAccessor{}, false
}

// Introspect reads (state, current, receiver, args, locals) from a live
// generator via the registered accessors.
func (d *GeneratorDescriptor) Introspect(gen Generator) FrameSnapshot {
	snap := FrameSnapshot{
		MethodID: d.ID,
		State:    d.GetState(gen),
		Current:  d.getCurrent(gen),
		Args:     make(map[string]any, len(d.Args)),
		Locals:   make(map[string]any, len(d.Locals)),
	}
	if d.GetReceiver != nil {
		snap.Receiver = d.GetReceiver(gen)
	}
	for _, a := range d.Args {
		snap.Args[a.Name] = a.Get(gen)
	}
	for _, a := range d.Locals {
		snap.Locals[a.Name] = a.Get(gen)
	}
	return snap
}

// Instantiate builds a fresh generator seeded with the fields captured in
// snap. Unknown argument/local keys are silently dropped unless strict is
// true, in which case the first unknown key produces ErrSchemaMismatch.
func (d *GeneratorDescriptor) Instantiate(snap FrameSnapshot, strict bool) (Generator, error) {
	gen := d.New()
	d.SetState(gen, snap.State)
	if d.SetCurrent != nil {
		if err := d.SetCurrent(gen, snap.Current); err != nil {
			return nil, fmt.Errorf("current: %w", err)
		}
	}
	if snap.Receiver != nil && d.SetReceiver != nil {
		if err := d.SetReceiver(gen, snap.Receiver); err != nil {
			return nil, fmt.Errorf("receiver: %w", err)
		}
	}

	if err := applyNamed(gen, d.Args, snap.Args, strict); err != nil {
		return nil, err
	}
	if err := applyNamed(gen, d.Locals, snap.Locals, strict); err != nil {
		return nil, err
	}

	return gen, nil
}

func applyNamed(gen Generator, accessors []NamedAccessor, values map[string]any, strict bool) error {
	for name, value := range values {
		accessor, ok := findAccessor(accessors, name)
		if !ok {
			if strict {
				return fmt.Errorf("%w: unrecognized field %q", ErrSchemaMismatch, name)
			}
			continue
		}
		if err := accessor.Set(gen, value); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}
