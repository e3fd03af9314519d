package corotick

import "time"

// ScriptBuilder assembles a fixed, ordered sequence of steps into a
// Generator using a fluent API, the same way the teacher's fluent builders
// assemble a configuration by chaining calls that each return the builder.
// A built script's progress is just a step index, so GeneratorDescriptor
// bookkeeping is derived automatically rather than hand-written.
type ScriptBuilder struct {
	id    Identifier
	steps []scriptStep
}

type scriptStep struct {
	action func() CoroutineAction
}

// NewScript starts a builder for a script identified by namespace/name.
// The identifier is what the script's Generators report from MethodID and
// is what a GeneratorRegistry indexes its GeneratorDescriptor under.
func NewScript(namespace, name string) *ScriptBuilder {
	return &ScriptBuilder{id: NewIdentifier(namespace, name)}
}

// Yield appends a bare NullYield step: the script suspends for exactly one
// tick without otherwise acting.
func (b *ScriptBuilder) Yield() *ScriptBuilder {
	return b.step(func() CoroutineAction { return NullYield })
}

// Delay appends a step that suspends the script for d before continuing.
func (b *ScriptBuilder) Delay(d time.Duration) *ScriptBuilder {
	return b.step(func() CoroutineAction { return Delay(d) })
}

// Run appends a step that nests gen as a child frame, resuming the script
// once gen completes.
func (b *ScriptBuilder) Run(gen Generator) *ScriptBuilder {
	return b.step(func() CoroutineAction { return Nested(gen) })
}

// RunAll appends a step that runs every generator in gens concurrently,
// resuming the script once all of them complete.
func (b *ScriptBuilder) RunAll(gens ...Generator) *ScriptBuilder {
	return b.step(func() CoroutineAction { return Parallel(gens...) })
}

// After is shorthand for Delay(d).Run(gen).
func (b *ScriptBuilder) After(d time.Duration, gen Generator) *ScriptBuilder {
	return b.Delay(d).Run(gen)
}

// Return appends a step that yields value through the transient Result
// slot and completes the script.
func (b *ScriptBuilder) Return(value any) *ScriptBuilder {
	return b.step(func() CoroutineAction { return Result(value) })
}

// Repeat calls inner n times against this builder, useful for steps that
// are themselves repetitive (e.g. a fixed polling cadence).
func (b *ScriptBuilder) Repeat(n int, inner func(*ScriptBuilder)) *ScriptBuilder {
	for i := 0; i < n; i++ {
		inner(b)
	}
	return b
}

func (b *ScriptBuilder) step(action func() CoroutineAction) *ScriptBuilder {
	b.steps = append(b.steps, scriptStep{action: action})
	return b
}

// Build finalizes the script into a fresh Generator instance. It may be
// called more than once to start independent concurrent runs of the same
// script.
func (b *ScriptBuilder) Build() Generator {
	return &scriptProgram{id: b.id, steps: b.steps}
}

// Descriptor returns the GeneratorDescriptor for this script's identifier,
// for registration with a GeneratorRegistry so running instances can be
// captured and rehydrated.
func (b *ScriptBuilder) Descriptor() *GeneratorDescriptor {
	id := b.id
	steps := b.steps
	return &GeneratorDescriptor{
		ID:           id,
		InitialState: 0,
		New:          func() Generator { return &scriptProgram{id: id, steps: steps} },
		GetState:     func(g Generator) int32 { return int32(g.(*scriptProgram).pos) },
		SetState:     func(g Generator, s int32) { g.(*scriptProgram).pos = int(s) },
	}
}

// scriptProgram is the Generator produced by ScriptBuilder.Build. Its state
// is the index of the last step executed; Current reports the action that
// step just produced, matching the convention every hand-written generator
// in this package follows.
type scriptProgram struct {
	id    Identifier
	steps []scriptStep
	pos   int
}

func (p *scriptProgram) MethodID() Identifier { return p.id }

func (p *scriptProgram) Current() any {
	if p.pos == 0 || p.pos > len(p.steps) {
		return NullYield
	}
	return p.steps[p.pos-1].action()
}

func (p *scriptProgram) Advance() (bool, error) {
	if p.pos >= len(p.steps) {
		return false, nil
	}
	p.pos++
	return true, nil
}
