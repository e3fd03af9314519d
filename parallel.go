package corotick

import "fmt"

// parallelMethodID identifies the built-in generator backing the Parallel
// action.
var parallelMethodID = NewIdentifier("corotick", "parallel")

// parallelGenerator starts each child generator as an independent
// top-level thread on the owning executor, then yields NullYield
// repeatedly until either any child faults or all children finish.
//
// Parallel is a join-point, not an owning scope: if a child faults, the
// remaining children are left running on the executor rather than
// disposed (spec.md §4.5). Full recursive snapshot of an in-flight
// parallelGenerator's child generators is not implemented — children are
// independently snapshottable as their own threads once started; only
// the "started" bookkeeping bit is captured here.
type parallelGenerator struct {
	executor *CoroutineExecutor
	children []Generator
	threads  []*CoroutineThread
	started  bool
	state    int32 // 0 = not started, 1 = running
}

const (
	parallelStateNotStarted int32 = 0
	parallelStateRunning    int32 = 1
)

func newParallelGenerator(e *CoroutineExecutor, children []Generator) *parallelGenerator {
	return &parallelGenerator{executor: e, children: children}
}

func (g *parallelGenerator) MethodID() Identifier { return parallelMethodID }

func (g *parallelGenerator) Current() any { return NullYield }

func (g *parallelGenerator) Advance() (bool, error) {
	if !g.started {
		g.threads = make([]*CoroutineThread, len(g.children))
		for i, child := range g.children {
			th, err := g.executor.Start(child)
			if err != nil {
				return false, err
			}
			g.threads[i] = th
		}
		g.started = true
		g.state = parallelStateRunning
	}

	allFinished := true
	for _, th := range g.threads {
		switch th.Status() {
		case StatusFaulted:
			return false, fmt.Errorf("parallel child thread %d faulted: %w", th.ID(), th.Exception())
		case StatusFinished:
			continue
		default:
			allFinished = false
		}
	}

	if allFinished {
		return false, nil
	}
	return true, nil
}

func (g *parallelGenerator) bindExecutor(e *CoroutineExecutor) { g.executor = e }

var parallelDescriptor = &GeneratorDescriptor{
	ID:           parallelMethodID,
	InitialState: parallelStateNotStarted,
	New:          func() Generator { return &parallelGenerator{} },
	GetState:     func(g Generator) int32 { return g.(*parallelGenerator).state },
	SetState:     func(g Generator, s int32) { g.(*parallelGenerator).state = s },
	Locals: []NamedAccessor{
		{
			Name: "started",
			Get:  func(g Generator) any { return g.(*parallelGenerator).started },
			Set: func(g Generator, v any) error {
				b, ok := v.(bool)
				if !ok {
					return fmt.Errorf("%w: cannot coerce %T to bool", ErrSchemaMismatch, v)
				}
				g.(*parallelGenerator).started = b
				return nil
			},
		},
	},
}

// executorBound is implemented by the built-in generators that hold a back
// reference to their owning executor. RehydrateExecutor uses it to rebind
// rehydrated frames to the new executor instance rather than the stale one
// recorded (implicitly, never serialized) at capture time.
type executorBound interface {
	bindExecutor(*CoroutineExecutor)
}
