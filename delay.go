package corotick

import "time"

// delayMethodID identifies the built-in generator backing both the Delay
// action and CoroutineExecutor.Delay.
var delayMethodID = NewIdentifier("corotick", "delay")

// delayGenerator yields NullYield until the executor's clock reaches a
// deadline computed from the executor's time at first advance ("enumeration
// start", per spec.md §4.5), then completes.
type delayGenerator struct {
	executor *CoroutineExecutor
	duration time.Duration
	end      time.Duration
	state    int32 // 0 = not started, 1 = running, 2 = done
}

const (
	delayStateNotStarted int32 = 0
	delayStateRunning    int32 = 1
	delayStateDone       int32 = 2
)

func newDelayGenerator(e *CoroutineExecutor, d time.Duration) *delayGenerator {
	return &delayGenerator{executor: e, duration: d, state: delayStateNotStarted}
}

func (g *delayGenerator) MethodID() Identifier { return delayMethodID }

func (g *delayGenerator) Current() any { return NullYield }

func (g *delayGenerator) Advance() (bool, error) {
	switch g.state {
	case delayStateNotStarted:
		g.end = g.executor.time + g.duration
		g.state = delayStateRunning
		return true, nil

	case delayStateRunning:
		if g.executor.time < g.end {
			return true, nil
		}
		g.state = delayStateDone
		return false, nil

	default:
		return false, nil
	}
}

func (g *delayGenerator) bindExecutor(e *CoroutineExecutor) { g.executor = e }

var delayDescriptor = &GeneratorDescriptor{
	ID:           delayMethodID,
	InitialState: delayStateNotStarted,
	New:          func() Generator { return &delayGenerator{} },
	GetState:     func(g Generator) int32 { return g.(*delayGenerator).state },
	SetState:     func(g Generator, s int32) { g.(*delayGenerator).state = s },
	Args: []NamedAccessor{
		{
			Name: "duration",
			Get:  func(g Generator) any { return g.(*delayGenerator).duration },
			Set: func(g Generator, v any) error {
				n, err := CoerceInt64(v)
				if err != nil {
					return err
				}
				g.(*delayGenerator).duration = time.Duration(n)
				return nil
			},
		},
	},
	Locals: []NamedAccessor{
		{
			Name: "end",
			Get:  func(g Generator) any { return g.(*delayGenerator).end },
			Set: func(g Generator, v any) error {
				n, err := CoerceInt64(v)
				if err != nil {
					return err
				}
				g.(*delayGenerator).end = time.Duration(n)
				return nil
			},
		},
	},
}
