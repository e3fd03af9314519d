package corotick

import (
	"fmt"
	"sync"
)

// GeneratorRegistry is the catalog of GeneratorDescriptors keyed by
// Identifier. It is the sole source of truth the SnapshotEngine consults:
// it never reasons about a generator's internal layout directly.
//
// Registration is expected to happen once per method, typically at program
// init, but the registry itself is safe for concurrent Register/Lookup
// calls from multiple goroutines (the coroutines it describes are not).
type GeneratorRegistry struct {
	mu          sync.RWMutex
	descriptors map[Identifier]*GeneratorDescriptor
}

// NewGeneratorRegistry creates an empty registry.
func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{descriptors: make(map[Identifier]*GeneratorDescriptor)}
}

// Register binds d under d.ID. It fails with ErrDuplicateDescriptor if that
// identifier is already bound.
func (r *GeneratorRegistry) Register(d *GeneratorDescriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDescriptor, d.ID)
	}
	r.descriptors[d.ID] = d

	return nil
}

// registerIfAbsent registers d unless its ID is already bound, in which
// case it is a silent no-op. Used to seed built-in descriptors (Delay,
// Parallel) into a registry that may already be shared across executors.
func (r *GeneratorRegistry) registerIfAbsent(d *GeneratorDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.ID]; exists {
		return
	}
	r.descriptors[d.ID] = d
}

// Lookup returns the descriptor bound to id, or ErrUnknownGenerator.
func (r *GeneratorRegistry) Lookup(id Identifier) (*GeneratorDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, id)
	}

	return d, nil
}
