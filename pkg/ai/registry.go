package ai

import (
	"sort"
	"sync"

	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/entities"
)

// Factory builds a brain, handing it the shared decision history
type Factory func(history History) Brain

// Registry maps difficulties to brain factories
type Registry struct {
	factories map[entities.Difficulty]Factory
	history   History
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry whose brains learn from history
func NewRegistry(history History) *Registry {
	return &Registry{
		factories: make(map[entities.Difficulty]Factory),
		history:   history,
	}
}

// NewDefaultRegistry creates a registry with the easy, medium and hard tiers
func NewDefaultRegistry(history History) *Registry {
	r := NewRegistry(history)
	r.factories[entities.Easy] = func(History) Brain { return NewEasyBrain() }
	r.factories[entities.Medium] = func(History) Brain { return NewMediumBrain() }
	r.factories[entities.Hard] = func(h History) Brain { return NewHardBrain(h) }
	return r
}

// Register adds a factory for difficulty
func (r *Registry) Register(difficulty entities.Difficulty, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[difficulty]; exists {
		return types.Errorf(types.ErrInvalidArgument, "difficulty %s is already registered", difficulty)
	}

	r.factories[difficulty] = factory
	return nil
}

// Brain returns a brain for difficulty
func (r *Registry) Brain(difficulty entities.Difficulty) (Brain, error) {
	r.mu.RLock()
	factory, exists := r.factories[difficulty]
	r.mu.RUnlock()

	if !exists {
		return nil, types.Errorf(types.ErrInvalidArgument, "unknown difficulty %q", difficulty)
	}
	return factory(r.history), nil
}

// Has reports whether a brain is registered for difficulty
func (r *Registry) Has(difficulty entities.Difficulty) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[difficulty]
	return exists
}

// Difficulties lists the registered difficulties in sorted order
func (r *Registry) Difficulties() []entities.Difficulty {
	r.mu.RLock()
	defer r.mu.RUnlock()

	difficulties := make([]entities.Difficulty, 0, len(r.factories))
	for d := range r.factories {
		difficulties = append(difficulties, d)
	}
	sort.Slice(difficulties, func(i, j int) bool { return difficulties[i] < difficulties[j] })
	return difficulties
}
