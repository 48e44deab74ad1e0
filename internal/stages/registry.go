// Package stages holds the named middleware the mwrun host can put in a
// pipeline.
package stages

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ib-77/mwutil/internal/document"
	"github.com/ib-77/mwutil/pkg/mw"
)

type Stage = mw.Func[*document.Document]

var (
	ErrUnknownStage   = errors.New("unknown stage")
	ErrDuplicateStage = errors.New("stage already registered")
	ErrStageName      = errors.New("stage name must not be empty")
)

type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
}

func NewRegistry() *Registry {
	return &Registry{stages: map[string]Stage{}}
}

// Default returns a registry with every built-in stage.
func Default() *Registry {
	r := NewRegistry()
	for name, fn := range builtins() {
		r.MustRegister(name, fn)
	}
	return r
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn Stage) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

func (r *Registry) Register(name string, fn Stage) error {
	if name == "" {
		return ErrStageName
	}
	if fn == nil {
		return fmt.Errorf("register %s: %w", name, mw.ErrNilMiddleware)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stages[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStage, name)
	}
	r.stages[name] = fn
	return nil
}

func (r *Registry) Lookup(name string) (Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.stages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}
	return fn, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stages))
	for name := range r.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
