// Package registry maps stable extractor-type identifiers to backend
// instances. Construction is deferred: a backend whose optional dependency
// is missing only fails when first requested, with an error naming the
// missing capability. Identifiers are a closed, versioned vocabulary —
// adding a backend adds a key, existing keys are never renamed, because
// callers persist the extractor type they chose.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dgallion1/extractd/internal/extractor"
)

// Factory builds a fully-configured backend. Any fixed configuration (model
// name, credentials) is bound at registration time; callers never pass
// backend-specific configuration through the registry. Factories return
// extractor.ErrBackendUnavailable (wrapped, naming the capability) when
// their dependency is absent.
type Factory func() (extractor.Extractor, error)

type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]extractor.Extractor
	log       *slog.Logger
}

func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]extractor.Extractor),
		log:       log,
	}
}

// Register maps name to a factory. Re-registering a name replaces the
// factory and drops any cached instance.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.instances, name)
}

// Resolve returns the backend instance for name, constructing it on first
// use. Successful constructions are cached; failed ones are not, so a
// dependency that appears later (a binary installed, a credential set) is
// picked up on the next request.
func (r *Registry) Resolve(name string) (extractor.Extractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[name]; ok {
		return inst, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", extractor.ErrUnknownBackend, name)
	}

	inst, err := f()
	if err != nil {
		r.log.Warn("backend construction failed", "backend", name, "error", err)
		return nil, err
	}
	r.instances[name] = inst
	r.log.Debug("backend constructed", "backend", name, "mode", inst.Describe().Mode)
	return inst, nil
}

// jobSweeper is implemented by backends that track asynchronous jobs and
// can evict expired ones.
type jobSweeper interface {
	CleanupJobs()
}

// Cleanup sweeps expired jobs on every constructed backend that tracks
// them. Called periodically by the service loop.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if sw, ok := inst.(jobSweeper); ok {
			sw.CleanupJobs()
		}
	}
}

// Names lists the registered identifiers, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
