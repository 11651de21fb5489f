// Package plugin implements a name-keyed registry of graphrt.Node
// builders, generalized from the teacher's pkg/core/plugin.Registry
// (which keyed arbitrary Plugin builders for the robot pipeline) to this
// module's single plugin kind: pipeline nodes.
package plugin

import (
	"fmt"
	"sync"

	"github.com/lartpc-toolkit/wctgo/pkg/graphrt"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
	"github.com/lartpc-toolkit/wctgo/x/options"
)

// Builder constructs a configured graphrt.Node from functional options,
// matching the teacher's plugin.Builder shape.
type Builder func(opts ...options.Option) (graphrt.Node, error)

// Registry is a concurrency-safe name->Builder map.
type Registry struct {
	mutex    sync.RWMutex
	builders map[string]Builder
}

// Global is the package-level registry components register into at
// init time, matching the teacher's plugin.Global convention.
var Global = New()

// New returns an empty Registry.
func New() *Registry {
	return &Registry{builders: map[string]Builder{}}
}

// Register adds builder under name, raising ValueError if name is
// already registered.
func (r *Registry) Register(name string, builder Builder) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.builders[name]; ok {
		return fmt.Errorf("plugin: Register %q: %w: already registered", name, wcterr.ErrValue)
	}
	r.builders[name] = builder
	return nil
}

// Unregister removes name, if present; a no-op otherwise.
func (r *Registry) Unregister(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.builders, name)
}

// New builds a fresh Node from the builder registered under name,
// raising IndexError if no such builder is registered.
func (r *Registry) New(name string, opts ...options.Option) (graphrt.Node, error) {
	r.mutex.RLock()
	build, ok := r.builders[name]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("plugin: New %q: %w: not registered", name, wcterr.ErrIndex)
	}
	return build(opts...)
}

// Names returns every registered builder name, in no particular order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]string, 0, len(r.builders))
	for name := range r.builders {
		out = append(out, name)
	}
	return out
}

// ForEach invokes f once per registered (name, builder) pair.
func (r *Registry) ForEach(f func(name string, b Builder)) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for name, b := range r.builders {
		f(name, b)
	}
}
