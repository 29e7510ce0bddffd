// Package registry collects build definitions' targets through explicit
// Register() calls into the in-memory target.Build model, rejecting
// duplicate or reserved names before planning ever begins.
package registry

import (
	"sync"

	"github.com/forgehq/forge/internal/domain/target"
)

// Registry accumulates targets declared by a build definition into a
// target.Build aggregate. Unlike the source tool's attribute-scanning
// discovery, registration here is explicit: a build definition calls
// Register for every target it declares.
type Registry struct {
	mu    sync.Mutex
	build *target.Build
}

// New creates a Registry backed by a fresh, empty build named name.
func New(name string) *Registry {
	return &Registry{build: target.NewBuild(name)}
}

// Register appends t to the underlying build. Safe for concurrent use,
// though build definitions are expected to register targets sequentially
// during construction.
func (r *Registry) Register(t *target.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.build.Register(t)
}

// Build finalizes registration and validates the aggregate build: no
// duplicate case-insensitive names, no reserved-name misuse, at most one
// default target, and an acyclic dependency graph. The registry must not be
// used for further registration after calling Build.
func (r *Registry) Build() (*target.Build, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.build.Validate(); err != nil {
		return nil, err
	}
	return r.build, nil
}
