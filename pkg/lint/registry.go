package lint

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/config"
)

var (
	// ErrNoEntryPoint is returned when a cop implements none of the
	// checker interfaces.
	ErrNoEntryPoint = errors.New("cop implements no check entry point")

	// ErrDuplicateCop is returned when a cop name is registered twice.
	ErrDuplicateCop = errors.New("cop already registered")
)

// Registry holds all registered cops, indexed by name and by the node
// kinds they are interested in.
type Registry struct {
	mu     sync.RWMutex
	cops   []Cop
	byName map[string]int
	byKind [256][]int
	depts  map[string]bool
}

// NewRegistry creates an empty cop registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]int),
		depts:  make(map[string]bool),
	}
}

// Register adds a cop to the registry.
func (r *Registry) Register(cop Cop) error {
	lines, nodes, src := capabilities(cop)
	if !lines && !nodes && !src {
		return fmt.Errorf("%s: %w", cop.Name(), ErrNoEntryPoint)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[cop.Name()]; exists {
		return fmt.Errorf("%s: %w", cop.Name(), ErrDuplicateCop)
	}

	idx := len(r.cops)
	r.cops = append(r.cops, cop)
	r.byName[cop.Name()] = idx
	r.depts[config.Department(cop.Name())] = true

	if nc, ok := cop.(NodeChecker); ok {
		var seen ast.KindSet
		for _, kind := range nc.InterestedNodeTypes() {
			if seen.Has(kind) {
				continue
			}
			seen.Add(kind)
			r.byKind[kind] = append(r.byKind[kind], idx)
		}
	}
	return nil
}

// MustRegister registers cops and panics on error. It is meant for
// built-in registration at startup.
func (r *Registry) MustRegister(cops ...Cop) {
	for _, cop := range cops {
		if err := r.Register(cop); err != nil {
			panic(err)
		}
	}
}

// Get retrieves a cop by name.
func (r *Registry) Get(name string) (Cop, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.cops[idx], true
}

// Has reports whether a cop is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Cops returns all cops in registration order.
func (r *Registry) Cops() []Cop {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.cops)
}

// Len returns the number of registered cops.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cops)
}

// Names returns all cop names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Departments returns the departments of registered cops, sorted.
func (r *Registry) Departments() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	depts := make([]string, 0, len(r.depts))
	for dept := range r.depts {
		depts = append(depts, dept)
	}
	slices.Sort(depts)
	return depts
}

// HasDepartment reports whether any registered cop belongs to dept.
func (r *Registry) HasDepartment(dept string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.depts[dept]
}

// ForKind returns the registration indices of cops interested in kind.
// The returned slice must not be modified.
func (r *Registry) ForKind(kind ast.Kind) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKind[kind]
}

// dispatch is an immutable view of the registry used for one file.
type dispatch struct {
	cops   []Cop
	byKind [256][]int
}

func (r *Registry) snapshot() dispatch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return dispatch{cops: r.cops[:len(r.cops):len(r.cops)], byKind: r.byKind}
}

// DefaultRegistry is the global registry for built-in cops.
// It is populated by cops.RegisterAll.
//
//nolint:gochecknoglobals // Global registry is intentional for cop registration
var DefaultRegistry = NewRegistry()
