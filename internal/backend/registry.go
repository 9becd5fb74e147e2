// Package backend provides the name-keyed registry shared by the compression
// and pickler backend tables.
package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/discochess/picklejar/internal/jarerr"
)

// Descriptor describes one registrable backend.
type Descriptor interface {
	// Names returns the canonical name followed by any aliases.
	Names() []string
	// Extensions returns the file extensions claimed by the backend, canonical
	// first. Backends with no file association return nil.
	Extensions() []string
	// Probe reports whether the backend's underlying library is usable.
	Probe() error
}

// Entry is a diagnostic snapshot of one registered backend.
type Entry struct {
	Name       string
	Aliases    []string
	Extensions []string
	Available  bool
}

type entry[D Descriptor] struct {
	desc      D
	available atomic.Bool
}

func (e *entry[D]) name() string { return e.desc.Names()[0] }

// Registry maps backend names, aliases and extensions to descriptors.
// Lookups are safe for concurrent use. Register and SetAvailable are meant
// for process start-up and tests.
type Registry[D Descriptor] struct {
	kind string

	mu     sync.RWMutex
	order  []*entry[D]
	byName map[string]*entry[D]
	byExt  map[string]*entry[D]
}

// NewRegistry returns an empty registry. kind names the backend family in
// error messages ("compression", "pickler").
func NewRegistry[D Descriptor](kind string) *Registry[D] {
	return &Registry[D]{
		kind:   kind,
		byName: make(map[string]*entry[D]),
		byExt:  make(map[string]*entry[D]),
	}
}

// Kind returns the backend family name.
func (r *Registry[D]) Kind() string {
	return r.kind
}

// Register adds d. It fails with ErrConfiguration if any of its names or
// extensions is already claimed. The availability flag is computed once here.
func (r *Registry[D]) Register(d D) error {
	names := d.Names()
	if len(names) == 0 || names[0] == "" {
		return fmt.Errorf("%w: %s backend without a name", jarerr.ErrConfiguration, r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: %s backend %q has an empty alias", jarerr.ErrConfiguration, r.kind, names[0])
		}
		if _, ok := r.byName[n]; ok || seen[n] {
			return fmt.Errorf("%w: %s name %q already registered", jarerr.ErrConfiguration, r.kind, n)
		}
		seen[n] = true
	}
	exts := make(map[string]bool)
	for _, ext := range d.Extensions() {
		key := strings.ToLower(ext)
		if key == "" || strings.HasPrefix(key, ".") {
			return fmt.Errorf("%w: %s backend %q has invalid extension %q", jarerr.ErrConfiguration, r.kind, names[0], ext)
		}
		if owner, ok := r.byExt[key]; ok {
			return fmt.Errorf("%w: extension %q already claimed by %s backend %q",
				jarerr.ErrConfiguration, ext, r.kind, owner.name())
		}
		if exts[key] {
			return fmt.Errorf("%w: %s backend %q lists extension %q twice", jarerr.ErrConfiguration, r.kind, names[0], ext)
		}
		exts[key] = true
	}

	e := &entry[D]{desc: d}
	e.available.Store(d.Probe() == nil)

	for _, n := range names {
		r.byName[n] = e
	}
	for ext := range exts {
		r.byExt[ext] = e
	}
	r.order = append(r.order, e)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// building the built-in tables.
func (r *Registry[D]) MustRegister(d D) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under name, available or not.
func (r *Registry[D]) Lookup(name string) (D, error) {
	e, err := r.find(name)
	if err != nil {
		var zero D
		return zero, err
	}
	return e.desc, nil
}

// Resolve returns the descriptor registered under name if it is currently
// available. Unknown names fail with ErrUnknownBackend, known but unusable
// ones with ErrBackendUnavailable.
func (r *Registry[D]) Resolve(name string) (D, error) {
	var zero D
	e, err := r.find(name)
	if err != nil {
		return zero, err
	}
	if !e.available.Load() {
		return zero, fmt.Errorf("%w: %s backend %q", jarerr.ErrBackendUnavailable, r.kind, e.name())
	}
	return e.desc, nil
}

// ByExtension returns the backend claiming ext (without the dot).
// Matching is case-insensitive.
func (r *Registry[D]) ByExtension(ext string) (D, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		var zero D
		return zero, false
	}
	return e.desc, true
}

// Names returns every registered name and alias, sorted, regardless of
// availability.
func (r *Registry[D]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Available reports the current availability flag of name.
func (r *Registry[D]) Available(name string) (bool, error) {
	e, err := r.find(name)
	if err != nil {
		return false, err
	}
	return e.available.Load(), nil
}

// SetAvailable overrides the availability flag of name.
// Not safe to race with itself from several goroutines on the same name.
func (r *Registry[D]) SetAvailable(name string, ok bool) error {
	e, err := r.find(name)
	if err != nil {
		return err
	}
	e.available.Store(ok)
	return nil
}

// Recheck re-runs the probe of name and stores the result.
func (r *Registry[D]) Recheck(name string) (bool, error) {
	e, err := r.find(name)
	if err != nil {
		return false, err
	}
	ok := e.desc.Probe() == nil
	e.available.Store(ok)
	return ok, nil
}

// Entries returns a snapshot of the registry in registration order.
func (r *Registry[D]) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, e := range r.order {
		names := e.desc.Names()
		out = append(out, Entry{
			Name:       names[0],
			Aliases:    append([]string(nil), names[1:]...),
			Extensions: append([]string(nil), e.desc.Extensions()...),
			Available:  e.available.Load(),
		})
	}
	return out
}

func (r *Registry[D]) find(name string) (*entry[D], error) {
	r.mu.RLock()
	e, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s %q (known: %s)",
			jarerr.ErrUnknownBackend, r.kind, name, strings.Join(r.Names(), ", "))
	}
	return e, nil
}
