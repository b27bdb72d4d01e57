// Package events provides process-wide listener registries whose
// subscriptions are held as leases. A lease is released exactly once no
// matter how many exit paths call Release.
package events

import "sync"

// Registry delivers events of type E to the currently registered listeners.
// Listeners are keyed by owner so registering the same owner twice replaces
// the earlier handler instead of stacking a second one.
type Registry[E any] struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string]entry[E]
}

type entry[E any] struct {
	gen uint64
	fn  func(E)
}

// NewRegistry returns an empty registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{entries: make(map[string]entry[E])}
}

// Acquire registers fn under owner and returns the lease that removes it.
func (r *Registry[E]) Acquire(owner string, fn func(E)) *Lease {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	gen := r.seq
	r.entries[owner] = entry[E]{gen: gen, fn: fn}

	return &Lease{release: func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// A newer Acquire for the same owner owns the slot now.
		if cur, ok := r.entries[owner]; ok && cur.gen == gen {
			delete(r.entries, owner)
		}
	}}
}

// Dispatch calls every listener with ev. Listeners run outside the registry
// lock and may release their own lease.
func (r *Registry[E]) Dispatch(ev E) {
	r.mu.Lock()
	fns := make([]func(E), 0, len(r.entries))
	for _, e := range r.entries {
		fns = append(fns, e.fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of live listeners.
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Has reports whether owner currently holds a listener.
func (r *Registry[E]) Has(owner string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[owner]
	return ok
}

// Lease is a held listener registration.
type Lease struct {
	once    sync.Once
	release func()
}

// Release removes the listener. Calling it more than once, or on a nil
// lease, is a no-op.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(l.release)
}
