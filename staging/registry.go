// registry.go
//
// Process-wide tracking of live Separated buffers.  Producers register
// their buffer at construction; the draining thread snapshots the set,
// walks it for work, and reaps entries whose producer has retired and
// whose bytes are fully drained.  The registry holds non-owning
// references only; storage lifetime is decided by CheckCanDelete.

package staging

import "sync"

// Registry tracks the Separated buffers a single consumer drains.
type Registry struct {
	mu   sync.Mutex
	bufs []*Separated
}

// Register adds b to the live set.
func (r *Registry) Register(b *Separated) {
	r.mu.Lock()
	r.bufs = append(r.bufs, b)
	r.mu.Unlock()
}

// Snapshot appends the current live set to dst and returns it.  Passing a
// reused slice keeps the consumer's polling loop allocation-free.
func (r *Registry) Snapshot(dst []*Separated) []*Separated {
	r.mu.Lock()
	dst = append(dst[:0], r.bufs...)
	r.mu.Unlock()
	return dst
}

// Reap removes every buffer that is retired and fully drained, returning
// how many were dropped.  Only the consuming side should call this; it is
// the deletion step CheckCanDelete exists to authorize.
func (r *Registry) Reap() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.bufs[:0]
	for _, b := range r.bufs {
		if !b.CheckCanDelete() {
			kept = append(kept, b)
		}
	}
	reaped := len(r.bufs) - len(kept)
	// Clear the tail so reaped buffers become collectable.
	for i := len(kept); i < len(r.bufs); i++ {
		r.bufs[i] = nil
	}
	r.bufs = kept
	return reaped
}

// Len reports the number of live buffers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bufs)
}
