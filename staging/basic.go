// basic.go
//
// Monitor-style variant: one sync.Mutex guards the whole core, including
// the wrong-side cursor read during the space computation.  Push never
// blocks; it reports false and leaves retry policy to the caller.

package staging

import "sync"

// Basic is the mutex-guarded staging buffer.
type Basic struct {
	mu sync.Mutex
	core
}

// NewBasic allocates a Basic buffer of the given byte capacity.
func NewBasic(id uint32, size int) *Basic {
	return &Basic{core: newCore(id, size)}
}

// Push copies p into the buffer, returning false when it does not fit.
func (b *Basic) Push(p []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tryPush(p)
}

// Peek returns the contiguous readable region and its length.
func (b *Basic) Peek() ([]byte, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peek()
}

// Pop releases n bytes back to the producer.
func (b *Basic) Pop(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release(n)
}
