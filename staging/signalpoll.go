// signalpoll.go
//
// Blocking variant: the producer sleeps on "consumedSome" while the ring
// is too full for its record, and the consumer sleeps on "producedSome"
// while fewer bytes are readable than it wants to release.  Both waits
// re-check their predicate on every wake, which covers spurious wakeups.
// Unlike Basic and SpinLock there is no failure path; Push always
// succeeds eventually, so the consumer itself becomes a blocking
// operation.

package staging

import "sync"

// SignalPoll is the condition-variable staging buffer.
type SignalPoll struct {
	mu           sync.Mutex
	consumedSome *sync.Cond // signaled after Pop frees space
	producedSome *sync.Cond // signaled after Push lands data
	core
}

// NewSignalPoll allocates a SignalPoll buffer of the given byte capacity.
func NewSignalPoll(id uint32, size int) *SignalPoll {
	s := &SignalPoll{core: newCore(id, size)}
	s.consumedSome = sync.NewCond(&s.mu)
	s.producedSome = sync.NewCond(&s.mu)
	return s
}

// Push copies p into the buffer, sleeping until it fits.  Each failed
// attempt still commits the roll-over marker, so a wrapped writer stays
// wrapped across waits.  Always returns true.
func (s *SignalPoll) Push(p []byte) bool {
	if len(p) > s.Capacity() {
		panic("staging: record larger than buffer capacity")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.tryPush(p) {
		s.consumedSome.Wait()
	}

	s.producedSome.Signal()
	return true
}

// Peek returns the contiguous readable region and its length.
func (s *SignalPoll) Peek() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peek()
}

// Pop releases n bytes, sleeping until at least that much is readable
// contiguously.
func (s *SignalPoll) Pop(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if _, avail := s.peek(); avail >= n {
			break
		}
		s.producedSome.Wait()
	}

	s.release(n)
	s.consumedSome.Broadcast()
}
