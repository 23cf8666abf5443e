// spinlock.go
//
// Same algorithm as Basic, guarded by a busy-wait flag instead of a
// blocking mutex.  Acquisition spins with cpuRelax so sibling hyperthreads
// keep making progress; there is no queueing or fairness, which is fine
// under the strict SPSC discipline where at most two threads ever contend.

package staging

import "sync/atomic"

// SpinLock is the spin-guarded staging buffer.
type SpinLock struct {
	flag uint32 // 0 = free, 1 = held
	core
}

// NewSpinLock allocates a SpinLock buffer of the given byte capacity.
func NewSpinLock(id uint32, size int) *SpinLock {
	return &SpinLock{core: newCore(id, size)}
}

//go:nosplit
func (s *SpinLock) acquire() {
	for !atomic.CompareAndSwapUint32(&s.flag, 0, 1) {
		cpuRelax()
	}
}

//go:nosplit
func (s *SpinLock) unlock() {
	atomic.StoreUint32(&s.flag, 0)
}

// Push copies p into the buffer, returning false when it does not fit.
func (s *SpinLock) Push(p []byte) bool {
	s.acquire()
	ok := s.tryPush(p)
	s.unlock()
	return ok
}

// Peek returns the contiguous readable region and its length.
func (s *SpinLock) Peek() ([]byte, int) {
	s.acquire()
	p, avail := s.peek()
	s.unlock()
	return p, avail
}

// Pop releases n bytes back to the producer.
func (s *SpinLock) Pop(n int) {
	s.acquire()
	s.release(n)
	s.unlock()
}
