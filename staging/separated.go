// separated.go
//
// Lock-free two-phase variant.  The producer claims space with Reserve,
// builds the record in place, then publishes it with Finish; no lock is
// ever held across the copy.  Producer-owned and consumer-owned fields
// live on different cache lines so the two threads' frequent writes do
// not invalidate each other's lines.
//
// Cursors are integer offsets into the owned storage slice and cross the
// thread boundary exclusively through sync/atomic.  The release store of
// producerPos in Finish is what makes the freshly written bytes visible;
// the acquire load in Peek is what lets the consumer trust them.  That
// pairing replaces the hand-rolled store/load fences of fence-based
// designs while giving the same guarantee: the consumer can never observe
// an advanced producer cursor ahead of the bytes it covers.
//
// All space checks are strictly < or >.  If the two positions were ever
// allowed to overlap after a write, an equal pair could mean either
// completely full or completely empty; keeping the checks strict reserves
// equality for empty.

package staging

import (
	"fmt"
	"sync/atomic"
)

// Separated is the two-phase lock-free staging buffer.
//
//go:align 64
type Separated struct {
	// Producer side.  producerPos and endOfRecorded are published to the
	// consumer atomically; minFreeSpace is a producer-private lower bound
	// on contiguous free space that keeps the fast path off shared state.
	producerPos   uint64
	endOfRecorded uint64 // first invalid byte after a roll-over
	minFreeSpace  uint64

	numAllocations uint64 // Reserve calls
	numBlocked     uint64 // Reserve calls that took the slow path

	_ [64]byte // cache-line spacer between producer and consumer fields

	// Consumer side.
	consumerPos uint64
	retired     uint32 // producer is done; drain then delete
	id          uint32

	storage []byte
}

// NewSeparated allocates a Separated buffer of the given byte capacity.
func NewSeparated(id uint32, size int) *Separated {
	if size <= 0 {
		panic(fmt.Sprintf("staging: invalid buffer size %d", size))
	}
	return &Separated{
		endOfRecorded: uint64(size),
		minFreeSpace:  uint64(size),
		id:            id,
		storage:       make([]byte, size),
	}
}

// Reserve claims n contiguous writable bytes without making them visible
// to the consumer.  The caller must invoke Finish before reserving again.
// Blocks (spins) behind the consumer when the buffer is too full.
//
//go:nosplit
func (b *Separated) Reserve(n int) []byte {
	b.numAllocations++

	// Fast path: the cached bound already proves the record fits.
	if uint64(n) < b.minFreeSpace {
		pos := b.producerPos
		return b.storage[pos : pos+uint64(n)]
	}

	return b.reserveSlow(n, true)
}

// TryReserve is Reserve without the spin: it returns nil when the record
// does not currently fit.  Used where deterministic completion matters
// more than throughput, e.g. single-threaded tests.
func (b *Separated) TryReserve(n int) []byte {
	b.numAllocations++

	if uint64(n) < b.minFreeSpace {
		pos := b.producerPos
		return b.storage[pos : pos+uint64(n)]
	}

	return b.reserveSlow(n, false)
}

// reserveSlow recomputes free space from the consumer's cursor, applying
// the wraparound procedure, and optionally spins until the record fits.
// This is the only producer path that touches consumer-side state.
func (b *Separated) reserveSlow(n int, block bool) []byte {
	nbytes := uint64(n)
	capacity := uint64(len(b.storage))
	if n < 0 || nbytes >= capacity {
		panic(fmt.Sprintf("staging: reservation of %d bytes can never fit in %d", n, capacity))
	}

	for b.minFreeSpace <= nbytes {
		// The consumer moves this concurrently; work off one consistent copy.
		cachedReadPos := atomic.LoadUint64(&b.consumerPos)
		pos := b.producerPos

		if cachedReadPos <= pos {
			b.minFreeSpace = capacity - pos
			if b.minFreeSpace > nbytes {
				break
			}

			// Tail too short for the record: mark the end of valid data
			// and restart at offset 0.  The marker must be visible before
			// the wrapped cursor, which the ordered stores guarantee.
			atomic.StoreUint64(&b.endOfRecorded, pos)

			// A reader still at offset 0 forbids the restart; landing on
			// it would fake the empty state.
			if cachedReadPos != 0 {
				atomic.StoreUint64(&b.producerPos, 0)
				b.minFreeSpace = cachedReadPos
			}
		} else {
			b.minFreeSpace = cachedReadPos - pos
		}

		if b.minFreeSpace <= nbytes {
			if !block {
				return nil
			}
			cpuRelax()
		}
	}

	b.numBlocked++
	pos := b.producerPos
	return b.storage[pos : pos+nbytes]
}

// Finish publishes the first n bytes of the most recent reservation.  The
// release store of producerPos orders the record's bytes ahead of the
// cursor bump, so a consumer that observes the new cursor observes the
// data too.
//
//go:nosplit
func (b *Separated) Finish(n int) {
	if uint64(n) >= b.minFreeSpace {
		panic(fmt.Sprintf("staging: finish of %d bytes exceeds reservation bound %d",
			n, b.minFreeSpace))
	}

	b.minFreeSpace -= uint64(n)
	atomic.StoreUint64(&b.producerPos, b.producerPos+uint64(n))
}

// Push is the single-phase convenience: reserve, copy, publish.  It
// blocks like Reserve and always returns true, which lets Separated
// satisfy the shared Buffer contract.
func (b *Separated) Push(p []byte) bool {
	dst := b.Reserve(len(p))
	copy(dst, p)
	b.Finish(len(p))
	return true
}

// Peek reports the contiguous readable region starting at the consumer's
// cursor.  When the pre-wrap span is exhausted the cursor rolls to offset
// 0 before recomputing.  Idempotent between Pops.
func (b *Separated) Peek() ([]byte, int) {
	// One consistent copy of the producer cursor for all decisions below.
	cachedProducerPos := atomic.LoadUint64(&b.producerPos)
	pos := b.consumerPos

	if cachedProducerPos < pos {
		// Producer has wrapped.  The acquire load above guarantees the
		// marker read here is at least as new as the wrapped cursor.
		end := atomic.LoadUint64(&b.endOfRecorded)

		if avail := end - pos; avail > 0 {
			return b.storage[pos:end], int(avail)
		}

		// Wrap boundary reached: roll over.
		pos = 0
		atomic.StoreUint64(&b.consumerPos, 0)
	}

	avail := cachedProducerPos - pos
	return b.storage[pos : pos+avail], int(avail)
}

// Pop releases n bytes back to the producer.  n must not exceed the count
// most recently reported by Peek.
//
//go:nosplit
func (b *Separated) Pop(n int) {
	pos := b.consumerPos

	prod := atomic.LoadUint64(&b.producerPos)
	var avail uint64
	if prod < pos {
		avail = atomic.LoadUint64(&b.endOfRecorded) - pos
	} else {
		avail = prod - pos
	}
	if uint64(n) > avail {
		panic(fmt.Sprintf("staging: pop of %d bytes exceeds %d readable", n, avail))
	}

	// The release store orders the consumer's storage reads before the
	// cursor bump, so the producer cannot recycle bytes still being read.
	atomic.StoreUint64(&b.consumerPos, pos+uint64(n))
}

// Retire marks that the producing thread will issue no further writes.
// The buffer becomes eligible for deletion once fully drained.
func (b *Separated) Retire() {
	atomic.StoreUint32(&b.retired, 1)
}

// CheckCanDelete reports whether the owning producer has retired the
// buffer and the consumer has drained every published byte, i.e. it is
// safe for the consuming side to drop the last reference.
func (b *Separated) CheckCanDelete() bool {
	return atomic.LoadUint32(&b.retired) == 1 &&
		atomic.LoadUint64(&b.consumerPos) == atomic.LoadUint64(&b.producerPos)
}

// ID returns the caller-assigned identifier of this buffer.
func (b *Separated) ID() uint32 { return b.id }

// Capacity returns the byte size of the backing storage.
func (b *Separated) Capacity() int { return len(b.storage) }

// Stats reports how many reservations were made and how many of them had
// to take the slow path behind the consumer.
func (b *Separated) Stats() (allocations, blocked uint64) {
	return b.numAllocations, b.numBlocked
}
