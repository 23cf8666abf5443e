// slotqueue.go
//
// Baseline strategy: a bounded FIFO of fixed-size slots instead of a raw
// byte ring.  Exists to contrast per-record slot copying against the
// contiguous byte-oriented variants; it carries no roll-over machinery at
// all.  Push blocks while the queue is at capacity, Pop blocks while it
// is empty.

package staging

import (
	"fmt"
	"sync"
)

// SlotQueue is the fixed-slot staging buffer.
type SlotQueue struct {
	mu           sync.Mutex
	consumedSome *sync.Cond
	producedSome *sync.Cond

	id       uint32
	slotSize int
	maxSlots int

	head  int // slot index of the front element
	count int // buffered slots
	data  []byte // maxSlots * slotSize backing array

	bytesPushed int64
	bytesPopped int64
}

// NewSlotQueue allocates a queue holding size/slotSize records of exactly
// slotSize bytes each.
func NewSlotQueue(id uint32, size, slotSize int) *SlotQueue {
	if slotSize <= 0 || size < slotSize {
		panic(fmt.Sprintf("staging: invalid slot queue geometry %d/%d", size, slotSize))
	}
	q := &SlotQueue{
		id:       id,
		slotSize: slotSize,
		maxSlots: size / slotSize,
	}
	q.data = make([]byte, q.maxSlots*slotSize)
	q.consumedSome = sync.NewCond(&q.mu)
	q.producedSome = sync.NewCond(&q.mu)
	return q
}

// Push copies one slot's worth of p into the queue, sleeping while the
// queue is full.  Always returns true.
func (q *SlotQueue) Push(p []byte) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count >= q.maxSlots {
		q.consumedSome.Wait()
	}

	slot := (q.head + q.count) % q.maxSlots
	copy(q.data[slot*q.slotSize:(slot+1)*q.slotSize], p)
	q.count++
	q.bytesPushed += int64(q.slotSize)

	q.producedSome.Signal()
	return true
}

// Peek reports the front slot and the total buffered byte count
// (slots × slot size).
func (q *SlotQueue) Peek() ([]byte, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	front := q.data[q.head*q.slotSize : (q.head+1)*q.slotSize]
	return front, q.count * q.slotSize
}

// Pop releases the front slot, sleeping while the queue is empty.  n is
// accepted for interface symmetry; a SlotQueue always frees whole slots.
func (q *SlotQueue) Pop(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count <= 0 {
		q.producedSome.Wait()
	}

	q.head = (q.head + 1) % q.maxSlots
	q.count--
	q.bytesPopped += int64(q.slotSize)

	q.consumedSome.Broadcast()
}

// ID returns the caller-assigned identifier of this queue.
func (q *SlotQueue) ID() uint32 { return q.id }

// Capacity returns the total byte capacity across all slots.
func (q *SlotQueue) Capacity() int { return len(q.data) }
