package staging

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"sync/atomic"
	"testing"
)

func tryPushTwoPhase(b *Separated, p []byte) bool {
	dst := b.TryReserve(len(p))
	if dst == nil {
		return false
	}
	copy(dst, p)
	b.Finish(len(p))
	return true
}

func TestSeparatedReserveFinishPublish(t *testing.T) {
	b := NewSeparated(7, 128)

	if _, avail := b.Peek(); avail != 0 {
		t.Fatalf("fresh buffer reports %d readable bytes", avail)
	}
	if b.ID() != 7 || b.Capacity() != 128 {
		t.Fatalf("identity: id=%d cap=%d", b.ID(), b.Capacity())
	}

	rec := []byte("0123456789")
	dst := b.Reserve(len(rec))
	if len(dst) != len(rec) {
		t.Fatalf("reservation length %d, want %d", len(dst), len(rec))
	}

	// Reserved but unfinished bytes stay invisible.
	if _, avail := b.Peek(); avail != 0 {
		t.Fatalf("unpublished reservation leaked: avail=%d", avail)
	}

	copy(dst, rec)
	b.Finish(len(rec))

	data, avail := b.Peek()
	if avail != len(rec) || !bytes.Equal(data, rec) {
		t.Fatalf("after Finish: avail=%d data=%q", avail, data)
	}

	b.Pop(len(rec))
	if _, avail := b.Peek(); avail != 0 {
		t.Fatalf("after Pop: avail=%d", avail)
	}

	if allocs, blocked := b.Stats(); allocs != 1 || blocked != 0 {
		t.Fatalf("stats: allocs=%d blocked=%d", allocs, blocked)
	}
}

// TestSeparatedWrapMarker drives the producer into the tail, forces a
// roll-over, and checks the consumer follows via the recorded marker.
func TestSeparatedWrapMarker(t *testing.T) {
	b := NewSeparated(0, 64)

	first := make([]byte, 40)
	for i := range first {
		first[i] = byte(i)
	}
	if !tryPushTwoPhase(b, first) {
		t.Fatal("push of 40 into 64 must succeed")
	}

	data, avail := b.Peek()
	if avail != 40 || !bytes.Equal(data, first) {
		t.Fatalf("first record: avail=%d", avail)
	}
	b.Pop(40)

	// 30 bytes no longer fit in the 24-byte tail; the producer records
	// the marker at 40 and restarts at offset 0.
	second := make([]byte, 30)
	for i := range second {
		second[i] = byte(100 + i)
	}
	if !tryPushTwoPhase(b, second) {
		t.Fatal("wrapping push of 30 must succeed with the reader at 40")
	}
	if got := atomic.LoadUint64(&b.endOfRecorded); got != 40 {
		t.Fatalf("endOfRecorded = %d, want 40", got)
	}

	// The consumer sees zero bytes at the boundary, rolls to 0, and then
	// the wrapped record.
	data, avail = b.Peek()
	if avail != 30 || !bytes.Equal(data, second) {
		t.Fatalf("wrapped record: avail=%d", avail)
	}
	b.Pop(30)

	if _, avail = b.Peek(); avail != 0 {
		t.Fatalf("avail = %d after full drain", avail)
	}

	if _, blocked := b.Stats(); blocked != 1 {
		t.Fatalf("blocked = %d, want 1 slow-path reservation", blocked)
	}
}

// TestSeparatedTryReserveNoSpace: TryReserve reports no-fit instead of
// spinning, and succeeds once the consumer frees the head.
func TestSeparatedTryReserveNoSpace(t *testing.T) {
	b := NewSeparated(0, 64)

	dst := b.TryReserve(60)
	if dst == nil {
		t.Fatal("initial reservation of 60 must fit")
	}
	b.Finish(60)

	// 4-byte tail, reader parked at 0: neither the tail nor a wrap works.
	if dst := b.TryReserve(10); dst != nil {
		t.Fatal("reservation of 10 must fail with the reader at 0")
	}

	_, avail := b.Peek()
	if avail != 60 {
		t.Fatalf("avail = %d, want 60", avail)
	}
	b.Pop(60)

	// Reader moved off 0, so the wrap is allowed now.
	dst = b.TryReserve(10)
	if dst == nil {
		t.Fatal("reservation of 10 must succeed after the drain")
	}
	b.Finish(10)

	if _, avail := b.Peek(); avail != 10 {
		t.Fatalf("avail = %d, want 10", avail)
	}
}

func TestSeparatedRetireAndCheckCanDelete(t *testing.T) {
	b := NewSeparated(0, 64)
	b.Push([]byte("abcd"))

	if b.CheckCanDelete() {
		t.Fatal("live buffer must not be deletable")
	}

	b.Retire()
	if b.CheckCanDelete() {
		t.Fatal("retired but undrained buffer must not be deletable")
	}

	_, avail := b.Peek()
	b.Pop(avail)
	if !b.CheckCanDelete() {
		t.Fatal("retired and drained buffer must be deletable")
	}
}

func TestSeparatedFinishBeyondReservationPanics(t *testing.T) {
	b := NewSeparated(0, 16)
	b.Reserve(10)

	defer func() {
		if recover() == nil {
			t.Fatal("Finish beyond the reservation bound should panic")
		}
	}()
	b.Finish(16)
}

func TestSeparatedImpossibleReservationPanics(t *testing.T) {
	b := NewSeparated(0, 64)

	defer func() {
		if recover() == nil {
			t.Fatal("reservation of a full capacity record should panic")
		}
	}()
	b.TryReserve(64)
}

func TestSeparatedOverPopPanics(t *testing.T) {
	b := NewSeparated(0, 64)
	b.Push(make([]byte, 8))

	defer func() {
		if recover() == nil {
			t.Fatal("Pop beyond readable bytes should panic")
		}
	}()
	b.Pop(9)
}

// TestSeparatedConcurrentSPSC hammers one producer against one consumer
// through a deliberately small buffer and checks every record arrives
// intact and in order.
func TestSeparatedConcurrentSPSC(t *testing.T) {
	const (
		records = 200000
		recSize = 16
	)
	b := NewSeparated(0, 1<<12)

	go func() {
		var rec [recSize]byte
		for i := 0; i < records; i++ {
			binary.LittleEndian.PutUint64(rec[:], uint64(i))
			dst := b.Reserve(recSize)
			copy(dst, rec[:])
			b.Finish(recSize)
		}
		b.Retire()
	}()

	next := uint64(0)
	for next < records {
		data, avail := b.Peek()
		items := avail / recSize
		for k := 0; k < items; k++ {
			seq := binary.LittleEndian.Uint64(data[k*recSize:])
			if seq != next {
				t.Fatalf("out of order: got %d, want %d", seq, next)
			}
			next++
		}
		if items > 0 {
			b.Pop(items * recSize)
		}
	}

	for !b.CheckCanDelete() {
		// Producer sets retired after its last Finish.
		runtime.Gosched()
	}
}
