// core.go
//
// Shared circular-buffer state and wraparound arithmetic embedded by the
// lock-guarded variants (Basic, SpinLock, SignalPoll).  None of these
// methods synchronize anything themselves; the embedding type is
// responsible for serializing access.

package staging

import "fmt"

// core holds the cursors and backing storage of a byte ring.
//
// The positions obey one rule that everything else hangs off: readPos and
// writePos coincide only when the buffer is completely empty.  Every space
// check below is therefore strict (< or >, never <= that would let a push
// land the writer exactly on the reader).  endOfWritten marks the first
// invalid byte before a roll-over and is only meaningful while the reader
// sits ahead of a wrapped writer.
type core struct {
	id uint32

	readPos       int // next offset the consumer reads from
	writePos      int // next offset the producer writes to
	bytesReadable int // bytes currently buffered; derivable from the cursors
	endOfWritten  int // first invalid byte after a roll-over

	bytesPushed int64 // lifetime bytes accepted
	bytesPopped int64 // lifetime bytes released

	buf []byte
}

func newCore(id uint32, size int) core {
	if size <= 0 {
		panic(fmt.Sprintf("staging: invalid buffer size %d", size))
	}
	return core{id: id, buf: make([]byte, size)}
}

// tryPush copies p into the ring if it fits contiguously, committing the
// roll-over marker as a side effect when the tail is too short.  Returns
// false when the record cannot be placed without the cursors overlapping.
func (c *core) tryPush(p []byte) bool {
	n := len(p)

	// Reader ahead of the writer: the record must stop strictly short of it.
	if c.readPos > c.writePos && c.readPos-c.writePos <= n {
		return false
	}

	// Reader behind the writer: roll over when the tail cannot hold the
	// record.  The marker and the reset writePos stay committed even when
	// the push is ultimately rejected; peek understands the wrapped state.
	if c.readPos <= c.writePos && len(c.buf)-c.writePos < n {
		c.endOfWritten = c.writePos

		if c.readPos == 0 {
			return false // nothing consumed yet, offset 0 is off limits
		}

		c.writePos = 0
		if c.readPos <= n {
			return false
		}
	}

	copy(c.buf[c.writePos:], p)
	c.bytesPushed += int64(n)
	c.bytesReadable += n
	c.writePos += n
	return true
}

// peek reports the contiguous run readable from readPos.  Reaching the
// roll-over marker resets readPos to 0 before recomputing, so a peek at
// the wrap boundary lands the consumer back at the start of storage.
func (c *core) peek() ([]byte, int) {
	var avail int
	if c.readPos <= c.writePos {
		avail = c.writePos - c.readPos
	} else {
		avail = c.endOfWritten - c.readPos

		if avail == 0 { // wrap boundary: roll over
			c.readPos = 0
			avail = c.writePos
		}
	}
	return c.buf[c.readPos : c.readPos+avail], avail
}

// release frees n bytes back to the producer.  n must not exceed what the
// last peek reported; over-releasing means the caller broke the contract
// and the cursors can no longer be trusted, so it panics.
func (c *core) release(n int) {
	if n > c.bytesReadable {
		panic(fmt.Sprintf("staging: pop of %d bytes exceeds %d readable",
			n, c.bytesReadable))
	}

	c.bytesReadable -= n
	c.bytesPopped += int64(n)

	if c.readPos < c.writePos {
		c.readPos += n
		return
	}

	// The released span may straddle the roll-over marker.
	firstHalf := c.endOfWritten - c.readPos
	switch {
	case firstHalf >= n:
		c.readPos += n
	case firstHalf == 0:
		c.readPos = 0
	default:
		c.readPos = n - firstHalf
	}
}

// Capacity returns the byte size of the backing storage.
func (c *core) Capacity() int { return len(c.buf) }

// ID returns the caller-assigned identifier of this buffer.
func (c *core) ID() uint32 { return c.id }
