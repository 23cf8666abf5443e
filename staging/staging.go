// staging.go
//
// Package staging implements a family of single-producer/single-consumer
// byte ring buffers that decouple a fast producing thread from a slower
// draining thread.  Every variant shares one circular-buffer algorithm
// (see core.go) but differs in how the two threads are synchronized:
//
//	Basic      – monitor-style sync.Mutex, non-blocking Push
//	SpinLock   – CAS-acquired flag with cpuRelax backoff, non-blocking Push
//	SignalPoll – mutex + two condition variables, blocking Push and Pop
//	SlotQueue  – bounded FIFO of fixed-size slots, blocking push/pop baseline
//	Separated  – lock-free two-phase reserve/finish protocol with cache-line
//	             isolated cursors (the production-grade design)
//
// Exactly one goroutine may produce into a buffer and exactly one may
// consume from it for the lifetime of the instance.  Under that discipline
// bytes come out in the order they went in; none of the variants support
// concurrent producers or consumers.

package staging

// Buffer is the contract shared by every staging buffer variant.
//
// Push copies p into the buffer.  Basic and SpinLock return false when the
// record does not fit (the caller retries); SignalPoll, SlotQueue and
// Separated block until space frees up and always return true.
//
// Peek returns the longest contiguous readable region together with the
// number of bytes available, without consuming anything.  Repeated calls
// without an intervening Pop return the same region.  For SlotQueue the
// region is the front slot while the count covers every buffered slot.
//
// Pop releases n bytes back to the producer.  n must not exceed the count
// most recently reported by Peek; violating that is a contract breach and
// panics rather than corrupting the cursors.
type Buffer interface {
	Push(p []byte) bool
	Peek() ([]byte, int)
	Pop(n int)
	ID() uint32
}
