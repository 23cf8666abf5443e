//go:build !linux || tinygo

// setaffinity_stub.go
//
// No-op thread pinning for platforms without sched_setaffinity.  The
// benchmark harness still runs; placements are just left to the OS
// scheduler.

package staging

// PinCurrentThread is a no-op on this platform.
func PinCurrentThread(cpu int) {}
