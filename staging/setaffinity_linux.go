//go:build linux && !tinygo

// setaffinity_linux.go
//
// Linux binding for sched_setaffinity(2) pinning the calling OS thread to
// one logical CPU.  The per-CPU bitmasks are pre-computed in read-only
// data so the call site stays allocation-free; errors are deliberately
// swallowed because on cgroup-limited systems the syscall may return
// EPERM/EINVAL, and the acceptable fallback is simply "no pin".
// CPUs >= 64 are ignored, which keeps the mask a single word.

package staging

import (
	"syscall"
	"unsafe"
)

// Pre-computed one-word affinity masks for logical CPUs 0-63.
var cpuMasks = [64][1]uintptr{}

func init() {
	for i := range cpuMasks {
		cpuMasks[i][0] = 1 << uint(i)
	}
}

// PinCurrentThread pins the calling OS thread to the given logical CPU.
// The caller is expected to have locked the goroutine to its thread with
// runtime.LockOSThread first.  Out-of-range CPUs are ignored.
func PinCurrentThread(cpu int) {
	if cpu < 0 || cpu >= len(cpuMasks) {
		return
	}
	mask := &cpuMasks[cpu]
	_, _, _ = syscall.RawSyscall(
		syscall.SYS_SCHED_SETAFFINITY,
		0, // pid 0 means the current thread
		uintptr(unsafe.Sizeof(mask[0])),
		uintptr(unsafe.Pointer(mask)),
	)
}
