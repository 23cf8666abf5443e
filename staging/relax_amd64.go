//go:build amd64 && cgo && !noasm

// relax_amd64.go
//
// cpuRelax for x86-64: a single PAUSE instruction so busy-wait loops
// back off politely, keep sibling hyperthreads fed, and avoid memory
// ordering mis-speculation on loop exit.

package staging

/*
static inline void cpu_pause() {
    __asm__ __volatile__("pause" ::: "memory");
}
*/
import "C"

// cpuRelax emits the x86-64 PAUSE instruction.
//
//go:nosplit
//go:inline
func cpuRelax() {
	C.cpu_pause()
}
