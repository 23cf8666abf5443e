//go:build arm64 && cgo && !noasm

// relax_arm64.go
//
// cpuRelax for ARM64: a single YIELD instruction hinting the core that
// the calling thread is spinning.  Particularly effective on big.LITTLE
// and Apple Silicon parts.

package staging

/*
static inline void cpu_yield() {
    __asm__ __volatile__("yield" ::: "memory");
}
*/
import "C"

// cpuRelax emits the ARM64 YIELD instruction.
//
//go:nosplit
//go:inline
func cpuRelax() {
	C.cpu_yield()
}
