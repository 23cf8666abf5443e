//go:build amd64 && cgo && !noasm

// tsc_amd64.go
//
// TSC read for x86-64.  Modern parts have an invariant TSC that ticks at
// a constant rate regardless of frequency scaling, which is what makes
// the one-time calibration in cycles.go valid.

package cycles

/*
#include <stdint.h>
static inline uint64_t read_tsc() {
    uint32_t lo, hi;
    __asm__ __volatile__("rdtsc" : "=a"(lo), "=d"(hi));
    return ((uint64_t)hi << 32) | lo;
}
*/
import "C"

// Rdtsc returns the current value of the time-stamp counter.
//
//go:nosplit
//go:inline
func Rdtsc() uint64 {
	return uint64(C.read_tsc())
}
