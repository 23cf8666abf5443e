//go:build !amd64 || !cgo || noasm

// tsc_stub.go
//
// Monotonic-clock fallback for targets without RDTSC (or with cgo
// disabled).  One "cycle" is one nanosecond, so calibration comes out at
// ~1e9 cycles per second and every conversion stays exact.

package cycles

import "time"

var base = time.Now()

// Rdtsc returns nanoseconds since process start.
func Rdtsc() uint64 {
	return uint64(time.Since(base))
}
