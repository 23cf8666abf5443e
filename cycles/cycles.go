// cycles.go
//
// Package cycles provides CPU-cycle timestamps for latency measurement
// and conversion between cycle counts and wall time.  On amd64 the
// counter is the TSC read via RDTSC; elsewhere it degrades to the
// monotonic clock, with conversions remaining exact because calibration
// then measures one "cycle" per nanosecond.
package cycles

import (
	"sync"
	"time"
)

var (
	calibrateOnce sync.Once
	cyclesPerSec  float64
)

// calibrate measures the counter against the monotonic clock.  10ms is
// long enough to push the measurement error well below 0.1%.
func calibrate() {
	const window = 10 * time.Millisecond

	t0 := time.Now()
	c0 := Rdtsc()
	for time.Since(t0) < window {
	}
	c1 := Rdtsc()
	elapsed := time.Since(t0).Seconds()

	cyclesPerSec = float64(c1-c0) / elapsed
}

// PerSecond returns the calibrated counter frequency.
func PerSecond() float64 {
	calibrateOnce.Do(calibrate)
	return cyclesPerSec
}

// ToSeconds converts an elapsed cycle count to seconds.
func ToSeconds(c uint64) float64 {
	return float64(c) / PerSecond()
}

// ToNanoseconds converts an elapsed cycle count to nanoseconds.
func ToNanoseconds(c uint64) float64 {
	return ToSeconds(c) * 1e9
}

// FromNanoseconds returns the cycle count corresponding to ns.
func FromNanoseconds(ns float64) uint64 {
	return uint64(ns * 1e-9 * PerSecond())
}
