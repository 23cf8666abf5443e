//go:build (!amd64 && !arm64) || !cgo || noasm

// relax_stub.go
//
// Portable fallback so spin loops compile unchanged on targets without a
// dedicated pause/yield hint (or with cgo disabled).  The empty body
// inlines away to nothing; the loop simply spins at full speed.

package staging

//go:nosplit
//go:inline
func cpuRelax() {}
