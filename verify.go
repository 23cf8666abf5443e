package main

// verify.go — optional drain-integrity checking.
//
// Each producer pushes the same fixed datum perThread times, so the byte
// stream leaving every buffer is known in advance.  The consumer feeds
// every record it peeks into a per-buffer digest before releasing it;
// after the run the digests must match the digest of the expected stream.
// This catches torn reads, mis-ordered wraps, and premature cursor
// publication that a pure throughput run would never notice.

import (
	"bytes"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"

	"stagingbench/config"
)

type verifier struct {
	expected []byte
	hashers  []hash.Hash
}

// newVerifier precomputes the expected digest of perThread datum copies
// and sets up one running digest per buffer.
func newVerifier(buffers, perThread int) *verifier {
	h := sha3.New256()
	for i := 0; i < perThread; i++ {
		h.Write(config.Datum)
	}

	v := &verifier{
		expected: h.Sum(nil),
		hashers:  make([]hash.Hash, buffers),
	}
	for i := range v.hashers {
		v.hashers[i] = sha3.New256()
	}
	return v
}

// observe folds bytes about to be released from buffer j into its digest.
func (v *verifier) observe(j int, p []byte) {
	v.hashers[j].Write(p)
}

// check compares every buffer's digest against the expected stream.
func (v *verifier) check() error {
	for j, h := range v.hashers {
		if got := h.Sum(nil); !bytes.Equal(got, v.expected) {
			return fmt.Errorf("buffer %d drained stream digest mismatch: got %x want %x",
				j, got, v.expected)
		}
	}
	return nil
}
