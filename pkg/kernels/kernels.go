package kernels

import (
	"fmt"
)

// Kind selects the memory-access pattern a run measures.
type Kind string

const (
	// KindMemcpy copies a source buffer into a destination buffer.
	KindMemcpy Kind = "memcpy"
	// KindMemset fills a buffer with a constant byte.
	KindMemset Kind = "memset"
)

// SetPattern is the byte KindMemset writes.
const SetPattern = 0xFE

// Kernel is one bulk memory workload. Run is the measured hot path:
// it must not allocate, block or touch bytes outside dst and src, and
// it must be the same code path at every thread count.
type Kernel interface {
	Kind() Kind
	// NeedsSource reports whether the workload reads from a separate
	// source region.
	NeedsSource() bool
	// BytesPerPass returns the number of bytes the memory bus moves
	// for one pass over a range of n bytes (reads and writes both
	// count).
	BytesPerPass(n int64) int64
	Run(dst, src []byte) error
}

// UnknownKindError is returned for a workload kind no kernel
// implements.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown workload kind %q", string(e.Kind))
}

// New returns the kernel implementing the given workload kind.
func New(kind Kind) (Kernel, error) {
	switch kind {
	case KindMemcpy:
		return Memcpy{}, nil
	case KindMemset:
		return Memset{}, nil
	default:
		return nil, &UnknownKindError{Kind: kind}
	}
}

// Memcpy duplicates the source range into the destination range with
// the builtin copy.
type Memcpy struct{}

func (Memcpy) Kind() Kind {
	return KindMemcpy
}

func (Memcpy) NeedsSource() bool {
	return true
}

// Every byte is read once and written once.
func (Memcpy) BytesPerPass(n int64) int64 {
	return 2 * n
}

func (Memcpy) Run(dst, src []byte) error {
	if copied := copy(dst, src); copied != len(dst) {
		return fmt.Errorf("copied %v of %v byte(s)", copied, len(dst))
	}

	return nil
}

// Memset fills the destination range with SetPattern.
type Memset struct{}

func (Memset) Kind() Kind {
	return KindMemset
}

func (Memset) NeedsSource() bool {
	return false
}

// Write-only workload.
func (Memset) BytesPerPass(n int64) int64 {
	return n
}

func (Memset) Run(dst, _ []byte) error {
	if len(dst) == 0 {
		return nil
	}

	// Doubling copy so the fill runs at memmove speed instead of one
	// store per loop iteration
	dst[0] = SetPattern
	for i := 1; i < len(dst); i *= 2 {
		copy(dst[i:], dst[:i])
	}

	return nil
}
