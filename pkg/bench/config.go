package bench

import (
	"github.com/pojntfx/memthroughput-test/pkg/kernels"
)

// Config describes one benchmark run. It is immutable once handed to
// a Runner; all values must be resolved by the caller (the core never
// reads flags, environment variables or the host's processor count).
type Config struct {
	// BufferSize is the size of each memory region in bytes
	BufferSize int64
	// Threads is the number of OS threads the buffer is split across
	Threads int
	// Repetitions is the number of measured passes
	Repetitions int
	// Warmups is the number of unmeasured passes run first
	Warmups int
	// Workload selects the kernel
	Workload kernels.Kind
	// LockMemory pins the regions into RAM for the run's duration
	LockMemory bool
}

// Validate fails fast on the first invalid field.
func (c Config) Validate() error {
	if c.BufferSize < 1 {
		return &ConfigurationError{
			Field:  "buffer size",
			Value:  c.BufferSize,
			Reason: "must be positive",
		}
	}

	if c.Threads < 1 {
		return &ConfigurationError{
			Field:  "threads",
			Value:  c.Threads,
			Reason: "must be at least 1",
		}
	}

	if c.Repetitions < 1 {
		return &ConfigurationError{
			Field:  "repetitions",
			Value:  c.Repetitions,
			Reason: "must be at least 1",
		}
	}

	if c.Warmups < 0 {
		return &ConfigurationError{
			Field:  "warmups",
			Value:  c.Warmups,
			Reason: "must not be negative",
		}
	}

	if _, err := kernels.New(c.Workload); err != nil {
		return &ConfigurationError{
			Field:  "workload",
			Value:  string(c.Workload),
			Reason: err.Error(),
		}
	}

	return nil
}
