package bench

import (
	"fmt"
	"time"

	"github.com/pojntfx/memthroughput-test/pkg/partition"
)

// ConfigurationError reports an invalid Config field. It is always
// detected before any memory is allocated.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v = %v: %v", e.Field, e.Value, e.Reason)
}

// WorkerFailure identifies a worker that could not complete a pass
// over its assigned range. A run with a worker failure reports no
// samples at all.
type WorkerFailure struct {
	Worker int
	Range  partition.Range
	Err    error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("worker %v failed on range %v: %v", e.Worker, e.Range, e.Err)
}

func (e *WorkerFailure) Unwrap() error {
	return e.Err
}

// TimingError reports a repetition whose monotonic clock reading came
// out non-positive. Fatal for the run; an impossible throughput
// figure must not be reported.
type TimingError struct {
	Repetition int
	Elapsed    time.Duration
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("non-positive elapsed time %v for repetition %v", e.Elapsed, e.Repetition)
}
