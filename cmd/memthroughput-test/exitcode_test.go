package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pojntfx/memthroughput-test/pkg/bench"
	"github.com/pojntfx/memthroughput-test/pkg/buffers"
	"github.com/pojntfx/memthroughput-test/pkg/partition"
)

func TestExitCodeByErrorClass(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		code int
	}{
		{
			name: "configuration error",
			err:  &bench.ConfigurationError{Field: "threads", Value: 0, Reason: "must be at least 1"},
			code: exitConfiguration,
		},
		{
			name: "allocation error",
			err:  &buffers.AllocationError{Size: 1 << 40, Err: errors.New("cannot allocate memory")},
			code: exitAllocation,
		},
		{
			name: "invalid partition error",
			err:  &partition.InvalidPartitionError{Size: 3, Threads: 4},
			code: exitInvalidPartition,
		},
		{
			name: "worker failure",
			err:  &bench.WorkerFailure{Worker: 1, Err: errors.New("fault")},
			code: exitWorkerFailure,
		},
		{
			name: "timing error",
			err:  &bench.TimingError{Repetition: 0},
			code: exitTiming,
		},
		{
			name: "wrapped worker failure",
			err:  fmt.Errorf("run failed: %w", &bench.WorkerFailure{Worker: 0, Err: errors.New("fault")}),
			code: exitWorkerFailure,
		},
		{
			name: "unclassified error",
			err:  errors.New("boom"),
			code: exitGeneric,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, exitCode(tc.err))
		})
	}
}
