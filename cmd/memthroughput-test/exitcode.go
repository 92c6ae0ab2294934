package main

import (
	"errors"

	"github.com/pojntfx/memthroughput-test/pkg/bench"
	"github.com/pojntfx/memthroughput-test/pkg/buffers"
	"github.com/pojntfx/memthroughput-test/pkg/partition"
)

// Exit codes by error class, so the surrounding task runner can
// branch on the failure kind.
const (
	exitGeneric          = 1
	exitConfiguration    = 2
	exitAllocation       = 3
	exitInvalidPartition = 4
	exitWorkerFailure    = 5
	exitTiming           = 6
)

func exitCode(err error) int {
	var (
		configErr    *bench.ConfigurationError
		allocErr     *buffers.AllocationError
		partitionErr *partition.InvalidPartitionError
		workerErr    *bench.WorkerFailure
		timingErr    *bench.TimingError
	)

	switch {
	case errors.As(err, &configErr):
		return exitConfiguration
	case errors.As(err, &allocErr):
		return exitAllocation
	case errors.As(err, &partitionErr):
		return exitInvalidPartition
	case errors.As(err, &workerErr):
		return exitWorkerFailure
	case errors.As(err, &timingErr):
		return exitTiming
	default:
		return exitGeneric
	}
}
