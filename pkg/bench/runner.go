package bench

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pojntfx/memthroughput-test/pkg/buffers"
	"github.com/pojntfx/memthroughput-test/pkg/kernels"
	"github.com/pojntfx/memthroughput-test/pkg/partition"
)

// State is a Runner's position in its lifecycle.
type State int

const (
	StateConfiguring State = iota
	StateAllocated
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateAllocated:
		return "allocated"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one completed run: the configuration that
// produced it and one elapsed duration per measured repetition, in
// completion order. Warmup passes are not included.
type Result struct {
	Config  Config
	Samples []time.Duration
}

// Runner coordinates one benchmark run: it allocates the buffer
// regions, partitions them across workers, drives the barrier-paced
// repetition loop and collects the per-repetition timings.
type Runner struct {
	cfg Config
	log *slog.Logger

	// Left nil outside of tests; Run resolves it from cfg.Workload
	kernel kernels.Kernel

	state State
}

func NewRunner(cfg Config, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		cfg: cfg,
		log: log,

		state: StateConfiguring,
	}
}

// State returns the runner's current lifecycle state. Not safe to
// call concurrently with Run.
func (r *Runner) State() State {
	return r.state
}

// Run executes the configured benchmark once and returns its Result.
// A Runner is single-use: Run must be called at most once.
//
// Cancellation is observed only between repetitions, at the barrier
// boundary, so a cancelled run never leaves a worker mid-copy.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	result, err := r.run(ctx)
	if err != nil {
		r.state = StateFailed

		return nil, err
	}

	r.state = StateCompleted

	return result, nil
}

// runState is the mutable state shared between the coordinator and
// all workers. The barriers pace the repetition loop; the two flags
// are the only other cross-thread communication.
type runState struct {
	start *barrier
	end   *barrier

	// stop is set by the coordinator before it releases a start
	// barrier whose cycle must not run; every party then exits its
	// loop
	stop atomic.Bool
	// failed is set by a worker whose kernel pass errored; the
	// coordinator discards that repetition and stops the run
	failed atomic.Bool

	passes int
}

func (r *Runner) run(ctx context.Context) (*Result, error) {
	if r.kernel == nil {
		kernel, err := kernels.New(r.cfg.Workload)
		if err != nil {
			return nil, err
		}

		r.kernel = kernel
	}

	// Single-region workloads overwrite their own buffer, pattern
	// 0xBE; copies go from a 0xBE source into a 0xEF destination
	dstPattern := byte(0xEF)
	if !r.kernel.NeedsSource() {
		dstPattern = 0xBE
	}

	dst, err := buffers.Alloc(r.cfg.BufferSize, dstPattern)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := dst.Close(); err != nil {
			r.log.Warn("Could not unmap destination region", "error", err)
		}
	}()

	var src *buffers.Region
	if r.kernel.NeedsSource() {
		src, err = buffers.Alloc(r.cfg.BufferSize, 0xBE)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := src.Close(); err != nil {
				r.log.Warn("Could not unmap source region", "error", err)
			}
		}()
	}

	if r.cfg.LockMemory {
		for _, region := range []*buffers.Region{dst, src} {
			if region == nil {
				continue
			}

			if err := region.Lock(); err != nil {
				return nil, &buffers.AllocationError{
					Size: r.cfg.BufferSize,
					Err:  err,
				}
			}
			defer region.Unlock()
		}
	}

	ranges, err := partition.Split(r.cfg.BufferSize, r.cfg.Threads)
	if err != nil {
		return nil, err
	}

	r.state = StateAllocated

	r.log.Debug(
		"Allocated and partitioned buffers",

		"workload", string(r.cfg.Workload),
		"size", r.cfg.BufferSize,
		"threads", r.cfg.Threads,
		"repetitions", r.cfg.Repetitions,
		"warmups", r.cfg.Warmups,
		"lockMemory", r.cfg.LockMemory,
	)

	st := &runState{
		start: newBarrier(r.cfg.Threads + 1),
		end:   newBarrier(r.cfg.Threads + 1),

		passes: r.cfg.Warmups + r.cfg.Repetitions,
	}

	workers := new(errgroup.Group)
	for i, rng := range ranges {
		i, rng := i, rng

		var workerSrc []byte
		if src != nil {
			workerSrc = src.Bytes()[rng.Off:rng.End()]
		}
		workerDst := dst.Bytes()[rng.Off:rng.End()]

		workers.Go(func() error {
			return r.worker(i, rng, workerDst, workerSrc, st)
		})
	}

	r.state = StateRunning

	samples := make([]time.Duration, 0, r.cfg.Repetitions)

	var fatal error
	for pass := 0; pass < st.passes; pass++ {
		if fatal != nil || st.failed.Load() || ctx.Err() != nil {
			st.stop.Store(true)
		}

		st.start.Await()
		if st.stop.Load() {
			break
		}

		before := time.Now()

		st.end.Await()

		elapsed := time.Since(before)

		switch {
		case st.failed.Load():
			// The pass is tainted; its sample is discarded and the
			// run stops at the next start barrier

		case elapsed <= 0:
			fatal = &TimingError{
				Repetition: pass,
				Elapsed:    elapsed,
			}

		case pass >= r.cfg.Warmups:
			samples = append(samples, elapsed)
		}
	}

	if err := workers.Wait(); err != nil {
		return nil, err
	}

	if fatal != nil {
		return nil, fatal
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Config:  r.cfg,
		Samples: samples,
	}, nil
}

// worker is the body of one timed worker. It pins itself to an OS
// thread and runs the kernel over its assigned range once per pass,
// bracketed by the shared start and end barriers. A kernel error is
// recorded once; the worker keeps honoring the barrier protocol until
// the coordinator stops the run, so no peer ever deadlocks waiting
// for it.
func (r *Runner) worker(id int, rng partition.Range, dst, src []byte, st *runState) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var failure error
	for pass := 0; pass < st.passes; pass++ {
		st.start.Await()
		if st.stop.Load() {
			break
		}

		if failure == nil {
			if err := r.kernel.Run(dst, src); err != nil {
				failure = &WorkerFailure{
					Worker: id,
					Range:  rng,
					Err:    err,
				}

				st.failed.Store(true)
			}
		}

		st.end.Await()
	}

	return failure
}
