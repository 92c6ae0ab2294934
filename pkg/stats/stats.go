package stats

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/docker/go-units"

	"github.com/pojntfx/memthroughput-test/pkg/bench"
	"github.com/pojntfx/memthroughput-test/pkg/kernels"
)

var ErrNoSamples = errors.New("result set contains no samples")

// Sample is one repetition's timing projected into throughput.
type Sample struct {
	ElapsedNs   int64   `json:"elapsedNs"`
	BytesPerSec float64 `json:"bytesPerSec"`
}

// Summary is the per-run throughput report. It echoes the
// configuration that produced it so runs stay traceable when the
// surrounding task-runner logs many of them.
type Summary struct {
	Workload    string `json:"workload"`
	BufferSize  int64  `json:"bufferSize"`
	Threads     int    `json:"threads"`
	Repetitions int    `json:"repetitions"`
	Warmups     int    `json:"warmups"`

	Samples []Sample `json:"samples"`

	MinBytesPerSec    float64 `json:"minBytesPerSec"`
	MaxBytesPerSec    float64 `json:"maxBytesPerSec"`
	MeanBytesPerSec   float64 `json:"meanBytesPerSec"`
	MedianBytesPerSec float64 `json:"medianBytesPerSec"`
}

// Summarize projects a result set into throughput figures. The bytes
// moved per repetition come from the kernel: a copy reads and writes
// the whole buffer (2 x size), a fill only writes it (1 x size). The
// result set itself is never mutated.
func Summarize(result *bench.Result, kernel kernels.Kernel) (*Summary, error) {
	if result == nil || len(result.Samples) == 0 {
		return nil, ErrNoSamples
	}

	bytesPerPass := kernel.BytesPerPass(result.Config.BufferSize)

	summary := &Summary{
		Workload:    string(result.Config.Workload),
		BufferSize:  result.Config.BufferSize,
		Threads:     result.Config.Threads,
		Repetitions: result.Config.Repetitions,
		Warmups:     result.Config.Warmups,

		Samples: make([]Sample, 0, len(result.Samples)),
	}

	throughputs := make([]float64, 0, len(result.Samples))

	sum := 0.0
	for _, elapsed := range result.Samples {
		if elapsed <= 0 {
			return nil, &bench.TimingError{
				Repetition: len(summary.Samples),
				Elapsed:    elapsed,
			}
		}

		throughput := float64(bytesPerPass) / elapsed.Seconds()

		summary.Samples = append(summary.Samples, Sample{
			ElapsedNs:   elapsed.Nanoseconds(),
			BytesPerSec: throughput,
		})

		throughputs = append(throughputs, throughput)
		sum += throughput
	}

	sort.Float64s(throughputs)

	summary.MinBytesPerSec = throughputs[0]
	summary.MaxBytesPerSec = throughputs[len(throughputs)-1]
	summary.MeanBytesPerSec = sum / float64(len(throughputs))
	summary.MedianBytesPerSec = median(throughputs)

	return summary, nil
}

// median of an already sorted slice; mean of the middle two for even
// lengths.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2

	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}

	return sorted[mid]
}

// WriteText renders the summary as one key: value line per figure,
// human-scaled with the raw bytes/second alongside so the task-runner
// layer can parse it.
func (s *Summary) WriteText(writer io.Writer) error {
	if _, err := fmt.Fprintf(
		writer,
		"%v test of %v (%v bytes) on %v thread(s), %v repetition(s), %v warmup(s)\n",
		s.Workload,
		units.HumanSize(float64(s.BufferSize)),
		s.BufferSize,
		s.Threads,
		s.Repetitions,
		s.Warmups,
	); err != nil {
		return err
	}

	for _, sample := range s.Samples {
		if _, err := fmt.Fprintf(
			writer,
			"throughput: %v/s (%.0f bytes/s, %v elapsed)\n",
			units.HumanSize(sample.BytesPerSec),
			sample.BytesPerSec,
			time.Duration(sample.ElapsedNs),
		); err != nil {
			return err
		}
	}

	for _, figure := range []struct {
		name  string
		value float64
	}{
		{"min", s.MinBytesPerSec},
		{"max", s.MaxBytesPerSec},
		{"mean", s.MeanBytesPerSec},
		{"median", s.MedianBytesPerSec},
	} {
		if _, err := fmt.Fprintf(
			writer,
			"%v: %v/s (%.0f bytes/s)\n",
			figure.name,
			units.HumanSize(figure.value),
			figure.value,
		); err != nil {
			return err
		}
	}

	return nil
}
