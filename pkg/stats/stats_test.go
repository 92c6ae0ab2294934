package stats

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pojntfx/memthroughput-test/pkg/bench"
	"github.com/pojntfx/memthroughput-test/pkg/kernels"
)

func testResult(samples ...time.Duration) *bench.Result {
	return &bench.Result{
		Config: bench.Config{
			BufferSize:  1 << 20,
			Threads:     1,
			Repetitions: len(samples),
			Warmups:     0,
			Workload:    kernels.KindMemcpy,
		},
		Samples: samples,
	}
}

func TestSummarizeAppliesReadAndWriteFactor(t *testing.T) {
	result := testResult(
		2*time.Millisecond,
		4*time.Millisecond,
		3*time.Millisecond,
	)

	summary, err := Summarize(result, kernels.Memcpy{})
	require.NoError(t, err)

	require.Len(t, summary.Samples, 3)

	// A 1 MiB copy moves 2 x 1048576 bytes per repetition
	assert.InDelta(t, 2*1048576/0.002, summary.Samples[0].BytesPerSec, 1)
	assert.InDelta(t, 2*1048576/0.004, summary.Samples[1].BytesPerSec, 1)
	assert.InDelta(t, 2*1048576/0.003, summary.Samples[2].BytesPerSec, 1)
}

func TestSummarizeUsesWriteOnlyFactorForMemset(t *testing.T) {
	result := testResult(2 * time.Millisecond)
	result.Config.Workload = kernels.KindMemset

	summary, err := Summarize(result, kernels.Memset{})
	require.NoError(t, err)

	assert.InDelta(t, 1048576/0.002, summary.Samples[0].BytesPerSec, 1)
}

func TestSummarizeAggregates(t *testing.T) {
	summary, err := Summarize(testResult(
		2*time.Millisecond,
		4*time.Millisecond,
		3*time.Millisecond,
	), kernels.Memcpy{})
	require.NoError(t, err)

	assert.InDelta(t, 2*1048576/0.004, summary.MinBytesPerSec, 1)
	assert.InDelta(t, 2*1048576/0.002, summary.MaxBytesPerSec, 1)
	assert.InDelta(t, 2*1048576/0.003, summary.MedianBytesPerSec, 1)

	assert.LessOrEqual(t, summary.MinBytesPerSec, summary.MeanBytesPerSec)
	assert.LessOrEqual(t, summary.MeanBytesPerSec, summary.MaxBytesPerSec)
}

func TestSummarizeMedianOfEvenCount(t *testing.T) {
	summary, err := Summarize(testResult(
		1*time.Millisecond,
		2*time.Millisecond,
		4*time.Millisecond,
		8*time.Millisecond,
	), kernels.Memcpy{})
	require.NoError(t, err)

	expected := (2*1048576/0.002 + 2*1048576/0.004) / 2
	assert.InDelta(t, expected, summary.MedianBytesPerSec, 1)
}

func TestSummarizeEchoesConfiguration(t *testing.T) {
	summary, err := Summarize(testResult(time.Millisecond), kernels.Memcpy{})
	require.NoError(t, err)

	assert.Equal(t, "memcpy", summary.Workload)
	assert.Equal(t, int64(1<<20), summary.BufferSize)
	assert.Equal(t, 1, summary.Threads)
	assert.Equal(t, 1, summary.Repetitions)
}

func TestSummarizeRejectsEmptyResultSet(t *testing.T) {
	_, err := Summarize(testResult(), kernels.Memcpy{})
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = Summarize(nil, kernels.Memcpy{})
	require.ErrorIs(t, err, ErrNoSamples)
}

func TestSummaryIsValidJSON(t *testing.T) {
	summary, err := Summarize(testResult(
		2*time.Millisecond,
		3*time.Millisecond,
	), kernels.Memcpy{})
	require.NoError(t, err)

	b, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, "memcpy", decoded["workload"])
	assert.Contains(t, decoded, "meanBytesPerSec")
	assert.Len(t, decoded["samples"], 2)
}

func TestWriteTextEchoesEveryFigure(t *testing.T) {
	summary, err := Summarize(testResult(
		2*time.Millisecond,
		3*time.Millisecond,
	), kernels.Memcpy{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, summary.WriteText(&out))

	text := out.String()

	assert.Contains(t, text, "memcpy test of")
	assert.Contains(t, text, "1048576 bytes")
	assert.Contains(t, text, "1 thread(s)")
	assert.Contains(t, text, "throughput: ")
	assert.Contains(t, text, "min: ")
	assert.Contains(t, text, "max: ")
	assert.Contains(t, text, "mean: ")
	assert.Contains(t, text, "median: ")
}
