package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pojntfx/memthroughput-test/pkg/bench"
	"github.com/pojntfx/memthroughput-test/pkg/kernels"
	"github.com/pojntfx/memthroughput-test/pkg/stats"
	"github.com/pojntfx/memthroughput-test/pkg/utils"
)

var memcpyCmd = &cobra.Command{
	Use:   "memcpy",
	Short: "Copy a source buffer into a destination buffer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkload(cmd.Context(), kernels.KindMemcpy)
	},
}

var memsetCmd = &cobra.Command{
	Use:   "memset",
	Short: "Fill a buffer with a constant byte",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkload(cmd.Context(), kernels.KindMemset)
	},
}

// runWorkload resolves all configuration at this boundary, then hands
// the core an explicit, fully resolved Config.
func runWorkload(ctx context.Context, kind kernels.Kind) error {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	rawSize := viper.GetString("size")

	size, err := units.RAMInBytes(rawSize)
	if err != nil {
		return &bench.ConfigurationError{
			Field:  "size",
			Value:  rawSize,
			Reason: err.Error(),
		}
	}

	cfg := bench.Config{
		BufferSize:  size,
		Threads:     viper.GetInt("threads"),
		Repetitions: viper.GetInt("repetitions"),
		Warmups:     viper.GetInt("warmups"),
		Workload:    kind,
		LockMemory:  viper.GetBool("lock-memory"),
	}

	result, err := bench.NewRunner(cfg, log).Run(ctx)
	if err != nil {
		return err
	}

	kernel, err := kernels.New(kind)
	if err != nil {
		return err
	}

	summary, err := stats.Summarize(result, kernel)
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		return utils.EncodeJSON(os.Stdout, summary)
	}

	return summary.WriteText(os.Stdout)
}
