package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MEMTHROUGHPUT"

var rootCmd = &cobra.Command{
	Use:   "memthroughput-test",
	Short: "Benchmark memory throughput across thread counts and buffer sizes",
	Long: `memthroughput-test measures steady-state memory bandwidth by splitting a
buffer across a configurable number of OS threads and timing repeated
barrier-synchronized bulk passes over it.

Each invocation is stateless; loop the binary from a task runner for
cross-process repetition.`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringP("size", "s", "1MiB", "Buffer size in bytes (human-readable values like 64MB or 1GiB are accepted)")
	flags.IntP("threads", "t", runtime.NumCPU(), "Number of threads to split the buffer across")
	flags.IntP("repetitions", "r", 5, "Number of measured repetitions")
	flags.IntP("warmups", "w", 5, "Number of repetitions which are not reported")
	flags.Bool("lock-memory", false, "Pin the buffers into RAM so paging can not disturb the measurement")
	flags.Bool("json", false, "Emit the report as JSON on standard output")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(memcpyCmd, memsetCmd)
}

// Execute runs the CLI and maps the run's outcome to the process exit
// code, one distinct code per error class.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return exitCode(err)
	}

	return 0
}
