package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/builder"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
)

// BenchCmd creates the bench command
func BenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Build and run the host benchmark suite",
		Long:  "Build the project for the host compiler with benchmarks enabled and run the benchmark-labelled ctest targets.",
		Example: `  ccgo bench                # Build + run all benchmarks
  ccgo bench --filter codec # Only matching benchmarks`,
		RunE: runBench,
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show verbose benchmark output")
	cmd.Flags().String("filter", "", "Filter benchmarks by name (ctest regex)")
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 = CPU count)")

	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	filter, _ := cmd.Flags().GetString("filter")
	jobs, _ := cmd.Flags().GetInt("jobs")

	ctx, err := loadContext(core.BuildOptions{Jobs: jobs, Verbose: verbose})
	if err != nil {
		return err
	}
	return builder.NewBenchRunner().Run(ctx, filter)
}
