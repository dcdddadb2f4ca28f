package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/builder"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
)

// TestCmd creates the test command
func TestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Build and run the host test suite",
		Long:  "Build the project for the host compiler with testing enabled and run ctest.",
		Example: `  ccgo test                 # Build + run all tests
  ccgo test --verbose       # Show verbose output
  ccgo test --filter MySuite.*`,
		RunE: runTest,
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show verbose test output")
	cmd.Flags().String("filter", "", "Filter tests by name (ctest regex)")
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 = CPU count)")

	return cmd
}

func runTest(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	filter, _ := cmd.Flags().GetString("filter")
	jobs, _ := cmd.Flags().GetInt("jobs")

	ctx, err := loadContext(core.BuildOptions{Jobs: jobs, Verbose: verbose})
	if err != nil {
		return err
	}
	return builder.NewTestRunner().Run(ctx, filter)
}
