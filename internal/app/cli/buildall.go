package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/scheduler"
)

// BuildAllCmd creates the build-all command
func BuildAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-all",
		Short: "Build every supported platform",
		Long: `Build every supported platform.

Apple platforms run one after another (they share a single Xcode
install), the Gradle-daemon platforms run one after another, and
everything else builds in parallel. Each platform runs as its own
child process; one failure never aborts the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduled(cmd, core.PlatformAll)
		},
	}
	addBuildFlags(cmd)
	return cmd
}

// BuildAppleCmd creates the build-apple command
func BuildAppleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-apple",
		Short: "Build macOS, iOS, tvOS and watchOS sequentially",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduled(cmd, core.PlatformApple)
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func runScheduled(cmd *cobra.Command, target core.Platform) error {
	opts, err := optionsFromFlags(cmd, target)
	if err != nil {
		return err
	}
	ctx, err := loadContext(opts)
	if err != nil {
		return err
	}
	results, err := scheduler.Run(ctx, []core.Platform{target})
	printSchedulerSummary(results)
	return err
}
