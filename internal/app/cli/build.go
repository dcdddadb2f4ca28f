package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/builder"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/container"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/scheduler"
)

// BuildCmd creates the build command
func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <platform>",
		Short: "Build and package the library for one platform",
		Long: `Build and package the library for one platform.

Platforms: ` + strings.Join(core.PlatformNames(), ", ") + `

Examples:
  ccgo build android                  # All Android ABIs, debug
  ccgo build ios --release            # Release build
  ccgo build android -a arm64-v8a     # Single ABI
  ccgo build windows --toolchain msvc # MSVC instead of MinGW
  ccgo build linux --container        # Build inside Docker
  ccgo build apple                    # Expands to all Apple platforms`,
		Args: cobra.ExactArgs(1),
		RunE: runBuild,
	}
	addBuildFlags(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	platform, err := core.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	opts, err := optionsFromFlags(cmd, platform)
	if err != nil {
		return err
	}
	ctx, err := loadContext(opts)
	if err != nil {
		return err
	}

	// Meta targets go through the scheduler, which expands them and
	// runs each concrete platform as an isolated child process.
	if platform.IsMeta() {
		results, err := scheduler.Run(ctx, []core.Platform{platform})
		printSchedulerSummary(results)
		return err
	}

	result, err := buildPlatform(ctx, platform)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

// buildPlatform runs one concrete platform build, choosing between the
// native and the container path.
func buildPlatform(ctx *core.BuildContext, platform core.Platform) (*core.BuildResult, error) {
	if ctx.Options.UseContainer {
		return runContainer(ctx, platform)
	}

	b, err := builder.For(platform)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(ctx); err != nil {
		if ctx.Options.AutoContainer {
			if _, resolveErr := container.Resolve(platform); resolveErr == nil {
				PrintWarn("host toolchain unavailable (%v), falling back to a container build", err)
				return runContainer(ctx, platform)
			}
		}
		return nil, err
	}

	fmt.Printf("Building %s (%s, %s)...\n",
		platform.Display(), ctx.Options.Mode(), ctx.Options.Link)
	return b.Build(ctx)
}

func runContainer(ctx *core.BuildContext, platform core.Platform) (*core.BuildResult, error) {
	runner, err := container.New(ctx, platform)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Building %s in a container (%s, %s)...\n",
		platform.Display(), ctx.Options.Mode(), ctx.Options.Link)
	return runner.Execute()
}

func printResult(result *core.BuildResult) {
	PrintSuccess("%s build finished in %s", result.Platform.Display(),
		result.Duration.Round(time.Millisecond))
	if len(result.Archs) > 0 {
		fmt.Printf("  architectures: %s\n", strings.Join(result.Archs, ", "))
	}
	if result.ArchivePath != "" {
		fmt.Printf("  archive:       %s\n", result.ArchivePath)
	}
	if result.SymbolsPath != "" {
		fmt.Printf("  symbols:       %s\n", result.SymbolsPath)
	}
	if result.PackagePath != "" {
		fmt.Printf("  package:       %s\n", result.PackagePath)
	}
}

func printSchedulerSummary(results []*core.BuildResult) {
	if len(results) == 0 {
		return
	}
	fmt.Println()
	for _, result := range results {
		PrintSuccess("%s finished in %s", result.Platform.Display(),
			result.Duration.Round(time.Millisecond))
		if result.ArchivePath != "" {
			fmt.Printf("  archive: %s\n", result.ArchivePath)
		}
		if result.PackagePath != "" {
			fmt.Printf("  package: %s\n", result.PackagePath)
		}
	}
}
