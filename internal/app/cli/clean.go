package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/builder"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
)

// CleanCmd creates the clean command
func CleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [platform]",
		Short: "Remove build and output directories",
		Long: `Remove build and output directories.

Without an argument every platform is cleaned, including the legacy
flat layout. With a platform argument only that platform's directories
are removed; other platforms stay untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClean,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(core.BuildOptions{Link: core.LinkBoth})
	if err != nil {
		return err
	}

	platforms := core.ConcretePlatforms()
	if len(args) == 1 {
		platform, err := core.ParsePlatform(args[0])
		if err != nil {
			return err
		}
		platforms = platform.Expand()
	}

	for _, platform := range platforms {
		b, err := builder.For(platform)
		if err != nil {
			return err
		}
		if err := b.Clean(ctx); err != nil {
			return err
		}
	}

	// Host test/bench trees have no platform of their own.
	if len(args) == 0 {
		if err := builder.NewTestRunner().Clean(ctx); err != nil {
			return err
		}
		if err := builder.NewBenchRunner().Clean(ctx); err != nil {
			return err
		}
	}

	PrintSuccess("cleaned")
	return nil
}
