package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils/colors"
)

// ToolchainCmd creates the toolchain command
func ToolchainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toolchain",
		Short: "Show which platform toolchains this host can use",
		Long:  "Probe every toolchain detector and report what was found, with a remediation hint for each missing one.",
		RunE:  runToolchain,
	}
}

func runToolchain(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(core.BuildOptions{Link: core.LinkBoth})
	if err != nil {
		return err
	}

	probes := []struct {
		label  string
		detect func() (toolchain.Toolchain, error)
	}{
		{"Android NDK", func() (toolchain.Toolchain, error) {
			return toolchain.DetectNDK(ctx.Config.Android.MinAPI)
		}},
		{"OHOS SDK", func() (toolchain.Toolchain, error) {
			return toolchain.DetectOHOS(ctx.Config.Harmony.MinAPI)
		}},
		{"Xcode", func() (toolchain.Toolchain, error) {
			return toolchain.DetectXcode(toolchain.SDKMacOS, ctx.Config.Apple.DeploymentTarget)
		}},
		{"MinGW-w64", func() (toolchain.Toolchain, error) {
			return toolchain.DetectMinGW()
		}},
		{"MSVC", func() (toolchain.Toolchain, error) {
			return toolchain.DetectMSVC()
		}},
		{"Host compiler", func() (toolchain.Toolchain, error) {
			return toolchain.DetectHostCC()
		}},
	}

	for _, probe := range probes {
		tc, err := probe.detect()
		if err != nil {
			fmt.Printf("%s%s %-14s%s %v\n", colors.Red, IconError, probe.label, colors.Reset, err)
			continue
		}
		fmt.Printf("%s%s %-14s%s %s\n", colors.Green, IconSuccess, probe.label, colors.Reset, tc.Path())
	}
	return nil
}
