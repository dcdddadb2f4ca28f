package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils/colors"
	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

// Variables for mocking in tests
var osGetwd = os.Getwd

// Icon constants for consistent output
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarn    = "⚠"
)

// Version is the ccgo version
const Version = "1.0.0"

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s%s %s%s\n", colors.Red, IconError, msg, colors.Reset)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s%s %s%s\n", colors.Green, IconSuccess, msg, colors.Reset)
}

// PrintWarn prints a warning message
func PrintWarn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s%s %s%s\n", colors.Yellow, IconWarn, msg, colors.Reset)
}

// addBuildFlags registers the flag set shared by build, build-all and
// build-apple.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("link", "both", "Library variants to build: static, shared, both")
	cmd.Flags().StringP("arch", "a", "", "Comma-separated architecture list (default: platform defaults)")
	cmd.Flags().BoolP("release", "r", false, "Build in release mode")
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 = CPU count)")
	cmd.Flags().Bool("native-only", false, "Skip the mobile ecosystem packaging step (AAR/HAR)")
	cmd.Flags().Bool("container", false, "Force the container build path")
	cmd.Flags().Bool("auto-container", false, "Fall back to a container when the host toolchain is missing")
	cmd.Flags().String("toolchain", "mingw", "Windows toolchain: mingw, msvc")
	cmd.Flags().String("cache", "", "Compiler cache tool (ccache/sccache)")
	cmd.Flags().BoolP("verbose", "v", false, "Stream full subprocess output")
}

// optionsFromFlags decodes the shared build flag set into an immutable
// options snapshot.
func optionsFromFlags(cmd *cobra.Command, target core.Platform) (core.BuildOptions, error) {
	linkFlag, _ := cmd.Flags().GetString("link")
	link := core.LinkType(strings.ToLower(linkFlag))
	switch link {
	case core.LinkStatic, core.LinkShared, core.LinkBoth:
	default:
		return core.BuildOptions{}, fmt.Errorf("invalid --link %q (want static, shared or both)", linkFlag)
	}

	toolchainFlag, _ := cmd.Flags().GetString("toolchain")
	winToolchain := core.WindowsToolchain(strings.ToLower(toolchainFlag))
	switch winToolchain {
	case core.WindowsMinGW, core.WindowsMSVC:
	default:
		return core.BuildOptions{}, fmt.Errorf("invalid --toolchain %q (want mingw or msvc)", toolchainFlag)
	}

	archFlag, _ := cmd.Flags().GetString("arch")
	var archs []string
	for _, arch := range strings.Split(archFlag, ",") {
		if arch = strings.TrimSpace(arch); arch != "" {
			archs = append(archs, arch)
		}
	}

	release, _ := cmd.Flags().GetBool("release")
	jobs, _ := cmd.Flags().GetInt("jobs")
	nativeOnly, _ := cmd.Flags().GetBool("native-only")
	useContainer, _ := cmd.Flags().GetBool("container")
	autoContainer, _ := cmd.Flags().GetBool("auto-container")
	cacheTool, _ := cmd.Flags().GetString("cache")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return core.BuildOptions{
		Target:        target,
		Archs:         archs,
		Link:          link,
		UseContainer:  useContainer,
		AutoContainer: autoContainer,
		Jobs:          jobs,
		Release:       release,
		NativeOnly:    nativeOnly,
		WinToolchain:  winToolchain,
		CacheTool:     cacheTool,
		Verbose:       verbose,
	}, nil
}

// loadContext locates the project descriptor in the working directory
// and assembles the build context for one invocation.
func loadContext(opts core.BuildOptions) (*core.BuildContext, error) {
	root, err := osGetwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromRoot(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s found in %s\n  hint: run inside a ccgo project", config.DescriptorName, root)
		}
		return nil, err
	}
	return core.NewBuildContext(root, cfg, opts), nil
}
