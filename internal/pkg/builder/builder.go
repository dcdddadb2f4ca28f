// Package builder implements the per-platform build pipelines behind
// `ccgo build <platform>`. Every builder composes a toolchain detector,
// the CMake invocation layer and the packaging layer, and adds its
// platform-specific steps (multi-architecture iteration, static-library
// merging, symbol stripping, mobile package assembly).
package builder

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
)

// Variables for mocking in tests
var (
	execCommand  = exec.Command
	execLookPath = exec.LookPath
)

// Builder is the uniform contract every platform implements. Instances
// are constructed fresh per platform build and hold no shared state.
type Builder interface {
	Platform() core.Platform
	DefaultArchs() []string
	// Validate checks toolchain prerequisites without building.
	Validate(ctx *core.BuildContext) error
	// Build runs the full pipeline and returns the produced artifacts.
	// Any subprocess failure is terminal for this platform's build.
	Build(ctx *core.BuildContext) (*core.BuildResult, error)
	// Clean removes this platform's build and output directories in
	// both the current and the legacy layout, leaving other platforms
	// untouched.
	Clean(ctx *core.BuildContext) error
}

// For returns the builder for a concrete platform. Meta platforms must
// be expanded by the scheduler before reaching this dispatch point.
func For(platform core.Platform) (Builder, error) {
	switch platform {
	case core.PlatformAndroid:
		return &androidBuilder{}, nil
	case core.PlatformOHOS:
		return &ohosBuilder{}, nil
	case core.PlatformLinux:
		return &linuxBuilder{}, nil
	case core.PlatformWindows:
		return &windowsBuilder{}, nil
	case core.PlatformMacOS:
		return newAppleBuilder(core.PlatformMacOS), nil
	case core.PlatformIOS:
		return newAppleBuilder(core.PlatformIOS), nil
	case core.PlatformTVOS:
		return newAppleBuilder(core.PlatformTVOS), nil
	case core.PlatformWatchOS:
		return newAppleBuilder(core.PlatformWatchOS), nil
	case core.PlatformKMP:
		return &kmpBuilder{}, nil
	case core.PlatformConan:
		return &conanBuilder{}, nil
	case core.PlatformApple, core.PlatformAll:
		return nil, fmt.Errorf("meta platform %q must be expanded before dispatch", platform)
	default:
		return nil, fmt.Errorf("no builder for platform %q", platform)
	}
}

// cleanPlatform removes every build/output directory belonging to one
// platform: release and debug trees in the current layout plus the
// legacy flat layout.
func cleanPlatform(ctx *core.BuildContext, platform core.Platform) error {
	dirs := []string{
		ctx.LegacyCMakeBuildDir(platform),
		ctx.LegacyOutputDir(platform),
	}
	for _, mode := range []string{"release", "debug"} {
		dirs = append(dirs,
			filepath.Join(ctx.ProjectRoot, core.BuildDirName, mode, platform.Lower()),
			filepath.Join(ctx.ProjectRoot, core.OutputDirName, mode, platform.Lower()),
		)
	}
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}
	return nil
}
