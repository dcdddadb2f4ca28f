package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils/colors"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

type androidBuilder struct{}

func (b *androidBuilder) Platform() core.Platform { return core.PlatformAndroid }

func (b *androidBuilder) DefaultArchs() []string { return toolchain.AndroidABIs }

func (b *androidBuilder) detect(ctx *core.BuildContext) (*toolchain.NDK, error) {
	return toolchain.DetectNDK(ctx.Config.Android.MinAPI)
}

func (b *androidBuilder) Validate(ctx *core.BuildContext) error {
	ndk, err := b.detect(ctx)
	if err != nil {
		return err
	}
	return ndk.Validate()
}

func (b *androidBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	ndk, err := b.detect(ctx)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		ctx:        ctx,
		platform:   core.PlatformAndroid,
		tc:         ndk,
		staticExt:  ".a",
		sharedExts: []string{".so"},
		arTool:     findArTool(),
		stripTool:  findStripTool(),
	}
	result, err := p.run(requestedArchs(ctx, b.DefaultArchs()))
	if err != nil {
		return nil, err
	}

	if ctx.Options.NativeOnly || !ctx.Options.Link.BuildShared() {
		return result, nil
	}

	projectDir := filepath.Join(ctx.ProjectRoot, ctx.Config.Android.ProjectDir)
	if !utils.DirExists(projectDir) {
		fmt.Fprintf(os.Stderr, "%sNo Gradle project at %s, skipping AAR packaging%s\n",
			colors.Yellow, projectDir, colors.Reset)
		return result, nil
	}

	module := ctx.Config.Android.Module
	libsRoot := filepath.Join(projectDir, module, "src", "main", "jniLibs")
	if err := syncNativeLibs(libsRoot, p.sharedLibs); err != nil {
		return nil, err
	}

	dest := filepath.Join(ctx.OutputDir(core.PlatformAndroid),
		fmt.Sprintf("%s-%s.aar", ctx.LibName(), ctx.FullVersion()))
	if err := gradlePackage(projectDir, module, dest); err != nil {
		if ccgoerrors.IsPackagingError(err) {
			warnPackaging(err)
			return result, nil
		}
		return nil, err
	}
	result.PackagePath = dest
	return result, nil
}

func (b *androidBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, core.PlatformAndroid)
}

// requestedArchs returns the user-selected architectures, falling back
// to the builder's defaults.
func requestedArchs(ctx *core.BuildContext, defaults []string) []string {
	if len(ctx.Options.Archs) > 0 {
		return ctx.Options.Archs
	}
	return defaults
}

// findArTool prefers llvm-ar over the platform ar.
func findArTool() string {
	if _, err := execLookPath("llvm-ar"); err == nil {
		return "llvm-ar"
	}
	return "ar"
}

// warnPackaging reports a recoverable packaging failure. The native
// library archive stays valid, only the mobile package is missing.
func warnPackaging(err error) {
	fmt.Fprintf(os.Stderr, "%s⚠ %v%s\n", colors.Yellow, err, colors.Reset)
}
