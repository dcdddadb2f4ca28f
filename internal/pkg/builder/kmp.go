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

// kmpProjectDir is the conventional Kotlin Multiplatform wrapper project
// location under the project root.
const kmpProjectDir = "kmp"

// kmpBuilder produces the Android native libraries for a Kotlin
// Multiplatform wrapper and packages them through that project's Gradle
// build. It shares the Gradle daemon with the Android builder, which is
// why the two never run concurrently.
type kmpBuilder struct{}

func (b *kmpBuilder) Platform() core.Platform { return core.PlatformKMP }

func (b *kmpBuilder) DefaultArchs() []string { return toolchain.AndroidABIs }

func (b *kmpBuilder) detect(ctx *core.BuildContext) (*toolchain.NDK, error) {
	return toolchain.DetectNDK(ctx.Config.Android.MinAPI)
}

func (b *kmpBuilder) Validate(ctx *core.BuildContext) error {
	ndk, err := b.detect(ctx)
	if err != nil {
		return err
	}
	return ndk.Validate()
}

func (b *kmpBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	ndk, err := b.detect(ctx)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		ctx:        ctx,
		platform:   core.PlatformKMP,
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

	projectDir := filepath.Join(ctx.ProjectRoot, kmpProjectDir)
	if !utils.DirExists(projectDir) {
		fmt.Fprintf(os.Stderr, "%sNo KMP project at %s, skipping AAR packaging%s\n",
			colors.Yellow, projectDir, colors.Reset)
		return result, nil
	}

	module := ctx.Config.Android.Module
	libsRoot := filepath.Join(projectDir, module, "src", "androidMain", "jniLibs")
	if err := syncNativeLibs(libsRoot, p.sharedLibs); err != nil {
		return nil, err
	}

	dest := filepath.Join(ctx.OutputDir(core.PlatformKMP),
		fmt.Sprintf("%s-kmp-%s.aar", ctx.LibName(), ctx.FullVersion()))
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

func (b *kmpBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, core.PlatformKMP)
}
