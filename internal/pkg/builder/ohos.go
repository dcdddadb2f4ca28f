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

type ohosBuilder struct{}

func (b *ohosBuilder) Platform() core.Platform { return core.PlatformOHOS }

func (b *ohosBuilder) DefaultArchs() []string { return toolchain.OHOSArchs }

func (b *ohosBuilder) detect(ctx *core.BuildContext) (*toolchain.OHOSSDK, error) {
	return toolchain.DetectOHOS(ctx.Config.Harmony.MinAPI)
}

func (b *ohosBuilder) Validate(ctx *core.BuildContext) error {
	sdk, err := b.detect(ctx)
	if err != nil {
		return err
	}
	return sdk.Validate()
}

func (b *ohosBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	sdk, err := b.detect(ctx)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		ctx:        ctx,
		platform:   core.PlatformOHOS,
		tc:         sdk,
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

	projectDir := filepath.Join(ctx.ProjectRoot, ctx.Config.Harmony.ProjectDir)
	if !utils.DirExists(projectDir) {
		fmt.Fprintf(os.Stderr, "%sNo Hvigor project at %s, skipping HAR packaging%s\n",
			colors.Yellow, projectDir, colors.Reset)
		return result, nil
	}

	module := ctx.Config.Harmony.Module
	libsRoot := filepath.Join(projectDir, module, "libs")
	if err := syncNativeLibs(libsRoot, p.sharedLibs); err != nil {
		return nil, err
	}

	dest := filepath.Join(ctx.OutputDir(core.PlatformOHOS),
		fmt.Sprintf("%s-%s.har", ctx.LibName(), ctx.FullVersion()))
	if err := hvigorPackage(projectDir, module, dest); err != nil {
		if ccgoerrors.IsPackagingError(err) {
			warnPackaging(err)
			return result, nil
		}
		return nil, err
	}
	result.PackagePath = dest
	return result, nil
}

func (b *ohosBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, core.PlatformOHOS)
}
