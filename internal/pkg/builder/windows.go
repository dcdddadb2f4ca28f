package builder

import (
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
)

type windowsBuilder struct{}

func (b *windowsBuilder) Platform() core.Platform { return core.PlatformWindows }

func (b *windowsBuilder) DefaultArchs() []string { return []string{"x86_64"} }

func (b *windowsBuilder) detect(ctx *core.BuildContext) (toolchain.Toolchain, error) {
	if ctx.Options.WinToolchain == core.WindowsMSVC {
		return toolchain.DetectMSVC()
	}
	return toolchain.DetectMinGW()
}

func (b *windowsBuilder) Validate(ctx *core.BuildContext) error {
	tc, err := b.detect(ctx)
	if err != nil {
		return err
	}
	return tc.Validate()
}

func (b *windowsBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	tc, err := b.detect(ctx)
	if err != nil {
		return nil, err
	}

	// MinGW produces Unix-style archives; MSVC produces .lib and uses
	// its own librarian, so merging stays with llvm-ar which reads both.
	staticExt := ".a"
	if ctx.Options.WinToolchain == core.WindowsMSVC {
		staticExt = ".lib"
	}

	p := &pipeline{
		ctx:        ctx,
		platform:   core.PlatformWindows,
		tc:         tc,
		staticExt:  staticExt,
		sharedExts: []string{".dll"},
		arTool:     findArTool(),
		stripTool:  findStripTool(),
	}
	return p.run(requestedArchs(ctx, b.DefaultArchs()))
}

func (b *windowsBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, core.PlatformWindows)
}
