package builder

import (
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
)

// appleBuilder covers the four Apple platforms. They differ only in
// which SDK the shared Xcode install provides and which architectures
// make sense for it.
type appleBuilder struct {
	platform core.Platform
	sdk      string
	archs    []string
}

func newAppleBuilder(platform core.Platform) *appleBuilder {
	b := &appleBuilder{platform: platform}
	switch platform {
	case core.PlatformMacOS:
		b.sdk = toolchain.SDKMacOS
		b.archs = []string{"arm64", "x86_64"}
	case core.PlatformIOS:
		b.sdk = toolchain.SDKiPhoneOS
		b.archs = []string{"arm64"}
	case core.PlatformTVOS:
		b.sdk = toolchain.SDKAppleTVOS
		b.archs = []string{"arm64"}
	case core.PlatformWatchOS:
		b.sdk = toolchain.SDKWatchOS
		b.archs = []string{"arm64", "arm64_32"}
	}
	return b
}

func (b *appleBuilder) Platform() core.Platform { return b.platform }

func (b *appleBuilder) DefaultArchs() []string { return b.archs }

func (b *appleBuilder) detect(ctx *core.BuildContext) (*toolchain.Xcode, error) {
	return toolchain.DetectXcode(b.sdk, ctx.Config.Apple.DeploymentTarget)
}

func (b *appleBuilder) Validate(ctx *core.BuildContext) error {
	xcode, err := b.detect(ctx)
	if err != nil {
		return err
	}
	return xcode.Validate()
}

func (b *appleBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	xcode, err := b.detect(ctx)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		ctx:        ctx,
		platform:   b.platform,
		tc:         xcode,
		staticExt:  ".a",
		sharedExts: []string{".dylib"},
		arTool:     "ar",
		stripTool:  "strip",
	}
	return p.run(requestedArchs(ctx, b.archs))
}

func (b *appleBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, b.platform)
}
