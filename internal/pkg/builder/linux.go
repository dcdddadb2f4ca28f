package builder

import (
	"runtime"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
)

type linuxBuilder struct{}

func (b *linuxBuilder) Platform() core.Platform { return core.PlatformLinux }

func (b *linuxBuilder) DefaultArchs() []string { return []string{hostArch()} }

func (b *linuxBuilder) Validate(ctx *core.BuildContext) error {
	cc, err := toolchain.DetectHostCC()
	if err != nil {
		return err
	}
	return cc.Validate()
}

func (b *linuxBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	cc, err := toolchain.DetectHostCC()
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		ctx:        ctx,
		platform:   core.PlatformLinux,
		tc:         cc,
		staticExt:  ".a",
		sharedExts: []string{".so"},
		arTool:     findArTool(),
		stripTool:  findStripTool(),
	}
	return p.run(requestedArchs(ctx, b.DefaultArchs()))
}

func (b *linuxBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, core.PlatformLinux)
}

// hostArch maps the Go architecture name to the toolchain convention.
func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}
