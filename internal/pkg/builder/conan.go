package builder

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/pack"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// conanBuilder exports the project into the local Conan cache via
// `conan create` and archives the resulting package folder.
type conanBuilder struct{}

func (b *conanBuilder) Platform() core.Platform { return core.PlatformConan }

func (b *conanBuilder) DefaultArchs() []string { return []string{hostArch()} }

func (b *conanBuilder) Validate(ctx *core.BuildContext) error {
	if _, err := execLookPath("conan"); err != nil {
		return ccgoerrors.NewToolError("Conan",
			"conan executable not found on PATH",
			"install it with `pip install conan`")
	}
	return nil
}

func (b *conanBuilder) Build(ctx *core.BuildContext) (*core.BuildResult, error) {
	start := time.Now()
	if err := b.Validate(ctx); err != nil {
		return nil, err
	}

	buildType := "Debug"
	if ctx.Options.Release {
		buildType = "Release"
	}
	cmd := execCommand("conan", "create", ".",
		"--name", ctx.LibName(),
		"--version", ctx.FullVersion(),
		"-s", "build_type="+buildType,
		"--build", "missing")
	cmd.Dir = ctx.ProjectRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, ccgoerrors.NewSubprocessError("conan", err, string(out))
	}

	archs := b.DefaultArchs()
	outputDir := ctx.OutputDir(core.PlatformConan)
	info := pack.NewBuildInfo(ctx.LibName(), core.PlatformConan.Lower(), ctx.FullVersion(),
		string(ctx.Options.Link), archs)
	info.Toolchain = "Conan"
	info.GitCommit = ctx.Version.Commit
	info.GitBranch = ctx.Version.Branch
	if err := info.Write(outputDir); err != nil {
		return nil, err
	}

	archivePath := filepath.Join(outputDir,
		pack.ArchiveName(ctx.LibName(), core.PlatformConan.Lower(), ctx.FullVersion()))
	ref := fmt.Sprintf("%s/%s", ctx.LibName(), ctx.FullVersion())
	if out, err := execCommand("conan", "cache", "path", ref).Output(); err == nil {
		pkgDir := strings.TrimSpace(string(out))
		if err := pack.Archive(pkgDir, archivePath); err != nil {
			return nil, err
		}
	} else {
		archivePath = ""
	}

	return &core.BuildResult{
		Platform:    core.PlatformConan,
		ArchivePath: archivePath,
		Duration:    time.Since(start),
		Archs:       archs,
	}, nil
}

func (b *conanBuilder) Clean(ctx *core.BuildContext) error {
	return cleanPlatform(ctx, core.PlatformConan)
}
