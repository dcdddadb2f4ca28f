package core

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

func testContext(opts BuildOptions) *BuildContext {
	cfg := &config.Project{Name: "MyLib", Version: "1.2.3"}
	return &BuildContext{
		ProjectRoot: filepath.Join("/", "proj"),
		Config:      cfg,
		Options:     opts,
		Version:     VersionInfo{Base: cfg.Version},
	}
}

func TestBuildDirsAreLowerCased(t *testing.T) {
	ctx := testContext(BuildOptions{Release: true})

	// Display casing must never leak into the path segment.
	for _, p := range ConcretePlatforms() {
		build := ctx.CMakeBuildDir(p)
		out := ctx.OutputDir(p)
		assert.Equal(t, filepath.Join("/", "proj", "cmake_build", "release", p.Lower()), build)
		assert.Equal(t, filepath.Join("/", "proj", "target", "release", p.Lower()), out)
	}
}

func TestBuildDirsDebugMode(t *testing.T) {
	ctx := testContext(BuildOptions{})
	assert.Equal(t, filepath.Join("/", "proj", "cmake_build", "debug", "android"),
		ctx.CMakeBuildDir(PlatformAndroid))
}

func TestLegacyLayout(t *testing.T) {
	ctx := testContext(BuildOptions{})
	// The legacy build tree used the display casing, flat.
	assert.Equal(t, filepath.Join("/", "proj", "cmake_build", "macOS"),
		ctx.LegacyCMakeBuildDir(PlatformMacOS))
	assert.Equal(t, filepath.Join("/", "proj", "target", "macos"),
		ctx.LegacyOutputDir(PlatformMacOS))
}

func TestLibNameIsLowered(t *testing.T) {
	ctx := testContext(BuildOptions{})
	assert.Equal(t, "mylib", ctx.LibName())
}

func TestJobsOrDefault(t *testing.T) {
	ctx := testContext(BuildOptions{Jobs: 7})
	assert.Equal(t, 7, ctx.JobsOrDefault())

	ctx = testContext(BuildOptions{})
	assert.Equal(t, runtime.NumCPU(), ctx.JobsOrDefault())
}

func TestModuleGraph(t *testing.T) {
	ctx := testContext(BuildOptions{})
	ctx.Config.Modules = map[string][]string{
		"codec": {"base", "io"},
		"base":  {},
		"io":    {"base"},
	}
	// Modules sorted by name, each followed by its dependency list.
	assert.Equal(t, "base;;codec;base,io;io;base", ctx.ModuleGraph())
}

func TestModuleGraphEmpty(t *testing.T) {
	ctx := testContext(BuildOptions{})
	assert.Equal(t, "", ctx.ModuleGraph())
}

func TestSymbolVisibility(t *testing.T) {
	ctx := testContext(BuildOptions{})
	assert.Equal(t, 1, ctx.SymbolVisibility())

	ctx.Config.HiddenSymbols = true
	assert.Equal(t, 0, ctx.SymbolVisibility())
}

func TestVersionFull(t *testing.T) {
	v := VersionInfo{Base: "1.2.3"}
	assert.Equal(t, "1.2.3", v.Full())

	v.Commit = "abc1234"
	assert.Equal(t, "1.2.3-abc1234", v.Full())

	v.Dirty = true
	assert.Equal(t, "1.2.3-abc1234-dirty", v.Full())
}

func TestFindGitDirMissing(t *testing.T) {
	assert.Equal(t, "", FindGitDir(t.TempDir()))
}
