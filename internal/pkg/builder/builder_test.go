package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

func TestForDispatch(t *testing.T) {
	for _, p := range core.ConcretePlatforms() {
		b, err := For(p)
		require.NoError(t, err, p)
		assert.Equal(t, p, b.Platform(), p)
		assert.NotEmpty(t, b.DefaultArchs(), p)
	}
}

func TestForRejectsMetaPlatforms(t *testing.T) {
	for _, p := range []core.Platform{core.PlatformApple, core.PlatformAll} {
		_, err := For(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expanded")
	}
}

func TestForRejectsUnknown(t *testing.T) {
	_, err := For(core.Platform("freebsd"))
	assert.Error(t, err)
}

func TestAndroidDefaultArchs(t *testing.T) {
	b, err := For(core.PlatformAndroid)
	require.NoError(t, err)
	assert.Equal(t, []string{"arm64-v8a", "armeabi-v7a", "x86_64", "x86"}, b.DefaultArchs())
}

func TestRequestedArchsFallback(t *testing.T) {
	ctx := testContext(t, core.BuildOptions{})
	assert.Equal(t, []string{"a", "b"}, requestedArchs(ctx, []string{"a", "b"}))

	ctx.Options.Archs = []string{"arm64-v8a"}
	assert.Equal(t, []string{"arm64-v8a"}, requestedArchs(ctx, []string{"a", "b"}))
}

func testContext(t *testing.T, opts core.BuildOptions) *core.BuildContext {
	t.Helper()
	return &core.BuildContext{
		ProjectRoot: t.TempDir(),
		Config:      &config.Project{Name: "mylib", Version: "1.0.0"},
		Options:     opts,
		Version:     core.VersionInfo{Base: "1.0.0"},
	}
}

func TestCleanPlatformRemovesOnlyItsDirs(t *testing.T) {
	ctx := testContext(t, core.BuildOptions{})
	root := ctx.ProjectRoot

	// New layout, both modes, plus the legacy flat layout.
	dirs := []string{
		filepath.Join(root, "cmake_build", "release", "android"),
		filepath.Join(root, "cmake_build", "debug", "android"),
		filepath.Join(root, "target", "release", "android"),
		filepath.Join(root, "target", "debug", "android"),
		filepath.Join(root, "cmake_build", "Android"),
		filepath.Join(root, "target", "android"),
		// Another platform that must survive.
		filepath.Join(root, "cmake_build", "release", "linux"),
		filepath.Join(root, "target", "release", "linux"),
	}
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	require.NoError(t, cleanPlatform(ctx, core.PlatformAndroid))

	for _, dir := range dirs[:6] {
		assert.NoDirExists(t, dir, dir)
	}
	assert.DirExists(t, filepath.Join(root, "cmake_build", "release", "linux"))
	assert.DirExists(t, filepath.Join(root, "target", "release", "linux"))
}

func TestBuilderCleanUsesPlatformDirs(t *testing.T) {
	ctx := testContext(t, core.BuildOptions{})
	b, err := For(core.PlatformIOS)
	require.NoError(t, err)

	dir := filepath.Join(ctx.ProjectRoot, "cmake_build", "debug", "ios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, b.Clean(ctx))
	assert.NoDirExists(t, dir)
}

func TestVariants(t *testing.T) {
	p := &pipeline{ctx: testContext(t, core.BuildOptions{Link: core.LinkBoth})}
	assert.Equal(t, []string{"static", "shared"}, p.variants())

	p.ctx.Options.Link = core.LinkStatic
	assert.Equal(t, []string{"static"}, p.variants())

	p.ctx.Options.Link = core.LinkShared
	assert.Equal(t, []string{"shared"}, p.variants())
}

func TestHostArchNonEmpty(t *testing.T) {
	assert.NotEmpty(t, hostArch())
}
