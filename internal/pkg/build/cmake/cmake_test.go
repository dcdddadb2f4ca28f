package cmake

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("GO_HELPER_FAIL") == "1" {
		os.Exit(2)
	}
	os.Exit(0)
}

func mockExecCommand(t *testing.T, fail bool) {
	t.Helper()
	oldExecCommand := execCommand
	t.Cleanup(func() { execCommand = oldExecCommand })

	execCommand = func(name string, arg ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, arg...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		if fail {
			cmd.Env = append(cmd.Env, "GO_HELPER_FAIL=1")
		}
		return cmd
	}
}

func TestConfigureArgs(t *testing.T) {
	inv := New("/src", "/build").
		SetBuildType(Release).
		InstallPrefix("/build/out").
		Generator("Ninja").
		ToolchainFile("/ndk/android.toolchain.cmake").
		Define("ANDROID_ABI", "arm64-v8a").
		DefineTyped("CCGO_VERSION", "STRING", "1.0.0").
		DefineBool("CCGO_BUILD_STATIC", true).
		DefineBool("CCGO_BUILD_SHARED", false)

	args := inv.ConfigureArgs()

	// Fixed prefix first.
	assert.Equal(t, []string{"-S", "/src", "-B", "/build",
		"-DCMAKE_BUILD_TYPE=Release",
		"-DCMAKE_INSTALL_PREFIX=/build/out",
		"-G", "Ninja",
		"-DCMAKE_TOOLCHAIN_FILE=/ndk/android.toolchain.cmake"}, args[:9])

	// Registered defines follow in sorted order, typed ones with :TYPE.
	assert.Equal(t, []string{
		"-DANDROID_ABI=arm64-v8a",
		"-DCCGO_BUILD_SHARED:BOOL=OFF",
		"-DCCGO_BUILD_STATIC:BOOL=ON",
		"-DCCGO_VERSION:STRING=1.0.0",
	}, args[9:])
}

func TestConfigureArgsMinimal(t *testing.T) {
	args := New("/src", "/build").ConfigureArgs()
	assert.Equal(t, []string{"-S", "/src", "-B", "/build", "-DCMAKE_BUILD_TYPE=Release"}, args)
}

func TestBuildArgs(t *testing.T) {
	inv := New("/src", "/build").Jobs(8)
	assert.Equal(t, []string{"--build", "/build", "-j8"}, inv.BuildArgs())

	inv = New("/src", "/build")
	assert.Equal(t, []string{"--build", "/build"}, inv.BuildArgs())
}

func TestDefineOverwrite(t *testing.T) {
	inv := New("/src", "/build").
		Define("FOO", "a").
		Define("FOO", "b")
	assert.Contains(t, inv.ConfigureArgs(), "-DFOO=b")
}

func TestConfigureCreatesBuildDir(t *testing.T) {
	mockExecCommand(t, false)

	buildDir := filepath.Join(t.TempDir(), "nested", "build")
	inv := New("/src", buildDir)
	require.NoError(t, inv.Configure())
	assert.DirExists(t, buildDir)
}

func TestConfigureFailureCarriesExitCode(t *testing.T) {
	mockExecCommand(t, true)

	inv := New("/src", t.TempDir())
	err := inv.Configure()
	require.Error(t, err)
	assert.True(t, ccgoerrors.IsSubprocessError(err))
	assert.Equal(t, 2, ccgoerrors.ExitCode(err))
}

func TestExtractPercent(t *testing.T) {
	assert.Equal(t, 93, extractPercent("[ 93%]"))
	assert.Equal(t, 5, extractPercent("[  5%]"))
	assert.Equal(t, 100, extractPercent("[100%]"))
	assert.Equal(t, -1, extractPercent("no progress here"))
}
