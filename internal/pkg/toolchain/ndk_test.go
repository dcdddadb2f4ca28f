package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

func fakeNDK(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "build", "cmake")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "android.toolchain.cmake"), []byte("# toolchain"), 0644))
	return root
}

func clearNDKEnv(t *testing.T) {
	t.Helper()
	for _, v := range ndkEnvVars {
		t.Setenv(v, "")
	}
	// Keep conventional install locations out of the probe.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCALAPPDATA", "")
}

func TestDetectNDKEnvPriority(t *testing.T) {
	clearNDKEnv(t)
	home := fakeNDK(t)
	root := fakeNDK(t)
	t.Setenv("ANDROID_NDK_HOME", home)
	t.Setenv("ANDROID_NDK_ROOT", root)
	t.Setenv("NDK_ROOT", fakeNDK(t))

	ndk, err := DetectNDK(24)
	require.NoError(t, err)
	// ANDROID_NDK_HOME wins over the two alternatives.
	assert.Equal(t, home, ndk.Path())
}

func TestDetectNDKFallsThroughUnsetVars(t *testing.T) {
	clearNDKEnv(t)
	root := fakeNDK(t)
	t.Setenv("NDK_ROOT", root)

	ndk, err := DetectNDK(21)
	require.NoError(t, err)
	assert.Equal(t, root, ndk.Path())
}

func TestDetectNDKNotFound(t *testing.T) {
	clearNDKEnv(t)

	_, err := DetectNDK(21)
	require.Error(t, err)
	assert.True(t, ccgoerrors.IsToolError(err))
	assert.Contains(t, err.Error(), "ANDROID_NDK_HOME")
}

func TestDetectNDKPicksHighestSDKVersion(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("conventional SDK location test uses the linux layout")
	}
	clearNDKEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	ndkBase := filepath.Join(home, "Android", "Sdk", "ndk")
	for _, version := range []string{"25.2.9519653", "27.0.12077973", "26.1.10909125"} {
		require.NoError(t, os.MkdirAll(filepath.Join(ndkBase, version), 0755))
	}

	ndk, err := DetectNDK(21)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ndkBase, "27.0.12077973"), ndk.Path())
}

func TestNDKValidate(t *testing.T) {
	clearNDKEnv(t)
	root := fakeNDK(t)
	t.Setenv("ANDROID_NDK_HOME", root)

	ndk, err := DetectNDK(21)
	require.NoError(t, err)
	require.NoError(t, ndk.Validate())

	// A toolchain removed mid-run is caught by re-validation.
	require.NoError(t, os.RemoveAll(filepath.Join(root, "build")))
	err = ndk.Validate()
	require.Error(t, err)
	assert.True(t, ccgoerrors.IsToolError(err))
}

func TestNDKBindings(t *testing.T) {
	ndk := &NDK{root: "/opt/ndk", api: 24}
	bindings, err := ndk.Bindings("arm64-v8a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/ndk", "build", "cmake", "android.toolchain.cmake"),
		bindings["CMAKE_TOOLCHAIN_FILE"])
	assert.Equal(t, "arm64-v8a", bindings["ANDROID_ABI"])
	assert.Equal(t, "android-24", bindings["ANDROID_PLATFORM"])
	assert.Equal(t, "c++_static", bindings["ANDROID_STL"])

	_, err = ndk.Bindings("mips")
	assert.Error(t, err)
}

func TestArmV7LibDirDiffersFromTriple(t *testing.T) {
	ndk := &NDK{root: "/opt/ndk", api: 21}

	triple, err := ndk.CompilerTriple("armeabi-v7a")
	require.NoError(t, err)
	libDir, err := ndk.RuntimeLibDir("armeabi-v7a")
	require.NoError(t, err)

	// The runtime library directory is a dedicated mapping, not a
	// substring of the compiler triple.
	assert.Equal(t, "armv7a-linux-androideabi", triple)
	assert.Equal(t, "arm-linux-androideabi", libDir)
	assert.NotEqual(t, triple, libDir)

	// Every other ABI matches between the two maps.
	for _, abi := range []string{"arm64-v8a", "x86_64", "x86"} {
		triple, err := ndk.CompilerTriple(abi)
		require.NoError(t, err)
		libDir, err := ndk.RuntimeLibDir(abi)
		require.NoError(t, err)
		assert.Equal(t, triple, libDir, abi)
	}
}

func TestCompareVersionNames(t *testing.T) {
	assert.Negative(t, compareVersionNames("25.2.9519653", "27.0.12077973"))
	assert.Positive(t, compareVersionNames("27.0.12077973", "26.1.10909125"))
	assert.Zero(t, compareVersionNames("26.1", "26.1"))
	assert.Negative(t, compareVersionNames("26.1", "26.1.5"))
}
