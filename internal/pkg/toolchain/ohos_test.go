package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

func clearOHOSEnv(t *testing.T) {
	t.Helper()
	for _, v := range ohosEnvVars {
		t.Setenv(v, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCALAPPDATA", "")
}

func fakeOHOS(t *testing.T, nested bool) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "build", "cmake")
	if nested {
		dir = filepath.Join(root, "native", "build", "cmake")
	}
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ohos.toolchain.cmake"), []byte("# toolchain"), 0644))
	return root
}

func TestDetectOHOSEnvPriority(t *testing.T) {
	clearOHOSEnv(t)
	sdkHome := fakeOHOS(t, false)
	t.Setenv("OHOS_SDK_HOME", sdkHome)
	t.Setenv("OHOS_NDK_HOME", fakeOHOS(t, false))

	sdk, err := DetectOHOS(12)
	require.NoError(t, err)
	assert.Equal(t, sdkHome, sdk.Path())
}

func TestDetectOHOSNotFound(t *testing.T) {
	clearOHOSEnv(t)

	_, err := DetectOHOS(10)
	require.Error(t, err)
	assert.True(t, ccgoerrors.IsToolError(err))
	assert.Contains(t, err.Error(), "OHOS_SDK_HOME")
}

func TestOHOSToolchainFileNestedLayout(t *testing.T) {
	// Roots pointing at the sdk dir find native/build/cmake; roots
	// pointing at native/ find it directly.
	nested := &OHOSSDK{root: fakeOHOS(t, true), api: 10}
	require.NoError(t, nested.Validate())
	assert.Equal(t, filepath.Join(nested.root, "native", "build", "cmake", "ohos.toolchain.cmake"),
		nested.toolchainFile())

	direct := &OHOSSDK{root: fakeOHOS(t, false), api: 10}
	require.NoError(t, direct.Validate())
	assert.Equal(t, filepath.Join(direct.root, "build", "cmake", "ohos.toolchain.cmake"),
		direct.toolchainFile())
}

func TestOHOSBindings(t *testing.T) {
	sdk := &OHOSSDK{root: "/opt/ohos", api: 12}
	bindings, err := sdk.Bindings("arm64-v8a")
	require.NoError(t, err)
	assert.Equal(t, "arm64-v8a", bindings["OHOS_ARCH"])
	assert.Equal(t, "OHOS", bindings["OHOS_PLATFORM"])
	assert.Equal(t, "c++_static", bindings["OHOS_STL"])

	_, err = sdk.Bindings("riscv64")
	assert.Error(t, err)
}
