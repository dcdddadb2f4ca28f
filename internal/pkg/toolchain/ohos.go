package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// OHOS SDK environment overrides, checked in this priority order.
var ohosEnvVars = []string{"OHOS_SDK_HOME", "OHOS_NDK_HOME"}

// OHOSArchs lists the default OpenHarmony build architectures.
var OHOSArchs = []string{"arm64-v8a", "armeabi-v7a", "x86_64"}

// OHOSSDK is the OpenHarmony native SDK toolchain.
type OHOSSDK struct {
	root string
	api  int
}

// DetectOHOS locates an OpenHarmony SDK install.
func DetectOHOS(api int) (*OHOSSDK, error) {
	if api <= 0 {
		api = 10
	}

	if root := firstEnvDir(ohosEnvVars); root != "" {
		return &OHOSSDK{root: root, api: api}, nil
	}

	for _, dir := range conventionalOHOSDirs() {
		if root := highestVersionDir(dir); root != "" {
			return &OHOSSDK{root: root, api: api}, nil
		}
		if dirExists(dir) {
			return &OHOSSDK{root: dir, api: api}, nil
		}
	}

	return nil, errors.NewToolError("OHOS SDK",
		"OpenHarmony SDK not found after checking OHOS_SDK_HOME, OHOS_NDK_HOME and DevEco install locations",
		"install the SDK via DevEco Studio or set OHOS_SDK_HOME to its native/ directory")
}

func conventionalOHOSDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "OpenHarmony", "Sdk"),
			"/Applications/DevEco-Studio.app/Contents/sdk/default/openharmony/native",
		}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return []string{filepath.Join(localAppData, "OpenHarmony", "Sdk")}
		}
		return nil
	default:
		return []string{filepath.Join(home, "OpenHarmony", "Sdk")}
	}
}

func (s *OHOSSDK) Name() string { return "OHOS SDK" }

func (s *OHOSSDK) Path() string { return s.root }

func (s *OHOSSDK) toolchainFile() string {
	// SDK roots may point at the sdk directory or directly at native/.
	direct := filepath.Join(s.root, "build", "cmake", "ohos.toolchain.cmake")
	if fileExists(direct) {
		return direct
	}
	return filepath.Join(s.root, "native", "build", "cmake", "ohos.toolchain.cmake")
}

// Validate re-checks that the SDK's CMake toolchain file still exists.
func (s *OHOSSDK) Validate() error {
	if !fileExists(s.toolchainFile()) {
		return errors.NewToolError("OHOS SDK",
			fmt.Sprintf("ohos.toolchain.cmake missing under %s", s.root),
			"reinstall the native SDK or point OHOS_SDK_HOME at a complete install")
	}
	return nil
}

// Bindings returns the CMake cache variables configuring a cross build
// for one OHOS architecture.
func (s *OHOSSDK) Bindings(arch string) (map[string]string, error) {
	supported := false
	for _, a := range OHOSArchs {
		if a == arch {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported OHOS architecture %q", arch)
	}
	return map[string]string{
		"CMAKE_TOOLCHAIN_FILE": s.toolchainFile(),
		"OHOS_ARCH":            arch,
		"OHOS_PLATFORM":        "OHOS",
		"OHOS_STL":             "c++_static",
	}, nil
}
