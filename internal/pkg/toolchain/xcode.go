package toolchain

import (
	"fmt"
	"strings"

	"github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// Apple SDK names accepted by xcrun and CMAKE_OSX_SYSROOT.
const (
	SDKMacOS          = "macosx"
	SDKiPhoneOS       = "iphoneos"
	SDKiPhoneSim      = "iphonesimulator"
	SDKAppleTVOS      = "appletvos"
	SDKAppleTVSim     = "appletvsimulator"
	SDKWatchOS        = "watchos"
	SDKWatchSimulator = "watchsimulator"
)

// sdkSystemNames maps each Apple SDK to its CMAKE_SYSTEM_NAME.
var sdkSystemNames = map[string]string{
	SDKMacOS:          "Darwin",
	SDKiPhoneOS:       "iOS",
	SDKiPhoneSim:      "iOS",
	SDKAppleTVOS:      "tvOS",
	SDKAppleTVSim:     "tvOS",
	SDKWatchOS:        "watchOS",
	SDKWatchSimulator: "watchOS",
}

// Xcode is the Apple toolchain for one SDK. All Apple platforms share a
// single Xcode install, which is why their builds serialize.
type Xcode struct {
	devDir     string
	sdk        string
	deployment string
}

// DetectXcode locates the active Xcode developer directory and verifies
// that the requested SDK is installed.
func DetectXcode(sdk, deployment string) (*Xcode, error) {
	if _, ok := sdkSystemNames[sdk]; !ok {
		return nil, fmt.Errorf("unknown Apple SDK %q", sdk)
	}

	out, err := execCommand("xcode-select", "-p").Output()
	if err != nil {
		return nil, errors.NewToolError("Xcode",
			"xcode-select reported no developer directory",
			"install Xcode and run `xcode-select --switch /Applications/Xcode.app`")
	}
	devDir := strings.TrimSpace(string(out))

	if _, err := execCommand("xcrun", "--sdk", sdk, "--show-sdk-path").Output(); err != nil {
		return nil, errors.NewToolError("Xcode",
			fmt.Sprintf("SDK %q is not installed in %s", sdk, devDir),
			"install the platform support package in Xcode's Settings > Platforms")
	}

	return &Xcode{devDir: devDir, sdk: sdk, deployment: deployment}, nil
}

func (x *Xcode) Name() string { return "Xcode" }

func (x *Xcode) Path() string { return x.devDir }

// SDK returns the SDK name this toolchain targets.
func (x *Xcode) SDK() string { return x.sdk }

// Validate re-checks that the developer directory and SDK still exist.
func (x *Xcode) Validate() error {
	if !dirExists(x.devDir) {
		return errors.NewToolError("Xcode",
			fmt.Sprintf("developer directory %s no longer exists", x.devDir),
			"run `xcode-select --switch` to a valid Xcode install")
	}
	if _, err := execCommand("xcrun", "--sdk", x.sdk, "--show-sdk-path").Output(); err != nil {
		return errors.NewToolError("Xcode",
			fmt.Sprintf("SDK %q vanished from %s", x.sdk, x.devDir),
			"reinstall the platform support package in Xcode")
	}
	return nil
}

// Bindings returns the CMake cache variables for one Apple architecture.
func (x *Xcode) Bindings(arch string) (map[string]string, error) {
	bindings := map[string]string{
		"CMAKE_SYSTEM_NAME":       sdkSystemNames[x.sdk],
		"CMAKE_OSX_SYSROOT":       x.sdk,
		"CMAKE_OSX_ARCHITECTURES": arch,
	}
	if x.deployment != "" {
		bindings["CMAKE_OSX_DEPLOYMENT_TARGET"] = x.deployment
	}
	return bindings, nil
}
