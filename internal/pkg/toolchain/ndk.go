package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// NDK environment overrides, checked in this priority order.
var ndkEnvVars = []string{"ANDROID_NDK_HOME", "ANDROID_NDK_ROOT", "NDK_ROOT"}

// AndroidABIs lists the default Android build architectures.
var AndroidABIs = []string{"arm64-v8a", "armeabi-v7a", "x86_64", "x86"}

// abiTriples maps each ABI to its clang compiler triple.
var abiTriples = map[string]string{
	"arm64-v8a":   "aarch64-linux-android",
	"armeabi-v7a": "armv7a-linux-androideabi",
	"x86":         "i686-linux-android",
	"x86_64":      "x86_64-linux-android",
}

// abiLibDirs maps each ABI to the NDK runtime-library directory name.
// armeabi-v7a's directory differs from its compiler triple, so this is
// a dedicated lookup and never derived by string substitution.
var abiLibDirs = map[string]string{
	"arm64-v8a":   "aarch64-linux-android",
	"armeabi-v7a": "arm-linux-androideabi",
	"x86":         "i686-linux-android",
	"x86_64":      "x86_64-linux-android",
}

// NDK is the Android NDK toolchain.
type NDK struct {
	root string
	api  int
}

// DetectNDK locates an Android NDK install. Environment variables win
// over conventional SDK locations; within an SDK ndk/ directory the
// highest version is picked.
func DetectNDK(api int) (*NDK, error) {
	if api <= 0 {
		api = 21
	}

	if root := firstEnvDir(ndkEnvVars); root != "" {
		return &NDK{root: root, api: api}, nil
	}

	for _, ndkDir := range conventionalNDKDirs() {
		if root := highestVersionDir(ndkDir); root != "" {
			return &NDK{root: root, api: api}, nil
		}
	}

	return nil, errors.NewToolError("Android NDK",
		"NDK not found after checking ANDROID_NDK_HOME, ANDROID_NDK_ROOT, NDK_ROOT and SDK install locations",
		"install the NDK via Android Studio or set ANDROID_NDK_HOME to its root")
}

func conventionalNDKDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{filepath.Join(home, "Library", "Android", "sdk", "ndk")}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return []string{filepath.Join(localAppData, "Android", "Sdk", "ndk")}
		}
		return nil
	default:
		return []string{filepath.Join(home, "Android", "Sdk", "ndk")}
	}
}

// highestVersionDir returns the sub-directory of dir with the highest
// dotted version name, or "" when dir has no version sub-directories.
func highestVersionDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	if len(versions) == 0 {
		return ""
	}
	sort.Slice(versions, func(i, j int) bool {
		return compareVersionNames(versions[i], versions[j]) < 0
	})
	return filepath.Join(dir, versions[len(versions)-1])
}

func compareVersionNames(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, aerr := strconv.Atoi(as[i])
		bi, berr := strconv.Atoi(bs[i])
		if aerr != nil || berr != nil {
			if as[i] != bs[i] {
				return strings.Compare(as[i], bs[i])
			}
			continue
		}
		if ai != bi {
			return ai - bi
		}
	}
	return len(as) - len(bs)
}

func (n *NDK) Name() string { return "Android NDK" }

func (n *NDK) Path() string { return n.root }

// Validate re-checks that the NDK's CMake toolchain file still exists.
func (n *NDK) Validate() error {
	if !fileExists(n.toolchainFile()) {
		return errors.NewToolError("Android NDK",
			fmt.Sprintf("toolchain file missing under %s", n.root),
			"reinstall the NDK or point ANDROID_NDK_HOME at a complete install")
	}
	return nil
}

func (n *NDK) toolchainFile() string {
	return filepath.Join(n.root, "build", "cmake", "android.toolchain.cmake")
}

// Bindings returns the CMake cache variables configuring a cross build
// for one ABI.
func (n *NDK) Bindings(abi string) (map[string]string, error) {
	if _, ok := abiTriples[abi]; !ok {
		return nil, fmt.Errorf("unsupported Android ABI %q", abi)
	}
	return map[string]string{
		"CMAKE_TOOLCHAIN_FILE": n.toolchainFile(),
		"ANDROID_NDK":          n.root,
		"ANDROID_ABI":          abi,
		"ANDROID_PLATFORM":     fmt.Sprintf("android-%d", n.api),
		"ANDROID_STL":          "c++_static",
	}, nil
}

// RuntimeLibDir returns the NDK runtime-library directory name for abi.
func (n *NDK) RuntimeLibDir(abi string) (string, error) {
	dir, ok := abiLibDirs[abi]
	if !ok {
		return "", fmt.Errorf("unsupported Android ABI %q", abi)
	}
	return dir, nil
}

// CompilerTriple returns the clang triple for abi.
func (n *NDK) CompilerTriple(abi string) (string, error) {
	triple, ok := abiTriples[abi]
	if !ok {
		return "", fmt.Errorf("unsupported Android ABI %q", abi)
	}
	return triple, nil
}
