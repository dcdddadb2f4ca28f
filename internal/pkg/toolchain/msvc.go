package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// EnvMSVCSnapshot points at an xwin-style Windows SDK snapshot used for
// cross builds from non-Windows hosts.
const EnvMSVCSnapshot = "CCGO_XWIN_DIR"

// MSVC is the Microsoft toolchain: native cl.exe on Windows, or an SDK
// snapshot plus a clang-cl compiler wrapper everywhere else.
type MSVC struct {
	native      bool
	snapshotDir string // cross mode only
	compiler    string
}

// DetectMSVC locates a usable MSVC toolchain. On Windows: cl on PATH,
// then a vswhere query. Elsewhere: an SDK snapshot directory paired
// with clang-cl.
func DetectMSVC() (*MSVC, error) {
	if runtime.GOOS == "windows" {
		if path, err := execLookPath("cl"); err == nil {
			return &MSVC{native: true, compiler: path}, nil
		}
		if path := vswhereCompiler(); path != "" {
			return &MSVC{native: true, compiler: path}, nil
		}
		return nil, errors.NewToolError("MSVC",
			"cl.exe not found on PATH and vswhere reported no Visual Studio install",
			"install Visual Studio Build Tools or run from a developer command prompt")
	}

	snapshot := os.Getenv(EnvMSVCSnapshot)
	if snapshot == "" || !dirExists(snapshot) {
		return nil, errors.NewToolError("MSVC",
			"cross builds need a Windows SDK snapshot; "+EnvMSVCSnapshot+" is unset or missing",
			"create one with `xwin splat --output <dir>` and export "+EnvMSVCSnapshot)
	}
	clangCL, err := execLookPath("clang-cl")
	if err != nil {
		return nil, errors.NewToolError("MSVC",
			"clang-cl compiler wrapper not found on PATH",
			"install LLVM (apt install clang-tools / brew install llvm)")
	}
	return &MSVC{snapshotDir: snapshot, compiler: clangCL}, nil
}

func vswhereCompiler() string {
	programFiles := os.Getenv("ProgramFiles(x86)")
	if programFiles == "" {
		return ""
	}
	vswhere := filepath.Join(programFiles, "Microsoft Visual Studio", "Installer", "vswhere.exe")
	if !fileExists(vswhere) {
		return ""
	}
	out, err := execCommand(vswhere, "-latest", "-products", "*",
		"-requires", "Microsoft.VisualStudio.Component.VC.Tools.x86.x64",
		"-property", "installationPath").Output()
	if err != nil {
		return ""
	}
	install := strings.TrimSpace(string(out))
	if install == "" {
		return ""
	}
	// The exact cl.exe lives under a versioned MSVC directory.
	pattern := filepath.Join(install, "VC", "Tools", "MSVC", "*", "bin", "Hostx64", "x64", "cl.exe")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}

func (m *MSVC) Name() string { return "MSVC" }

func (m *MSVC) Path() string {
	if m.native {
		return m.compiler
	}
	return m.snapshotDir
}

// Validate re-checks that the compiler and snapshot still exist.
func (m *MSVC) Validate() error {
	if !fileExists(m.compiler) {
		if _, err := execLookPath(m.compiler); err != nil {
			return errors.NewToolError("MSVC", fmt.Sprintf("compiler %s no longer exists", m.compiler),
				"reinstall the toolchain")
		}
	}
	if !m.native && !dirExists(m.snapshotDir) {
		return errors.NewToolError("MSVC", fmt.Sprintf("SDK snapshot %s no longer exists", m.snapshotDir),
			"recreate it with `xwin splat` and fix "+EnvMSVCSnapshot)
	}
	return nil
}

// Bindings returns the CMake cache variables for an MSVC build.
func (m *MSVC) Bindings(arch string) (map[string]string, error) {
	if arch != "x86_64" && arch != "arm64" {
		return nil, fmt.Errorf("unsupported MSVC architecture %q", arch)
	}
	if m.native {
		return map[string]string{
			"CMAKE_C_COMPILER":   m.compiler,
			"CMAKE_CXX_COMPILER": m.compiler,
		}, nil
	}
	target := "x86_64-pc-windows-msvc"
	if arch == "arm64" {
		target = "aarch64-pc-windows-msvc"
	}
	flags := fmt.Sprintf("--target=%s /vctoolsdir %s /winsdkdir %s",
		target,
		filepath.Join(m.snapshotDir, "crt"),
		filepath.Join(m.snapshotDir, "sdk"))
	return map[string]string{
		"CMAKE_SYSTEM_NAME":    "Windows",
		"CMAKE_SYSTEM_VERSION": "10.0",
		"CMAKE_C_COMPILER":     m.compiler,
		"CMAKE_CXX_COMPILER":   m.compiler,
		"CMAKE_C_FLAGS_INIT":   flags,
		"CMAKE_CXX_FLAGS_INIT": flags,
	}, nil
}
