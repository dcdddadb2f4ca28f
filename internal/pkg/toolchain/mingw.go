package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhlinh/ccgo-sub000/pkg/errors"
)

const mingwTriple = "x86_64-w64-mingw32"

// MinGW is the MinGW-w64 cross toolchain for Windows targets.
type MinGW struct {
	root   string // "" when the compilers come from PATH
	prefix string // compiler name prefix, with trailing dash
}

// DetectMinGW locates a MinGW-w64 install: MINGW_HOME first, then the
// prefixed cross compilers on PATH, then conventional install roots.
func DetectMinGW() (*MinGW, error) {
	if root := os.Getenv("MINGW_HOME"); root != "" && dirExists(root) {
		return &MinGW{root: root, prefix: mingwTriple + "-"}, nil
	}

	if _, err := execLookPath(mingwTriple + "-gcc"); err == nil {
		return &MinGW{prefix: mingwTriple + "-"}, nil
	}

	for _, root := range []string{
		filepath.Join("/usr", mingwTriple),
		"C:\\msys64\\mingw64",
		"C:\\mingw64",
	} {
		if dirExists(root) {
			return &MinGW{root: root, prefix: mingwTriple + "-"}, nil
		}
	}

	return nil, errors.NewToolError("MinGW-w64",
		"x86_64-w64-mingw32-gcc not found on PATH and no install directory detected",
		"install mingw-w64 (apt install mingw-w64 / brew install mingw-w64) or set MINGW_HOME")
}

func (m *MinGW) Name() string { return "MinGW-w64" }

func (m *MinGW) Path() string { return m.root }

func (m *MinGW) compiler(tool string) string {
	name := m.prefix + tool
	if m.root == "" {
		return name
	}
	return filepath.Join(m.root, "bin", name)
}

// Validate re-checks that the cross compiler is still reachable.
func (m *MinGW) Validate() error {
	cc := m.compiler("gcc")
	if strings.Contains(cc, string(os.PathSeparator)) {
		if !fileExists(cc) && !fileExists(cc+".exe") {
			return errors.NewToolError("MinGW-w64", fmt.Sprintf("%s no longer exists", cc),
				"reinstall mingw-w64 or fix MINGW_HOME")
		}
		return nil
	}
	if _, err := execLookPath(cc); err != nil {
		return errors.NewToolError("MinGW-w64", fmt.Sprintf("%s vanished from PATH", cc),
			"reinstall mingw-w64 or fix MINGW_HOME")
	}
	return nil
}

// Bindings returns the CMake cache variables for a Windows cross build.
func (m *MinGW) Bindings(arch string) (map[string]string, error) {
	if arch != "x86_64" {
		return nil, fmt.Errorf("unsupported MinGW architecture %q", arch)
	}
	return map[string]string{
		"CMAKE_SYSTEM_NAME":      "Windows",
		"CMAKE_SYSTEM_PROCESSOR": arch,
		"CMAKE_C_COMPILER":       m.compiler("gcc"),
		"CMAKE_CXX_COMPILER":     m.compiler("g++"),
		"CMAKE_RC_COMPILER":      m.compiler("windres"),
	}, nil
}
