// Package toolchain locates and validates the external SDKs and
// compiler families the platform builders depend on. Detection walks a
// fixed, ordered list of signals (environment variables first, then
// platform-conventional install locations) and fails only after every
// signal is exhausted. Detectors are stateless after construction.
package toolchain

import (
	"os"
	"os/exec"
)

// Variables for mocking in tests
var (
	execCommand  = exec.Command
	execLookPath = exec.LookPath
)

// Toolchain is a detected SDK or compiler family exposing the CMake
// variable bindings that configure cross-compilation for one
// architecture. Validate re-checks file existence and is called
// immediately before use, independent of detection: a toolchain
// discovered at startup but removed mid-run is still caught.
type Toolchain interface {
	Name() string
	Path() string
	Validate() error
	Bindings(arch string) (map[string]string, error)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// firstEnvDir returns the first environment variable from names whose
// value points at an existing directory, or "".
func firstEnvDir(names []string) string {
	for _, name := range names {
		if dir := os.Getenv(name); dir != "" && dirExists(dir) {
			return dir
		}
	}
	return ""
}
