package core

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

//go:embed scripts
var supportScripts embed.FS

// EnvSupportDir overrides the CMake support-script directory.
const EnvSupportDir = "CCGO_CMAKE_DIR"

// keyScripts must all be present for an extracted script tree to count
// as complete; a partial tree is re-extracted.
var keyScripts = []string{"ccgo.cmake", "ccgo-visibility.cmake", "ccgo-modules.cmake"}

type supportDirProvider func() (string, error)

// SupportDir resolves the directory holding the CMake support scripts.
// Strategies are tried in order and the first existing directory wins:
// the embedded copy extracted to the per-user cache, the environment
// override, a path relative to the running executable (development
// mode), and finally a conan config query.
func SupportDir() (string, error) {
	providers := []supportDirProvider{
		extractedSupportDir,
		envSupportDir,
		exeRelativeSupportDir,
		conanSupportDir,
	}

	var lastErr error
	for _, provider := range providers {
		dir, err := provider()
		if err != nil {
			lastErr = err
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("cmake support scripts not found (set %s): %v", EnvSupportDir, lastErr)
}

// extractedSupportDir materializes the embedded script tree into the
// per-user cache. Files are written only when missing or when the key
// file set is incomplete.
func extractedSupportDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dest := filepath.Join(cacheDir, "ccgo", "cmake")

	if supportTreeComplete(dest) {
		return dest, nil
	}
	if err := extractSupportScripts(dest); err != nil {
		return "", err
	}
	return dest, nil
}

func supportTreeComplete(dir string) bool {
	for _, name := range keyScripts {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func extractSupportScripts(dest string) error {
	return fs.WalkDir(supportScripts, "scripts", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(path, "scripts")
		rel = strings.TrimPrefix(rel, "/")
		target := filepath.Join(dest, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := supportScripts.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
}

func envSupportDir() (string, error) {
	dir := os.Getenv(EnvSupportDir)
	if dir == "" {
		return "", fmt.Errorf("%s not set", EnvSupportDir)
	}
	return dir, nil
}

func exeRelativeSupportDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), "..", "share", "ccgo", "cmake"), nil
}

func conanSupportDir() (string, error) {
	out, err := exec.Command("conan", "config", "home").Output()
	if err != nil {
		return "", fmt.Errorf("conan config home: %w", err)
	}
	return filepath.Join(strings.TrimSpace(string(out)), "ccgo", "cmake"), nil
}
