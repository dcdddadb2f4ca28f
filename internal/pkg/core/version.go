package core

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// VersionInfo is the resolved version descriptor for a build: the base
// version from the project descriptor plus a git-derived suffix.
type VersionInfo struct {
	Base   string
	Branch string
	Commit string
	Dirty  bool
}

// Full returns the complete version string used for archive names and
// build metadata.
func (v VersionInfo) Full() string {
	version := v.Base
	if v.Commit != "" {
		version += "-" + v.Commit
	}
	if v.Dirty {
		version += "-dirty"
	}
	return version
}

// ResolveVersion computes the version descriptor for the repository at
// root. Outside a git repository the suffix fields stay empty and the
// base version is used as-is.
func ResolveVersion(root, base string) VersionInfo {
	info := VersionInfo{Base: base}

	if out, err := gitOutput(root, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		info.Branch = out
	}
	if out, err := gitOutput(root, "rev-parse", "--short", "HEAD"); err == nil {
		info.Commit = out
	}
	if out, err := gitOutput(root, "status", "--porcelain"); err == nil && out != "" {
		info.Dirty = true
	}

	return info
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// FindGitDir walks parent directories from start looking for a .git
// directory. Returns the empty string when none is found; version
// metadata then degrades to "unknown".
func FindGitDir(start string) string {
	dir := start
	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
