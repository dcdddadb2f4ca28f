package pack

import (
	"os"
	"path/filepath"
	"strings"
)

// Artifacts holds the classified archives found in an output directory.
type Artifacts struct {
	ArchivePath string
	SymbolsPath string
	PackagePath string
}

// Found reports whether a primary archive was located.
func (a Artifacts) Found() bool { return a.ArchivePath != "" }

// ScanDirs classifies the files of candidate output directories by name.
// Directories are tried in order; scanning stops after the first one
// that yields a primary archive. Missing directories are skipped.
func ScanDirs(dirs ...string) Artifacts {
	var found Artifacts
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			switch classify(entry.Name()) {
			case artifactSymbols:
				found.SymbolsPath = path
			case artifactPackage:
				found.PackagePath = path
			case artifactPrimary:
				found.ArchivePath = path
			}
		}
		if found.Found() {
			return found
		}
	}
	return found
}

type artifactKind int

const (
	artifactNone artifactKind = iota
	artifactPrimary
	artifactSymbols
	artifactPackage
)

func classify(name string) artifactKind {
	switch {
	case strings.HasSuffix(name, ".aar") || strings.HasSuffix(name, ".har"):
		return artifactPackage
	case strings.Contains(name, "-symbols") && strings.HasSuffix(name, ".zip"):
		return artifactSymbols
	case strings.HasSuffix(name, ".zip"):
		return artifactPrimary
	}
	return artifactNone
}
