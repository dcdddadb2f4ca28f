package core

import "time"

// BuildResult describes the artifacts of one successful platform build.
// Produced once per platform; immutable afterwards.
type BuildResult struct {
	Platform Platform
	// ArchivePath is the primary versioned archive.
	ArchivePath string
	// SymbolsPath is the unstripped-symbols archive, empty when the
	// build produced no shared release libraries.
	SymbolsPath string
	// PackagePath is the mobile ecosystem package (AAR/HAR), empty for
	// native-only builds and non-mobile platforms.
	PackagePath string
	Duration    time.Duration
	// Archs lists the architectures actually built.
	Archs []string
}
