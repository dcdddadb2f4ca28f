package core

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

const (
	// BuildDirName holds in-progress CMake build trees.
	BuildDirName = "cmake_build"
	// OutputDirName holds final archives and metadata.
	OutputDirName = "target"
)

// BuildContext is the single source of truth for where things live and
// what the user asked for. It owns no mutable state; all accessors are
// derived from the descriptor and options.
type BuildContext struct {
	ProjectRoot string
	Config      *config.Project
	Options     BuildOptions
	Version     VersionInfo
}

// NewBuildContext derives the orchestration state for one run. The
// version suffix comes from git metadata at the project root.
func NewBuildContext(root string, cfg *config.Project, opts BuildOptions) *BuildContext {
	return &BuildContext{
		ProjectRoot: root,
		Config:      cfg,
		Options:     opts,
		Version:     ResolveVersion(root, cfg.Version),
	}
}

// LibName returns the library name from the descriptor.
func (c *BuildContext) LibName() string {
	return c.Config.LowerName()
}

// FullVersion returns the resolved version string.
func (c *BuildContext) FullVersion() string {
	return c.Version.Full()
}

// CMakeBuildDir returns <root>/cmake_build/<release|debug>/<platform>
// for the given platform. The platform segment is always lower-cased.
func (c *BuildContext) CMakeBuildDir(platform Platform) string {
	return filepath.Join(c.ProjectRoot, BuildDirName, c.Options.Mode(), platform.Lower())
}

// OutputDir returns <root>/target/<release|debug>/<platform>.
// The platform segment is always lower-cased.
func (c *BuildContext) OutputDir(platform Platform) string {
	return filepath.Join(c.ProjectRoot, OutputDirName, c.Options.Mode(), platform.Lower())
}

// LegacyCMakeBuildDir returns the pre-layout-change flat build dir,
// which used the display casing. Kept cleanable for compatibility.
func (c *BuildContext) LegacyCMakeBuildDir(platform Platform) string {
	return filepath.Join(c.ProjectRoot, BuildDirName, platform.Display())
}

// LegacyOutputDir returns the pre-layout-change flat output dir.
func (c *BuildContext) LegacyOutputDir(platform Platform) string {
	return filepath.Join(c.ProjectRoot, OutputDirName, platform.Lower())
}

// JobsOrDefault returns the requested job count, defaulting to the host
// CPU count when unset.
func (c *BuildContext) JobsOrDefault() int {
	if c.Options.Jobs > 0 {
		return c.Options.Jobs
	}
	return runtime.NumCPU()
}

// ModuleGraph flattens the descriptor's module->dependency map into the
// token string consumed by the CMake support scripts:
// "module;dep1,dep2;module2;dep3". An empty map yields "".
func (c *BuildContext) ModuleGraph() string {
	if len(c.Config.Modules) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.Config.Modules))
	for name := range c.Config.Modules {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)*2)
	for _, name := range names {
		parts = append(parts, name, strings.Join(c.Config.Modules[name], ","))
	}
	return strings.Join(parts, ";")
}

// SymbolVisibility returns the CMake visibility flag value:
// 0 for hidden, 1 for default.
func (c *BuildContext) SymbolVisibility() int {
	if c.Config.HiddenSymbols {
		return 0
	}
	return 1
}
