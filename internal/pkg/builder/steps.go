package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/build/cmake"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/pack"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// pipeline carries the state shared by every step of one platform
// build: which toolchain provides the bindings, which archive/strip
// tools apply and where artifacts accumulate.
type pipeline struct {
	ctx      *core.BuildContext
	platform core.Platform
	tc       toolchain.Toolchain

	generator  string
	staticExt  string   // ".a" / ".lib"
	sharedExts []string // ".so" / ".dylib" / ".dll"
	arTool     string
	stripTool  string

	// extraDefs are platform defines applied on top of the toolchain
	// bindings, keyed by architecture ("" applies to all).
	extraDefs map[string]map[string]string

	// sharedLibs collects built shared libraries per architecture for
	// the mobile packaging step. Paths point into the per-arch install
	// trees, which outlive the pipeline.
	sharedLibs map[string][]string
}

func (p *pipeline) buildRoot() string {
	return p.ctx.CMakeBuildDir(p.platform)
}

func (p *pipeline) variants() []string {
	var variants []string
	if p.ctx.Options.Link.BuildStatic() {
		variants = append(variants, "static")
	}
	if p.ctx.Options.Link.BuildShared() {
		variants = append(variants, "shared")
	}
	return variants
}

func (p *pipeline) buildType() cmake.BuildType {
	if p.ctx.Options.Release {
		return cmake.Release
	}
	return cmake.Debug
}

// configureArch prepares the CMake invocation for one variant+arch.
// The build tree lives at <buildRoot>/<variant>/<arch> and installed
// output always surfaces at its out/ subdirectory.
func (p *pipeline) configureArch(variant, arch string) (*cmake.Invocation, error) {
	buildDir := filepath.Join(p.buildRoot(), variant, arch)
	inv := cmake.New(p.ctx.ProjectRoot, buildDir).
		SetBuildType(p.buildType()).
		InstallPrefix(filepath.Join(buildDir, "out")).
		Jobs(p.ctx.JobsOrDefault()).
		Verbose(p.ctx.Options.Verbose)
	if p.generator != "" {
		inv.Generator(p.generator)
	}

	bindings, err := p.tc.Bindings(arch)
	if err != nil {
		return nil, err
	}
	for name, value := range bindings {
		if name == "CMAKE_TOOLCHAIN_FILE" {
			inv.ToolchainFile(value)
			continue
		}
		inv.Define(name, value)
	}

	supportDir, err := core.SupportDir()
	if err != nil {
		return nil, err
	}
	inv.Define("CMAKE_PROJECT_INCLUDE", filepath.Join(supportDir, "ccgo.cmake"))

	inv.Define("CCGO_LIB_NAME", p.ctx.LibName())
	inv.DefineTyped("CCGO_VERSION", "STRING", p.ctx.FullVersion())
	inv.DefineBool("CCGO_BUILD_STATIC", variant == "static")
	inv.DefineBool("CCGO_BUILD_SHARED", variant == "shared")
	inv.DefineTyped("CCGO_SYMBOL_VISIBILITY", "STRING", fmt.Sprintf("%d", p.ctx.SymbolVisibility()))
	if graph := p.ctx.ModuleGraph(); graph != "" {
		inv.DefineTyped("CCGO_SUBMODULES", "STRING", graph)
	}
	if tool := p.ctx.Options.CacheTool; tool != "" {
		inv.Define("CMAKE_C_COMPILER_LAUNCHER", tool)
		inv.Define("CMAKE_CXX_COMPILER_LAUNCHER", tool)
	}

	for _, defs := range []map[string]string{p.extraDefs[""], p.extraDefs[arch]} {
		for name, value := range defs {
			inv.Define(name, value)
		}
	}
	return inv, nil
}

// run executes the canonical build shape: per variant and architecture
// configure+build+install, merge static archives, stage-then-strip
// release shared libraries, then assemble the primary and symbols
// archives plus the metadata file. Staging directories are removed on
// every exit path.
func (p *pipeline) run(archs []string) (result *core.BuildResult, err error) {
	start := time.Now()
	if err := p.tc.Validate(); err != nil {
		return nil, err
	}

	symbolsStaging := filepath.Join(p.buildRoot(), "symbols-"+uuid.NewString()[:8])
	pkgStaging := filepath.Join(p.buildRoot(), "pkg-"+uuid.NewString()[:8])
	defer os.RemoveAll(symbolsStaging)
	defer os.RemoveAll(pkgStaging)

	p.sharedLibs = make(map[string][]string)
	headersDone := false

	for _, variant := range p.variants() {
		for _, arch := range archs {
			// The toolchain may have been removed mid-run; re-check
			// right before each use.
			if err := p.tc.Validate(); err != nil {
				return nil, err
			}

			inv, err := p.configureArch(variant, arch)
			if err != nil {
				return nil, err
			}
			if err := inv.ConfigureBuildInstall(); err != nil {
				return nil, fmt.Errorf("%s %s/%s: %w", p.platform.Display(), variant, arch, err)
			}

			outDir := filepath.Join(inv.BuildDir(), "out")
			libDir := filepath.Join(outDir, "lib")

			if variant == "static" {
				if err := mergeStaticLibs(libDir, p.ctx.LibName(), p.staticExt, p.arTool); err != nil {
					return nil, fmt.Errorf("merge static archives for %s: %w", arch, err)
				}
			}
			if variant == "shared" {
				libs := sharedLibsIn(libDir, p.sharedExts)
				p.sharedLibs[arch] = libs
				if p.ctx.Options.Release {
					if err := stageAndStrip(libs, filepath.Join(symbolsStaging, arch), p.stripTool); err != nil {
						return nil, fmt.Errorf("strip shared libraries for %s: %w", arch, err)
					}
				}
			}

			archDest := filepath.Join(pkgStaging, variant, arch)
			if utils.DirExists(libDir) {
				if err := utils.CopyDir(libDir, archDest); err != nil {
					return nil, err
				}
			}
			if include := filepath.Join(outDir, "include"); !headersDone && utils.DirExists(include) {
				if err := utils.CopyDir(include, filepath.Join(pkgStaging, "include")); err != nil {
					return nil, err
				}
				headersDone = true
			}
		}
	}

	outputDir := p.ctx.OutputDir(p.platform)
	info := pack.NewBuildInfo(p.ctx.LibName(), p.platform.Lower(), p.ctx.FullVersion(),
		string(p.ctx.Options.Link), archs)
	info.Toolchain = p.tc.Name()
	info.GitCommit = p.ctx.Version.Commit
	info.GitBranch = p.ctx.Version.Branch
	if err := info.Write(outputDir); err != nil {
		return nil, err
	}

	archivePath := filepath.Join(outputDir,
		pack.ArchiveName(p.ctx.LibName(), p.platform.Lower(), p.ctx.FullVersion()))
	if err := pack.Archive(pkgStaging, archivePath); err != nil {
		return nil, err
	}

	symbolsPath := ""
	if pack.DirHasFiles(symbolsStaging) {
		symbolsPath = filepath.Join(outputDir,
			pack.SymbolsArchiveName(p.ctx.LibName(), p.platform.Lower(), p.ctx.FullVersion()))
		if err := pack.Archive(symbolsStaging, symbolsPath); err != nil {
			return nil, err
		}
	}

	return &core.BuildResult{
		Platform:    p.platform,
		ArchivePath: archivePath,
		SymbolsPath: symbolsPath,
		Duration:    time.Since(start),
		Archs:       archs,
	}, nil
}

// mergeStaticLibs combines every per-module static archive in libDir
// into a single lib<name><ext>. When CMake already produced a single
// non-empty merged archive the merge is skipped and stray module
// archives are deleted instead.
func mergeStaticLibs(libDir, libName, ext, arTool string) error {
	archives, err := filepath.Glob(filepath.Join(libDir, "*"+ext))
	if err != nil || len(archives) == 0 {
		return nil
	}

	merged := filepath.Join(libDir, "lib"+libName+ext)
	if utils.FileSize(merged) > 0 {
		for _, archive := range archives {
			if archive != merged {
				if err := os.Remove(archive); err != nil {
					return err
				}
			}
		}
		return nil
	}

	// Architecture-scoped scratch space: libDir is already per-arch.
	tmpRoot := filepath.Join(libDir, ".merge-"+uuid.NewString()[:8])
	defer os.RemoveAll(tmpRoot)

	var objects []string
	for i, archive := range archives {
		extractDir := filepath.Join(tmpRoot, fmt.Sprintf("%02d-%s", i,
			strings.TrimSuffix(filepath.Base(archive), ext)))
		if err := os.MkdirAll(extractDir, 0755); err != nil {
			return err
		}
		absArchive, err := filepath.Abs(archive)
		if err != nil {
			return err
		}
		cmd := execCommand(arTool, "x", absArchive)
		cmd.Dir = extractDir
		if out, err := cmd.CombinedOutput(); err != nil {
			return ccgoerrors.NewSubprocessError(arTool, err, string(out))
		}
		members, err := filepath.Glob(filepath.Join(extractDir, "*.o"))
		if err != nil {
			return err
		}
		objects = append(objects, members...)
	}

	args := append([]string{"rcs", merged}, objects...)
	if out, err := execCommand(arTool, args...).CombinedOutput(); err != nil {
		return ccgoerrors.NewSubprocessError(arTool, err, string(out))
	}

	for _, archive := range archives {
		if archive != merged {
			if err := os.Remove(archive); err != nil {
				return err
			}
		}
	}
	return nil
}

// stageAndStrip copies each shared library into the symbols staging
// tree and only then strips the original in place. Stripping must never
// touch the only copy of the file.
func stageAndStrip(libs []string, stagingDir, stripTool string) error {
	for _, lib := range libs {
		staged := filepath.Join(stagingDir, filepath.Base(lib))
		if err := utils.CopyFile(lib, staged); err != nil {
			return err
		}
		if out, err := execCommand(stripTool, "-x", lib).CombinedOutput(); err != nil {
			return ccgoerrors.NewSubprocessError(stripTool, err, string(out))
		}
	}
	return nil
}

func sharedLibsIn(libDir string, exts []string) []string {
	var libs []string
	for _, ext := range exts {
		matches, err := filepath.Glob(filepath.Join(libDir, "*"+ext))
		if err != nil {
			continue
		}
		libs = append(libs, matches...)
	}
	return libs
}

// findStripTool prefers llvm-strip over the platform strip.
func findStripTool() string {
	if _, err := execLookPath("llvm-strip"); err == nil {
		return "llvm-strip"
	}
	return "strip"
}
