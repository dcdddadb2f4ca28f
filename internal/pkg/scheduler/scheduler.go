// Package scheduler orchestrates multi-platform builds. Platforms are
// partitioned into toolchain-exclusive groups: the Apple platforms share
// one Xcode install and the Gradle-daemon platforms share one daemon, so
// each of those sequences runs strictly in order while everything else
// builds in parallel. Every platform build runs as a child process of
// the orchestrator's own `build` subcommand, which keeps concurrent
// output from interleaving and gives each platform its own failure
// boundary.
package scheduler

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/pack"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils/colors"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// Variables for mocking in tests
var (
	execCommand  = exec.Command
	osExecutable = os.Executable
	failureTailN = 20
)

// exclusiveXcode and exclusiveGradle are the fixed orders in which the
// toolchain-exclusive sequences execute.
var (
	exclusiveXcode = []core.Platform{
		core.PlatformMacOS, core.PlatformIOS, core.PlatformTVOS, core.PlatformWatchOS,
	}
	exclusiveGradle = []core.Platform{
		core.PlatformAndroid, core.PlatformKMP, core.PlatformOHOS,
	}
)

// Partition splits the requested platforms into the Xcode sequence, the
// Gradle-daemon sequence and the independent set, preserving the fixed
// order within each exclusive sequence.
func Partition(platforms []core.Platform) (xcode, gradle, independent []core.Platform) {
	requested := make(map[core.Platform]bool, len(platforms))
	for _, p := range platforms {
		requested[p] = true
	}
	for _, p := range exclusiveXcode {
		if requested[p] {
			xcode = append(xcode, p)
			delete(requested, p)
		}
	}
	for _, p := range exclusiveGradle {
		if requested[p] {
			gradle = append(gradle, p)
			delete(requested, p)
		}
	}
	for _, p := range platforms {
		if requested[p] {
			independent = append(independent, p)
			delete(requested, p)
		}
	}
	return xcode, gradle, independent
}

// tracker is the only state shared across build threads: an atomic
// completed counter plus a mutex-guarded in-flight set and result list.
// The mutex is held only for a print or an insert, never across a
// subprocess call.
type tracker struct {
	total     int
	completed atomic.Int32

	mu       sync.Mutex
	building map[core.Platform]struct{}
	results  []*core.BuildResult
	failures map[string]error
}

func newTracker(total int) *tracker {
	return &tracker{
		total:    total,
		building: make(map[core.Platform]struct{}),
		failures: make(map[string]error),
	}
}

func (t *tracker) start(p core.Platform) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.building[p] = struct{}{}
	fmt.Printf("%s▶ %s build started%s\n", colors.Cyan, p.Display(), colors.Reset)
}

func (t *tracker) finish(p core.Platform, result *core.BuildResult, err error) {
	done := t.completed.Add(1)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.building, p)
	if err != nil {
		t.failures[p.Lower()] = err
		fmt.Printf("%s✗ [%d/%d] %s failed%s\n", colors.Red, done, t.total, p.Display(), colors.Reset)
	} else {
		t.results = append(t.results, result)
		fmt.Printf("%s✓ [%d/%d] %s done in %s%s\n", colors.Green, done, t.total,
			p.Display(), result.Duration.Round(time.Millisecond), colors.Reset)
	}
	if len(t.building) > 0 {
		still := make([]string, 0, len(t.building))
		for b := range t.building {
			still = append(still, b.Display())
		}
		fmt.Printf("%s  still building: %s%s\n", colors.Gray, strings.Join(still, ", "), colors.Reset)
	}
}

// Run builds every requested platform and returns the collected results.
// A failed platform never aborts its siblings; failures are aggregated
// after everything has finished.
func Run(ctx *core.BuildContext, platforms []core.Platform) ([]*core.BuildResult, error) {
	expanded := expand(platforms)
	if len(expanded) == 0 {
		return nil, fmt.Errorf("no platforms to build")
	}

	exe, err := osExecutable()
	if err != nil {
		return nil, fmt.Errorf("cannot locate own executable for child builds: %w", err)
	}

	xcode, gradle, independent := Partition(expanded)
	t := newTracker(len(expanded))

	var wg sync.WaitGroup
	runSequence := func(sequence []core.Platform) {
		defer wg.Done()
		for _, p := range sequence {
			buildOne(ctx, t, exe, p)
		}
	}

	if len(xcode) > 0 {
		wg.Add(1)
		go runSequence(xcode)
	}
	if len(gradle) > 0 {
		wg.Add(1)
		go runSequence(gradle)
	}
	for _, p := range independent {
		wg.Add(1)
		go func(p core.Platform) {
			defer wg.Done()
			buildOne(ctx, t, exe, p)
		}(p)
	}
	wg.Wait()

	if err := ccgoerrors.NewAggregateError(t.failures); err != nil {
		return t.results, err
	}
	return t.results, nil
}

// expand resolves meta platforms into their concrete sets, dropping
// duplicates while keeping first-seen order.
func expand(platforms []core.Platform) []core.Platform {
	var out []core.Platform
	seen := make(map[core.Platform]bool)
	for _, p := range platforms {
		for _, concrete := range p.Expand() {
			if !seen[concrete] {
				seen[concrete] = true
				out = append(out, concrete)
			}
		}
	}
	return out
}

// buildOne runs a single platform build as a child process and records
// the outcome. Child output is captured, not streamed; on failure the
// last lines are attached to the error for the final report.
func buildOne(ctx *core.BuildContext, t *tracker, exe string, p core.Platform) {
	t.start(p)
	start := time.Now()

	cmd := execCommand(exe, childArgs(ctx, p)...)
	cmd.Dir = ctx.ProjectRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		procErr := ccgoerrors.NewSubprocessError("ccgo build "+p.Lower(), err, string(out))
		t.finish(p, nil, fmt.Errorf("%s build failed (exit %d):\n%s",
			p.Display(), procErr.ExitCode, ccgoerrors.TailLines(string(out), failureTailN)))
		return
	}

	// The child wrote the artifacts; locate them on disk rather than
	// parsing the captured output.
	artifacts := pack.ScanDirs(ctx.OutputDir(p), ctx.LegacyOutputDir(p))
	result := &core.BuildResult{
		Platform:    p,
		Duration:    time.Since(start),
		Archs:       ctx.Options.Archs,
		ArchivePath: artifacts.ArchivePath,
		SymbolsPath: artifacts.SymbolsPath,
		PackagePath: artifacts.PackagePath,
	}
	t.finish(p, result, nil)
}

// childArgs re-encodes the build options as the argument list for one
// child `build <platform>` invocation.
func childArgs(ctx *core.BuildContext, p core.Platform) []string {
	opts := ctx.Options
	args := []string{"build", p.Lower(), "--link", string(opts.Link)}
	if opts.Release {
		args = append(args, "--release")
	}
	if opts.NativeOnly {
		args = append(args, "--native-only")
	}
	if opts.UseContainer {
		args = append(args, "--container")
	}
	if opts.AutoContainer {
		args = append(args, "--auto-container")
	}
	if len(opts.Archs) > 0 {
		args = append(args, "--arch", strings.Join(opts.Archs, ","))
	}
	if opts.Jobs > 0 {
		args = append(args, "--jobs", strconv.Itoa(opts.Jobs))
	}
	if opts.WinToolchain != "" && (p == core.PlatformWindows) {
		args = append(args, "--toolchain", string(opts.WinToolchain))
	}
	if opts.CacheTool != "" {
		args = append(args, "--cache", opts.CacheTool)
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	return args
}
