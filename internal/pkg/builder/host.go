package builder

import (
	"os"
	"path/filepath"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/build/cmake"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/toolchain"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// hostRunner is the simple host-only variant behind `ccgo test` and
// `ccgo bench`. It builds for the host compiler with testing enabled and
// drives ctest, skipping the merge/strip/archive pipeline entirely.
type hostRunner struct {
	bench bool
}

func NewTestRunner() *hostRunner { return &hostRunner{} }

func NewBenchRunner() *hostRunner { return &hostRunner{bench: true} }

func (r *hostRunner) buildDir(ctx *core.BuildContext) string {
	name := "host-test"
	if r.bench {
		name = "host-bench"
	}
	return filepath.Join(ctx.ProjectRoot, core.BuildDirName, ctx.Options.Mode(), name)
}

// Run configures, builds and executes the host test or benchmark suite.
// Output streams straight through since there is exactly one subprocess
// at a time.
func (r *hostRunner) Run(ctx *core.BuildContext, filter string) error {
	cc, err := toolchain.DetectHostCC()
	if err != nil {
		return err
	}
	if err := cc.Validate(); err != nil {
		return err
	}

	buildDir := r.buildDir(ctx)
	inv := cmake.New(ctx.ProjectRoot, buildDir).
		SetBuildType(cmake.Debug).
		Jobs(ctx.JobsOrDefault()).
		Verbose(ctx.Options.Verbose).
		DefineBool("BUILD_TESTING", true).
		Define("CCGO_LIB_NAME", ctx.LibName())
	if r.bench {
		inv.DefineBool("CCGO_BUILD_BENCHMARKS", true)
	}
	bindings, err := cc.Bindings(hostArch())
	if err != nil {
		return err
	}
	for name, value := range bindings {
		inv.Define(name, value)
	}
	if err := inv.Configure(); err != nil {
		return err
	}
	if err := inv.Build(); err != nil {
		return err
	}

	args := []string{"--test-dir", buildDir, "--output-on-failure"}
	if r.bench {
		args = append(args, "-L", "benchmark")
	}
	if filter != "" {
		args = append(args, "-R", filter)
	}
	cmd := execCommand("ctest", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return ccgoerrors.NewSubprocessError("ctest", err, "")
	}
	return nil
}

// Clean removes the host build tree for this runner in both modes.
func (r *hostRunner) Clean(ctx *core.BuildContext) error {
	name := "host-test"
	if r.bench {
		name = "host-bench"
	}
	for _, mode := range []string{"release", "debug"} {
		dir := filepath.Join(ctx.ProjectRoot, core.BuildDirName, mode, name)
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}
