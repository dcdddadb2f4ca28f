package scheduler

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/pkg/config"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("GO_HELPER_FAIL") == "1" {
		os.Stderr.WriteString("simulated build failure\n")
		os.Exit(1)
	}
	os.Exit(0)
}

// mockChildBuilds replaces the child-process launcher with a helper
// process and records, in launch order, the platform argument of every
// invocation. Platforms listed in failing exit non-zero.
func mockChildBuilds(t *testing.T, failing ...string) *invocationLog {
	t.Helper()
	log := &invocationLog{}
	fail := make(map[string]bool, len(failing))
	for _, p := range failing {
		fail[p] = true
	}

	oldExecCommand := execCommand
	oldOsExecutable := osExecutable
	t.Cleanup(func() {
		execCommand = oldExecCommand
		osExecutable = oldOsExecutable
	})

	osExecutable = func() (string, error) { return os.Args[0], nil }
	execCommand = func(name string, arg ...string) *exec.Cmd {
		require.GreaterOrEqual(t, len(arg), 2)
		require.Equal(t, "build", arg[0])
		log.record(arg[1])

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, arg...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		if fail[arg[1]] {
			cmd.Env = append(cmd.Env, "GO_HELPER_FAIL=1")
		}
		return cmd
	}
	return log
}

type invocationLog struct {
	mu        sync.Mutex
	platforms []string
}

func (l *invocationLog) record(platform string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.platforms = append(l.platforms, platform)
}

func (l *invocationLog) ordered(want ...string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keep := make(map[string]bool, len(want))
	for _, p := range want {
		keep[p] = true
	}
	var out []string
	for _, p := range l.platforms {
		if keep[p] {
			out = append(out, p)
		}
	}
	return out
}

func testContext(t *testing.T, opts core.BuildOptions) *core.BuildContext {
	t.Helper()
	return &core.BuildContext{
		ProjectRoot: t.TempDir(),
		Config:      &config.Project{Name: "mylib", Version: "1.0.0"},
		Options:     opts,
		Version:     core.VersionInfo{Base: "1.0.0"},
	}
}

func TestPartition(t *testing.T) {
	xcode, gradle, independent := Partition([]core.Platform{
		core.PlatformLinux, core.PlatformIOS, core.PlatformAndroid,
		core.PlatformMacOS, core.PlatformOHOS, core.PlatformWindows,
	})

	// Exclusive sequences come back in their fixed order, not request
	// order.
	assert.Equal(t, []core.Platform{core.PlatformMacOS, core.PlatformIOS}, xcode)
	assert.Equal(t, []core.Platform{core.PlatformAndroid, core.PlatformOHOS}, gradle)
	assert.Equal(t, []core.Platform{core.PlatformLinux, core.PlatformWindows}, independent)
}

func TestPartitionKMPSharesGradleDaemon(t *testing.T) {
	_, gradle, independent := Partition([]core.Platform{core.PlatformKMP, core.PlatformLinux})
	assert.Equal(t, []core.Platform{core.PlatformKMP}, gradle)
	assert.Equal(t, []core.Platform{core.PlatformLinux}, independent)
}

func TestExpandDeduplicates(t *testing.T) {
	expanded := expand([]core.Platform{
		core.PlatformIOS, core.PlatformApple, core.PlatformIOS,
	})
	assert.Equal(t, []core.Platform{
		core.PlatformIOS, core.PlatformMacOS, core.PlatformTVOS, core.PlatformWatchOS,
	}, expanded)
}

func TestRunAllSucceed(t *testing.T) {
	log := mockChildBuilds(t)
	ctx := testContext(t, core.BuildOptions{Link: core.LinkBoth})

	results, err := Run(ctx, []core.Platform{core.PlatformLinux, core.PlatformAndroid})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.ElementsMatch(t, []string{"linux", "android"}, log.ordered("linux", "android"))
}

func TestRunCollectsChildArtifacts(t *testing.T) {
	mockChildBuilds(t)
	ctx := testContext(t, core.BuildOptions{Link: core.LinkBoth, Archs: []string{"x86_64"}})

	// The child process writes the output tree; the scheduler only
	// locates what is already on disk.
	outDir := ctx.OutputDir(core.PlatformLinux)
	require.NoError(t, os.MkdirAll(outDir, 0755))
	archive := filepath.Join(outDir, "mylib-linux-1.0.0.zip")
	symbols := filepath.Join(outDir, "mylib-linux-1.0.0-symbols.zip")
	require.NoError(t, os.WriteFile(archive, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(symbols, []byte("x"), 0644))

	results, err := Run(ctx, []core.Platform{core.PlatformLinux})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, archive, results[0].ArchivePath)
	assert.Equal(t, symbols, results[0].SymbolsPath)
	assert.Equal(t, []string{"x86_64"}, results[0].Archs)
}

func TestRunAggregatesFailures(t *testing.T) {
	mockChildBuilds(t, "android")
	ctx := testContext(t, core.BuildOptions{Link: core.LinkBoth})

	results, err := Run(ctx, []core.Platform{
		core.PlatformLinux, core.PlatformAndroid, core.PlatformWindows,
	})
	require.Error(t, err)

	// Siblings of the failed platform still complete and report.
	assert.Len(t, results, 2)

	var agg *ccgoerrors.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Failures, 1)
	assert.Contains(t, err.Error(), "android")
	assert.NotContains(t, err.Error(), "linux")
	assert.Contains(t, agg.Failures["android"].Error(), "simulated build failure")
}

func TestRunXcodeSequenceIsOrdered(t *testing.T) {
	log := mockChildBuilds(t)
	ctx := testContext(t, core.BuildOptions{Link: core.LinkBoth})

	_, err := Run(ctx, []core.Platform{core.PlatformApple})
	require.NoError(t, err)

	assert.Equal(t, []string{"macos", "ios", "tvos", "watchos"},
		log.ordered("macos", "ios", "tvos", "watchos"))
}

func TestRunRejectsEmpty(t *testing.T) {
	_, err := Run(testContext(t, core.BuildOptions{}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no platforms")
}

func TestChildArgs(t *testing.T) {
	ctx := testContext(t, core.BuildOptions{
		Link:         core.LinkStatic,
		Release:      true,
		NativeOnly:   true,
		Archs:        []string{"arm64-v8a", "x86_64"},
		Jobs:         4,
		WinToolchain: core.WindowsMSVC,
		CacheTool:    "ccache",
		Verbose:      true,
	})

	args := childArgs(ctx, core.PlatformAndroid)
	assert.Equal(t, []string{
		"build", "android", "--link", "static", "--release", "--native-only",
		"--arch", "arm64-v8a,x86_64", "--jobs", "4", "--cache", "ccache", "--verbose",
	}, args)

	// The Windows toolchain choice only travels to the Windows child.
	args = childArgs(ctx, core.PlatformWindows)
	assert.Contains(t, args, "--toolchain")
	assert.Contains(t, args, "msvc")
}
