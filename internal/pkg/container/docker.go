package container

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	"github.com/zhlinh/ccgo-sub000/internal/pkg/pack"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// Variables for mocking in tests
var (
	execCommand  = exec.Command
	execLookPath = exec.LookPath
)

// EnvDevSource mounts a local orchestrator source tree into the
// container and builds the binary from it instead of downloading a
// release. Development use only.
const EnvDevSource = "CCGO_DEV_SOURCE"

// releaseURL is where the in-container provisioning script downloads a
// prebuilt orchestrator binary when none is baked into the image.
const releaseURL = "https://github.com/zhlinh/ccgo/releases/latest/download"

// containerArchs is the static platform knowledge used to report which
// architectures a containerized build produced. The container path has
// no toolchain layer to ask.
var containerArchs = map[core.Platform][]string{
	core.PlatformLinux:   {"x86_64"},
	core.PlatformWindows: {"x86_64"},
	core.PlatformAndroid: {"arm64-v8a", "armeabi-v7a", "x86_64", "x86"},
	core.PlatformOHOS:    {"arm64-v8a", "armeabi-v7a", "x86_64"},
}

// Runner executes one concrete platform build inside a container.
type Runner struct {
	cfg *Config
	ctx *core.BuildContext
}

// New resolves the container configuration for platform. Construction
// fails for meta platforms and platforms without container support.
func New(ctx *core.BuildContext, platform core.Platform) (*Runner, error) {
	cfg, err := Resolve(platform)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, ctx: ctx}, nil
}

// Execute is the single entry point: verify the container runtime,
// ensure an image exists, run the build inside it, then scan the host
// output tree for the artifacts the containerized build wrote.
func (r *Runner) Execute() (*core.BuildResult, error) {
	start := time.Now()

	if err := r.checkRuntime(); err != nil {
		return nil, err
	}
	if err := r.ensureImage(); err != nil {
		return nil, err
	}
	if err := r.runBuild(); err != nil {
		return nil, err
	}
	return r.scanArtifacts(start)
}

// checkRuntime verifies the docker CLI exists and its daemon responds,
// with a distinct diagnostic for each.
func (r *Runner) checkRuntime() error {
	if _, err := execLookPath("docker"); err != nil {
		return ccgoerrors.NewContainerError("cli",
			"docker CLI not found on PATH",
			"install Docker (https://docs.docker.com/get-docker/) or build natively")
	}
	if out, err := execCommand("docker", "info").CombinedOutput(); err != nil {
		return ccgoerrors.NewContainerError("daemon",
			"docker daemon is not reachable: "+ccgoerrors.TailLines(string(out), 3),
			"start Docker Desktop or `systemctl start docker`")
	}
	return nil
}

// ensureImage makes the local image name resolvable: local cache hit,
// else pull the prebuilt remote and tag it, else build from the
// embedded definition. Pull failure is non-fatal and falls through.
func (r *Runner) ensureImage() error {
	if err := execCommand("docker", "image", "inspect", r.cfg.LocalImage).Run(); err == nil {
		return nil
	}

	fmt.Printf("Image %s not found locally, pulling %s (~%d MB)...\n",
		r.cfg.LocalImage, r.cfg.RemoteRef, r.cfg.SizeMB)
	if err := r.streamDocker("pull", r.cfg.RemoteRef); err == nil {
		if out, err := execCommand("docker", "tag", r.cfg.RemoteRef, r.cfg.LocalImage).CombinedOutput(); err != nil {
			return ccgoerrors.NewContainerError("image",
				"failed to tag pulled image: "+ccgoerrors.TailLines(string(out), 3),
				"check `docker tag "+r.cfg.RemoteRef+" "+r.cfg.LocalImage+"` manually")
		}
		return nil
	}

	fmt.Printf("Pull failed, building %s from the embedded definition...\n", r.cfg.LocalImage)
	definition, err := r.cfg.WriteDefinition()
	if err != nil {
		return err
	}
	if err := r.streamDocker("build", "-t", r.cfg.LocalImage, "-f", definition, filepath.Dir(definition)); err != nil {
		return ccgoerrors.NewContainerError("image",
			"failed to build the container image",
			"inspect "+definition+" and retry with `docker build` for full output")
	}
	return nil
}

// runBuild starts the container with the project mounted read-write,
// the repository's .git read-only when present, and runs the
// orchestrator's own build subcommand inside.
func (r *Runner) runBuild() error {
	name := fmt.Sprintf("ccgo-build-%s-%s", r.cfg.Platform.Lower(), uuid.NewString()[:8])
	args := []string{"run", "--rm", "--name", name,
		"-v", r.ctx.ProjectRoot + ":/workspace",
		"-w", "/workspace"}

	// Version metadata degrades to "unknown" inside the container when
	// no repository is found.
	if gitDir := core.FindGitDir(r.ctx.ProjectRoot); gitDir != "" {
		args = append(args, "-v", gitDir+":/workspace/.git:ro")
	}
	devSource := os.Getenv(EnvDevSource)
	if devSource != "" {
		args = append(args, "-v", devSource+":/ccgo-src:ro")
	}

	args = append(args, r.cfg.LocalImage, "sh", "-c", r.provisionScript(devSource != ""))
	if err := r.streamDocker(args...); err != nil {
		return fmt.Errorf("containerized %s build failed: %w", r.cfg.Platform.Display(), err)
	}
	return nil
}

// provisionScript returns the in-container shell command that makes a
// ccgo binary available (pre-installed, built from mounted source, or
// downloaded from a release) and then runs the platform build.
func (r *Runner) provisionScript(devSource bool) string {
	build := fmt.Sprintf("exec ccgo build %s%s", r.cfg.Platform.Lower(), r.childFlags())
	var b strings.Builder
	b.WriteString("set -e\n")
	b.WriteString("if command -v ccgo >/dev/null 2>&1; then " + build + "; fi\n")
	if devSource {
		b.WriteString("if [ -d /ccgo-src ]; then go build -C /ccgo-src -o /usr/local/bin/ccgo ./cmd/ccgo && " + build + "; fi\n")
	}
	b.WriteString(fmt.Sprintf("curl -fsSL -o /usr/local/bin/ccgo %s/ccgo-linux-$(uname -m)\n", releaseURL))
	b.WriteString("chmod +x /usr/local/bin/ccgo\n")
	b.WriteString(build + "\n")
	return b.String()
}

// childFlags re-encodes the relevant build options for the in-container
// invocation. Mobile packaging is always skipped inside the container;
// the ecosystem projects live on the host.
func (r *Runner) childFlags() string {
	opts := r.ctx.Options
	var b strings.Builder
	fmt.Fprintf(&b, " --link %s --native-only", opts.Link)
	if opts.Release {
		b.WriteString(" --release")
	}
	if len(opts.Archs) > 0 {
		fmt.Fprintf(&b, " --arch %s", strings.Join(opts.Archs, ","))
	}
	if opts.Jobs > 0 {
		fmt.Fprintf(&b, " --jobs %d", opts.Jobs)
	}
	if opts.Verbose {
		b.WriteString(" --verbose")
	}
	return b.String()
}

// streamDocker runs a docker subcommand, streaming output in verbose
// mode and buffering a tail for the error otherwise.
func (r *Runner) streamDocker(args ...string) error {
	cmd := execCommand("docker", args...)
	if r.ctx.Options.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return ccgoerrors.NewSubprocessError("docker", err, "")
		}
		return nil
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return ccgoerrors.NewSubprocessError("docker", err, string(out))
	}
	return nil
}

// scanArtifacts locates what the containerized build wrote to the host
// output tree, new layout first with a legacy fallback.
func (r *Runner) scanArtifacts(start time.Time) (*core.BuildResult, error) {
	outDir := r.ctx.OutputDir(r.cfg.Platform)
	artifacts := pack.ScanDirs(outDir, r.ctx.LegacyOutputDir(r.cfg.Platform))
	if !artifacts.Found() {
		return nil, ccgoerrors.NewContainerError("artifacts",
			fmt.Sprintf("no primary archive found under %s after the container build", outDir),
			"re-run with --verbose to see the in-container build output")
	}

	return &core.BuildResult{
		Platform:    r.cfg.Platform,
		Duration:    time.Since(start),
		Archs:       containerArchs[r.cfg.Platform],
		ArchivePath: artifacts.ArchivePath,
		SymbolsPath: artifacts.SymbolsPath,
		PackagePath: artifacts.PackagePath,
	}, nil
}
