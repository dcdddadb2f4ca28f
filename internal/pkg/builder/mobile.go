package builder

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/utils"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// syncNativeLibs clears the per-architecture native-library directory of
// a mobile project and copies the freshly built shared libraries in.
// Clearing first prevents stale artifacts from a previous ABI set from
// leaking into the package.
func syncNativeLibs(libsRoot string, sharedLibs map[string][]string) error {
	for arch, libs := range sharedLibs {
		archDir := filepath.Join(libsRoot, arch)
		if err := utils.ClearDir(archDir); err != nil {
			return err
		}
		for _, lib := range libs {
			if err := utils.CopyFile(lib, filepath.Join(archDir, filepath.Base(lib))); err != nil {
				return err
			}
		}
	}
	return nil
}

func gradleWrapper(projectDir string) string {
	name := "gradlew"
	if runtime.GOOS == "windows" {
		name = "gradlew.bat"
	}
	return filepath.Join(projectDir, name)
}

func hvigorWrapper(projectDir string) string {
	name := "hvigorw"
	if runtime.GOOS == "windows" {
		name = "hvigorw.bat"
	}
	return filepath.Join(projectDir, name)
}

// gradlePackage runs the Gradle wrapper's assembleRelease for module and
// copies the resulting AAR into destPath. Failures are reported as
// recoverable packaging errors so the native archive still counts.
func gradlePackage(projectDir, module, destPath string) error {
	platform := filepath.Base(filepath.Dir(destPath))
	wrapper := gradleWrapper(projectDir)
	if !utils.FileExists(wrapper) {
		return &ccgoerrors.PackagingError{
			Platform: platform,
			Tool:     "gradle",
			Recovery: fmt.Sprintf("add a Gradle wrapper under %s", projectDir),
			Cause:    fmt.Errorf("%s not found", wrapper),
		}
	}

	task := fmt.Sprintf(":%s:assembleRelease", module)
	recovery := fmt.Sprintf("cd %s && %s %s", projectDir, filepath.Base(wrapper), task)
	cmd := execCommand(wrapper, task)
	cmd.Dir = projectDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return &ccgoerrors.PackagingError{
			Platform: platform,
			Tool:     "gradle",
			Recovery: recovery,
			Cause:    ccgoerrors.NewSubprocessError("gradle", err, string(out)),
		}
	}

	aar := utils.GlobNewest(filepath.Join(projectDir, module, "build", "outputs", "aar", "*.aar"))
	if aar == "" {
		return &ccgoerrors.PackagingError{
			Platform: platform,
			Tool:     "gradle",
			Recovery: recovery,
			Cause:    fmt.Errorf("no AAR produced under %s", filepath.Join(module, "build", "outputs", "aar")),
		}
	}
	if err := utils.CopyFile(aar, destPath); err != nil {
		return &ccgoerrors.PackagingError{
			Platform: platform, Tool: "gradle", Recovery: recovery, Cause: err,
		}
	}
	return nil
}

// hvigorPackage runs the Hvigor wrapper's assembleHar for module and
// copies the resulting HAR into destPath.
func hvigorPackage(projectDir, module, destPath string) error {
	platform := filepath.Base(filepath.Dir(destPath))
	wrapper := hvigorWrapper(projectDir)
	if !utils.FileExists(wrapper) {
		return &ccgoerrors.PackagingError{
			Platform: platform,
			Tool:     "hvigor",
			Recovery: fmt.Sprintf("add a Hvigor wrapper under %s", projectDir),
			Cause:    fmt.Errorf("%s not found", wrapper),
		}
	}

	recovery := fmt.Sprintf("cd %s && %s assembleHar --mode module -p module=%s", projectDir, filepath.Base(wrapper), module)
	cmd := execCommand(wrapper, "assembleHar", "--mode", "module", "-p", "module="+module)
	cmd.Dir = projectDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return &ccgoerrors.PackagingError{
			Platform: platform,
			Tool:     "hvigor",
			Recovery: recovery,
			Cause:    ccgoerrors.NewSubprocessError("hvigor", err, string(out)),
		}
	}

	har := utils.GlobNewest(filepath.Join(projectDir, module, "build", "default", "outputs", "default", "*.har"))
	if har == "" {
		return &ccgoerrors.PackagingError{
			Platform: platform,
			Tool:     "hvigor",
			Recovery: recovery,
			Cause:    fmt.Errorf("no HAR produced under %s", filepath.Join(module, "build", "default", "outputs", "default")),
		}
	}
	if err := utils.CopyFile(har, destPath); err != nil {
		return &ccgoerrors.PackagingError{
			Platform: platform, Tool: "hvigor", Recovery: recovery, Cause: err,
		}
	}
	return nil
}
