// Package container implements the fallback build path: running a
// platform build inside a Docker container when the host lacks the
// toolchain. It shares the platform-to-build-result contract with the
// native builders but none of the toolchain layer.
package container

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zhlinh/ccgo-sub000/internal/pkg/core"
	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

// EnvCacheDir overrides where container definitions are materialized.
const EnvCacheDir = "CCGO_CONTAINER_DIR"

//go:embed images.yaml
var imagesManifest []byte

//go:embed dockerfiles/linux.Dockerfile
var linuxDockerfile string

//go:embed dockerfiles/windows.Dockerfile
var windowsDockerfile string

//go:embed dockerfiles/android.Dockerfile
var androidDockerfile string

//go:embed dockerfiles/ohos.Dockerfile
var ohosDockerfile string

var platformDockerfiles = map[core.Platform]string{
	core.PlatformLinux:   linuxDockerfile,
	core.PlatformWindows: windowsDockerfile,
	core.PlatformAndroid: androidDockerfile,
	core.PlatformOHOS:    ohosDockerfile,
}

type manifest struct {
	Images map[string]imageEntry `yaml:"images"`
}

type imageEntry struct {
	Local  string `yaml:"local"`
	Remote string `yaml:"remote"`
	SizeMB int    `yaml:"size_mb"`
}

// Config binds one concrete platform to its container definition and
// image references. Resolved once per container-builder construction.
type Config struct {
	Platform   core.Platform
	Dockerfile string
	LocalImage string
	RemoteRef  string
	SizeMB     int
}

// Resolve looks up the container configuration for a concrete platform.
// Meta platforms are rejected: expansion happens before containerization
// is decided.
func Resolve(platform core.Platform) (*Config, error) {
	if platform.IsMeta() {
		return nil, fmt.Errorf("meta platform %q cannot be containerized directly", platform)
	}
	dockerfile, ok := platformDockerfiles[platform]
	if !ok {
		return nil, fmt.Errorf("platform %q has no container build support", platform)
	}

	var m manifest
	if err := yaml.Unmarshal(imagesManifest, &m); err != nil {
		return nil, fmt.Errorf("failed to parse image manifest: %w", err)
	}
	entry, ok := m.Images[platform.Lower()]
	if !ok {
		return nil, fmt.Errorf("platform %q missing from image manifest", platform)
	}

	return &Config{
		Platform:   platform,
		Dockerfile: dockerfile,
		LocalImage: entry.Local,
		RemoteRef:  entry.Remote,
		SizeMB:     entry.SizeMB,
	}, nil
}

// CacheDir returns the per-user directory where container definitions
// are written on first use.
func CacheDir() (string, error) {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", ccgoerrors.NewContainerError("cache",
			"cannot resolve the per-user cache directory",
			"set HOME (or USERPROFILE on Windows), or export "+EnvCacheDir)
	}
	return filepath.Join(base, "ccgo", "container"), nil
}

// WriteDefinition materializes the platform's Dockerfile into the cache
// directory and returns its path. Existing content is overwritten so a
// stale definition never shadows the embedded one.
func (c *Config) WriteDefinition() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, c.Platform.Lower()+".Dockerfile")
	if err := os.WriteFile(path, []byte(c.Dockerfile), 0644); err != nil {
		return "", err
	}
	return path, nil
}
