package pack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// BuildInfoName is the metadata file written beside archives.
const BuildInfoName = "build_info.json"

// timestampLayout is ISO-8601 with microseconds in local time.
const timestampLayout = "2006-01-02T15:04:05.000000-07:00"

// BuildInfo is the build metadata document written next to archives.
type BuildInfo struct {
	Name      string   `json:"name"`
	Platform  string   `json:"platform"`
	Version   string   `json:"version"`
	LinkType  string   `json:"link_type"`
	Timestamp string   `json:"timestamp"`
	HostOS    string   `json:"host_os"`
	Archs     []string `json:"archs"`
	Toolchain string   `json:"toolchain,omitempty"`
	GitCommit string   `json:"git_commit,omitempty"`
	GitBranch string   `json:"git_branch,omitempty"`
}

// NewBuildInfo fills the mandatory fields. The project name is
// lower-cased for consistency with archive names.
func NewBuildInfo(name, platform, version, linkType string, archs []string) BuildInfo {
	return BuildInfo{
		Name:      strings.ToLower(name),
		Platform:  platform,
		Version:   version,
		LinkType:  linkType,
		Timestamp: time.Now().Format(timestampLayout),
		HostOS:    runtime.GOOS,
		Archs:     archs,
	}
}

// Write stores the metadata document in dir.
func (b BuildInfo) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, BuildInfoName), append(data, '\n'), 0644)
}
