package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DescriptorName is the project descriptor file looked up at the project root.
const DescriptorName = "ccgo.yaml"

// Project represents the ccgo.yaml project descriptor.
type Project struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Language string `yaml:"language"`

	// HiddenSymbols controls default symbol visibility for shared libraries.
	HiddenSymbols bool `yaml:"hidden_symbols"`

	// Modules maps each submodule to the submodules it depends on.
	Modules map[string][]string `yaml:"modules"`

	Android AndroidProject `yaml:"android"`
	Harmony HarmonyProject `yaml:"harmony"`
	Apple   AppleProject   `yaml:"apple"`
}

// AndroidProject holds the Gradle project used for AAR packaging.
type AndroidProject struct {
	ProjectDir string `yaml:"project_dir"`
	Module     string `yaml:"module"`
	MinAPI     int    `yaml:"min_api"`
}

// HarmonyProject holds the Hvigor project used for HAR packaging.
type HarmonyProject struct {
	ProjectDir string `yaml:"project_dir"`
	Module     string `yaml:"module"`
	MinAPI     int    `yaml:"min_api"`
}

// AppleProject holds Apple deployment settings.
type AppleProject struct {
	DeploymentTarget string `yaml:"deployment_target"`
	TeamID           string `yaml:"team_id"`
}

// Load reads and parses the project descriptor at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var project Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	// Set defaults
	if project.Name == "" {
		project.Name = filepath.Base(filepath.Dir(path))
	}
	if project.Version == "" {
		project.Version = "0.1.0"
	}
	if project.Language == "" {
		project.Language = "c++"
	}
	if project.Android.ProjectDir == "" {
		project.Android.ProjectDir = "android"
	}
	if project.Android.Module == "" {
		project.Android.Module = "library"
	}
	if project.Android.MinAPI == 0 {
		project.Android.MinAPI = 21
	}
	if project.Harmony.ProjectDir == "" {
		project.Harmony.ProjectDir = "ohos"
	}
	if project.Harmony.Module == "" {
		project.Harmony.Module = "library"
	}
	if project.Harmony.MinAPI == 0 {
		project.Harmony.MinAPI = 10
	}
	if project.Apple.DeploymentTarget == "" {
		project.Apple.DeploymentTarget = "12.0"
	}

	return &project, nil
}

// LoadFromRoot loads the descriptor from the project root directory.
func LoadFromRoot(root string) (*Project, error) {
	return Load(filepath.Join(root, DescriptorName))
}

// LowerName returns the project name lower-cased for paths and metadata.
func (p *Project) LowerName() string {
	return strings.ToLower(p.Name)
}
