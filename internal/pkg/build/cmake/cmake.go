// Package cmake wraps the three cmake subprocess invocations the
// builders depend on: configure, build, install. Each fails with the
// literal process exit code on non-zero status and is never retried.
package cmake

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
)

// Variables for mocking in tests
var execCommand = exec.Command

// BuildType is the CMAKE_BUILD_TYPE variant.
type BuildType string

const (
	Debug          BuildType = "Debug"
	Release        BuildType = "Release"
	RelWithDebInfo BuildType = "RelWithDebInfo"
	MinSizeRel     BuildType = "MinSizeRel"
)

type defineValue struct {
	value    string
	typeName string // empty for plain -D<k>=<v>
}

// Invocation is a chainable cmake invocation value.
type Invocation struct {
	sourceDir     string
	buildDir      string
	installPrefix string
	buildType     BuildType
	generator     string
	toolchainFile string
	jobs          int
	defines       map[string]defineValue
	verbose       bool
}

// New creates an invocation for the given source and build directories.
func New(sourceDir, buildDir string) *Invocation {
	return &Invocation{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		buildType: Release,
		defines:   map[string]defineValue{},
	}
}

// BuildDir returns the configured build directory.
func (c *Invocation) BuildDir() string { return c.buildDir }

func (c *Invocation) SetBuildType(t BuildType) *Invocation {
	c.buildType = t
	return c
}

func (c *Invocation) Generator(name string) *Invocation {
	c.generator = name
	return c
}

func (c *Invocation) ToolchainFile(path string) *Invocation {
	c.toolchainFile = path
	return c
}

func (c *Invocation) InstallPrefix(dir string) *Invocation {
	c.installPrefix = dir
	return c
}

func (c *Invocation) Jobs(n int) *Invocation {
	c.jobs = n
	return c
}

func (c *Invocation) Verbose(v bool) *Invocation {
	c.verbose = v
	return c
}

// Define registers a plain -D<name>=<value> cache variable.
func (c *Invocation) Define(name, value string) *Invocation {
	c.defines[name] = defineValue{value: value}
	return c
}

// DefineTyped registers a typed -D<name>:<type>=<value> cache variable.
func (c *Invocation) DefineTyped(name, typeName, value string) *Invocation {
	c.defines[name] = defineValue{value: value, typeName: typeName}
	return c
}

// DefineBool registers an ON/OFF BOOL cache variable.
func (c *Invocation) DefineBool(name string, value bool) *Invocation {
	v := "OFF"
	if value {
		v = "ON"
	}
	return c.DefineTyped(name, "BOOL", v)
}

// ConfigureArgs returns the full cmake argument list for configure.
// Defines are emitted in sorted order for deterministic command lines.
func (c *Invocation) ConfigureArgs() []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir,
		"-DCMAKE_BUILD_TYPE=" + string(c.buildType)}
	if c.installPrefix != "" {
		args = append(args, "-DCMAKE_INSTALL_PREFIX="+c.installPrefix)
	}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.toolchainFile != "" {
		args = append(args, "-DCMAKE_TOOLCHAIN_FILE="+c.toolchainFile)
	}

	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		def := c.defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}

// Configure creates the build directory if absent and runs cmake
// configuration.
func (c *Invocation) Configure() error {
	if err := os.MkdirAll(c.buildDir, 0755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	return runQuiet(c.ConfigureArgs(), c.verbose)
}

// BuildArgs returns the cmake argument list for the build step.
func (c *Invocation) BuildArgs() []string {
	args := []string{"--build", c.buildDir}
	if c.jobs > 0 {
		args = append(args, "-j"+strconv.Itoa(c.jobs))
	}
	return args
}

// Build compiles the configured build directory.
func (c *Invocation) Build() error {
	return runBuild(c.BuildArgs(), c.verbose)
}

// Install runs cmake --install on the build directory.
func (c *Invocation) Install() error {
	return runQuiet([]string{"--install", c.buildDir}, c.verbose)
}

// ConfigureBuildInstall chains all three steps, stopping at the first
// failure.
func (c *Invocation) ConfigureBuildInstall() error {
	if err := c.Configure(); err != nil {
		return err
	}
	if err := c.Build(); err != nil {
		return err
	}
	return c.Install()
}
