package core

// LinkType selects which library variants are built, merged, stripped
// and archived. Independent of platform.
type LinkType string

const (
	LinkStatic LinkType = "static"
	LinkShared LinkType = "shared"
	LinkBoth   LinkType = "both"
)

// BuildStatic reports whether static libraries are part of this build.
func (l LinkType) BuildStatic() bool {
	return l == LinkStatic || l == LinkBoth
}

// BuildShared reports whether shared libraries are part of this build.
func (l LinkType) BuildShared() bool {
	return l == LinkShared || l == LinkBoth
}

// WindowsToolchain selects the compiler family for Windows targets.
type WindowsToolchain string

const (
	WindowsMinGW WindowsToolchain = "mingw"
	WindowsMSVC  WindowsToolchain = "msvc"
)

// BuildOptions is an immutable snapshot of user intent, created once per
// invocation and never mutated.
type BuildOptions struct {
	Target        Platform
	Archs         []string // empty means the builder's defaults
	Link          LinkType
	UseContainer  bool // force the container build path
	AutoContainer bool // containerize per concrete platform when the host cannot build it
	Jobs          int  // 0 means host CPU count
	Release       bool
	NativeOnly    bool // skip the mobile ecosystem packaging step
	WinToolchain  WindowsToolchain
	CacheTool     string // ccache/sccache preference, empty disables
	Verbose       bool
}

// Mode returns the release/debug path segment for this option set.
func (o BuildOptions) Mode() string {
	if o.Release {
		return "release"
	}
	return "debug"
}
