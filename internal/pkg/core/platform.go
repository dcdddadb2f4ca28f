package core

import (
	"fmt"
	"strings"
)

// Platform identifies a build target. Meta platforms (PlatformApple,
// PlatformAll) expand to a set of concrete platforms and are only valid
// at scheduling boundaries, never inside a single-platform builder.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformIOS     Platform = "ios"
	PlatformTVOS    Platform = "tvos"
	PlatformWatchOS Platform = "watchos"
	PlatformAndroid Platform = "android"
	PlatformOHOS    Platform = "ohos"
	PlatformKMP     Platform = "kmp"
	PlatformConan   Platform = "conan"

	// Meta platforms, expansion only.
	PlatformApple Platform = "apple"
	PlatformAll   Platform = "all"
)

var displayNames = map[Platform]string{
	PlatformLinux:   "Linux",
	PlatformWindows: "Windows",
	PlatformMacOS:   "macOS",
	PlatformIOS:     "iOS",
	PlatformTVOS:    "tvOS",
	PlatformWatchOS: "watchOS",
	PlatformAndroid: "Android",
	PlatformOHOS:    "OHOS",
	PlatformKMP:     "KMP",
	PlatformConan:   "Conan",
	PlatformApple:   "Apple",
	PlatformAll:     "All",
}

// ParsePlatform parses a platform identifier case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := displayNames[p]; !ok {
		return "", fmt.Errorf("unknown platform %q (expected one of: %s)", s, strings.Join(PlatformNames(), ", "))
	}
	return p, nil
}

// Display returns the canonical display casing (macOS, iOS, OHOS...).
func (p Platform) Display() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}

// Lower returns the platform name lower-cased. Every on-disk path
// segment uses this form regardless of display casing.
func (p Platform) Lower() string {
	return strings.ToLower(string(p))
}

// IsMeta reports whether p selects a set of platforms rather than one.
func (p Platform) IsMeta() bool {
	return p == PlatformApple || p == PlatformAll
}

// IsApple reports whether p builds against the Xcode toolchain.
func (p Platform) IsApple() bool {
	switch p {
	case PlatformMacOS, PlatformIOS, PlatformTVOS, PlatformWatchOS:
		return true
	}
	return false
}

// Expand resolves meta platforms into concrete ones. Concrete platforms
// expand to themselves.
func (p Platform) Expand() []Platform {
	switch p {
	case PlatformApple:
		return []Platform{PlatformMacOS, PlatformIOS, PlatformTVOS, PlatformWatchOS}
	case PlatformAll:
		return ConcretePlatforms()
	default:
		return []Platform{p}
	}
}

// ConcretePlatforms lists every buildable platform in scheduling order:
// Apple platforms first (they serialize on one Xcode install), then the
// build-daemon platforms, then the independent rest.
func ConcretePlatforms() []Platform {
	return []Platform{
		PlatformMacOS, PlatformIOS, PlatformTVOS, PlatformWatchOS,
		PlatformAndroid, PlatformKMP, PlatformOHOS,
		PlatformLinux, PlatformWindows, PlatformConan,
	}
}

// PlatformNames lists every accepted identifier for error messages.
func PlatformNames() []string {
	names := make([]string, 0, len(displayNames))
	for _, p := range ConcretePlatforms() {
		names = append(names, string(p))
	}
	return append(names, string(PlatformApple), string(PlatformAll))
}
