package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatformCaseInsensitive(t *testing.T) {
	tests := []struct {
		input string
		want  Platform
	}{
		{"android", PlatformAndroid},
		{"Android", PlatformAndroid},
		{"macOS", PlatformMacOS},
		{"MACOS", PlatformMacOS},
		{"iOS", PlatformIOS},
		{"  linux ", PlatformLinux},
		{"OHOS", PlatformOHOS},
		{"Apple", PlatformApple},
		{"all", PlatformAll},
	}
	for _, tt := range tests {
		got, err := ParsePlatform(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParsePlatformUnknown(t *testing.T) {
	_, err := ParsePlatform("freebsd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "freebsd")
	assert.Contains(t, err.Error(), "android")
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "macOS", PlatformMacOS.Display())
	assert.Equal(t, "iOS", PlatformIOS.Display())
	assert.Equal(t, "tvOS", PlatformTVOS.Display())
	assert.Equal(t, "watchOS", PlatformWatchOS.Display())
	assert.Equal(t, "OHOS", PlatformOHOS.Display())
	assert.Equal(t, "Android", PlatformAndroid.Display())
}

func TestLowerIsAlwaysLowercase(t *testing.T) {
	for _, p := range ConcretePlatforms() {
		assert.Equal(t, p.Lower(), Platform(p.Display()).Lower())
	}
}

func TestIsMeta(t *testing.T) {
	assert.True(t, PlatformApple.IsMeta())
	assert.True(t, PlatformAll.IsMeta())
	for _, p := range ConcretePlatforms() {
		assert.False(t, p.IsMeta(), p)
	}
}

func TestExpandApple(t *testing.T) {
	expanded := PlatformApple.Expand()
	assert.Equal(t, []Platform{PlatformMacOS, PlatformIOS, PlatformTVOS, PlatformWatchOS}, expanded)
	for _, p := range expanded {
		assert.True(t, p.IsApple())
	}
}

func TestExpandAll(t *testing.T) {
	expanded := PlatformAll.Expand()
	assert.Len(t, expanded, 10)
	for _, p := range expanded {
		assert.False(t, p.IsMeta())
	}
}

func TestExpandConcreteIsIdentity(t *testing.T) {
	assert.Equal(t, []Platform{PlatformLinux}, PlatformLinux.Expand())
}
