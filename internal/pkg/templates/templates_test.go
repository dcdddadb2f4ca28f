package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

func TestGenerateDescriptorRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DescriptorName)
	require.NoError(t, os.WriteFile(path, []byte(GenerateDescriptor("mylib", "1.2.3")), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mylib", cfg.Name)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "c++", cfg.Language)
	assert.True(t, cfg.HiddenSymbols)
	assert.Equal(t, "android", cfg.Android.ProjectDir)
	assert.Equal(t, 21, cfg.Android.MinAPI)
	assert.Equal(t, "ohos", cfg.Harmony.ProjectDir)
	assert.Equal(t, "12.0", cfg.Apple.DeploymentTarget)
}

func TestGenerateDescriptorDefaultsVersion(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(GenerateDescriptor("mylib", "")), &doc))
	assert.Equal(t, "0.1.0", doc["version"])
}

func TestGenerateCMakeListsRespectsInjectedLibName(t *testing.T) {
	out := GenerateCMakeLists("mylib")
	assert.Contains(t, out, "if(NOT DEFINED CCGO_LIB_NAME)")
	assert.Contains(t, out, "add_library(${CCGO_LIB_NAME} src/mylib.cc)")
	assert.Contains(t, out, "if(BUILD_TESTING)")
	assert.Contains(t, out, "install(DIRECTORY include/ DESTINATION include)")
}

func TestGenerateVersionHeader(t *testing.T) {
	out := GenerateVersionHeader("mylib", "2.10.3")
	assert.Contains(t, out, `#define MYLIB_VERSION "2.10.3"`)
	assert.Contains(t, out, "#define MYLIB_VERSION_MAJOR 2")
	assert.Contains(t, out, "#define MYLIB_VERSION_MINOR 10")
	assert.Contains(t, out, "#define MYLIB_VERSION_PATCH 3")
}

func TestGenerateVersionHeaderPadsShortVersions(t *testing.T) {
	out := GenerateVersionHeader("mylib", "2")
	assert.Contains(t, out, "#define MYLIB_VERSION_MINOR 0")
	assert.Contains(t, out, "#define MYLIB_VERSION_PATCH 0")
}

func TestGeneratedSourcesUseSafeIdentifiers(t *testing.T) {
	header := GenerateHeader("my-lib")
	assert.Contains(t, header, "namespace my_lib {")
	assert.Contains(t, header, "#ifndef MY_LIB_H_")

	source := GenerateSource("my-lib")
	assert.Contains(t, source, `#include "my-lib/my-lib.h"`)
	assert.Contains(t, source, "return MY_LIB_VERSION;")

	test := GenerateTest("my-lib")
	assert.Contains(t, test, "my_lib::Version()")
}

func TestSafeIdent(t *testing.T) {
	assert.Equal(t, "mylib", SafeIdent("mylib"))
	assert.Equal(t, "my_lib", SafeIdent("my-lib"))
	assert.Equal(t, "my_lib_2", SafeIdent("my.lib 2"))
	assert.Equal(t, "_9lives", SafeIdent("9lives"))
	assert.Equal(t, "project", SafeIdent(""))
}
