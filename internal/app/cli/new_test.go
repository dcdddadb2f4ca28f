package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhlinh/ccgo-sub000/pkg/config"
)

func TestNewScaffoldsProject(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := NewCmd()
	cmd.SetArgs([]string{"audiokit", "--version", "0.2.0"})
	require.NoError(t, cmd.Execute())

	for _, rel := range []string{
		config.DescriptorName,
		"CMakeLists.txt",
		filepath.Join("include", "audiokit", "version.h"),
		filepath.Join("include", "audiokit", "audiokit.h"),
		filepath.Join("src", "audiokit.cc"),
		filepath.Join("test", "audiokit_test.cc"),
	} {
		assert.FileExists(t, filepath.Join("audiokit", rel), rel)
	}

	// The generated descriptor must load back through the config layer.
	cfg, err := config.LoadFromRoot("audiokit")
	require.NoError(t, err)
	assert.Equal(t, "audiokit", cfg.Name)
	assert.Equal(t, "0.2.0", cfg.Version)
}

func TestNewRefusesExistingDirectory(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.Mkdir("taken", 0755))

	cmd := NewCmd()
	cmd.SetArgs([]string{"taken"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
