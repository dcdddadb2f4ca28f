package pack

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveNames(t *testing.T) {
	assert.Equal(t, "mylib-android-1.2.3.zip", ArchiveName("MyLib", "Android", "1.2.3"))
	assert.Equal(t, "mylib-ios-1.2.3-abc-symbols.zip", SymbolsArchiveName("MyLib", "iOS", "1.2.3-abc"))
}

func TestArchiveRoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "static", "arm64-v8a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "static", "arm64-v8a", "libmylib.a"), []byte("archive"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "include"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "include", "mylib.h"), []byte("#pragma once"), 0644))

	dest := filepath.Join(t.TempDir(), "out", "mylib-android-1.0.0.zip")
	require.NoError(t, Archive(src, dest))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	contents := map[string]string{}
	for _, f := range r.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = string(data)
	}
	sort.Strings(names)

	// The archive holds dir contents with slash-separated paths, not
	// the dir itself.
	assert.Equal(t, []string{"include/mylib.h", "static/arm64-v8a/libmylib.a"}, names)
	assert.Equal(t, "archive", contents["static/arm64-v8a/libmylib.a"])
}

func TestArchiveSkipsSymlinks(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "real.txt"), []byte("x"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(src, "real.txt"), filepath.Join(src, "link.txt")))

	dest := filepath.Join(t.TempDir(), "a.zip")
	require.NoError(t, Archive(src, dest))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 1)
	assert.Equal(t, "real.txt", r.File[0].Name)
}

func TestDirHasFiles(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, DirHasFiles(dir))
	assert.False(t, DirHasFiles(filepath.Join(dir, "missing")))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty", "nested"), 0755))
	assert.False(t, DirHasFiles(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty", "nested", "f"), nil, 0644))
	assert.True(t, DirHasFiles(dir))
}
