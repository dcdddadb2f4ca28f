// Package pack turns a build output directory into a versioned archive
// plus a metadata file. Builders consume it as a black box.
package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveName returns the primary archive file name for a build.
func ArchiveName(name, platform, version string) string {
	return fmt.Sprintf("%s-%s-%s.zip", strings.ToLower(name), strings.ToLower(platform), version)
}

// SymbolsArchiveName returns the unstripped-symbols archive file name.
func SymbolsArchiveName(name, platform, version string) string {
	return fmt.Sprintf("%s-%s-%s-symbols.zip", strings.ToLower(name), strings.ToLower(platform), version)
}

// Archive zips the contents of dir (not dir itself) into destPath,
// creating parent directories as needed. Symlinks are skipped.
func Archive(dir, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", dir, err)
	}
	return nil
}

// DirHasFiles reports whether dir contains at least one regular file,
// recursively. Used to decide whether a symbols archive is produced.
func DirHasFiles(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}
