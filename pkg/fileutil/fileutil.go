// Package fileutil provides file access for the bmp24 command: case-insensitive
// path resolution and transparent zstd/gzip containers chosen by extension.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindFileCaseInsensitive searches dir for a regular file whose name matches
// filename ignoring case, and returns its actual path.
//
// Example:
//
//	path, err := FindFileCaseInsensitive("/path/to/dir", "Photo.BMP")
//	// Will find "photo.bmp", "PHOTO.BMP", "Photo.bmp", etc.
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, os.ErrNotExist)
}

// Resolve returns path unchanged if it exists, otherwise the case-insensitive
// match in the same directory. Files copied from case-insensitive file systems
// often disagree with the name typed on the command line.
func Resolve(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path))
}
