package shared

import (
	"fmt"
	"os"
	"path/filepath"
)

// PartialPatterns match the leftovers of interrupted or finished extractions in a working directory.
var PartialPatterns = []string{"*.mp3", "*.m4a", "*.opus", "*.part", "*.ytdl"}

// EnsureDir creates dir and any parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	return nil
}

// PurgeMatching removes files in dir matching any of patterns and returns how many were removed.
// Subdirectories are left alone.
func PurgeMatching(dir string, patterns ...string) (int, error) {
	removed := 0
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if err := os.Remove(m); err != nil {
				return removed, fmt.Errorf("%w: %v", ErrFilesystem, err)
			}
			removed++
		}
	}
	return removed, nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
