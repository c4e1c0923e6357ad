// Package archive bundles acquired audio files into a single zip.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/shared"
)

// MimeType is the content type of archives produced by [Builder].
const MimeType = "application/zip"

// Name builds a timestamped archive name such as "Favorites_20240102_150405".
func Name(prefix string, t time.Time) string {
	return shared.Stamp(shared.SanitizeFilename(prefix), t)
}

// Builder writes archives into a fixed directory.
type Builder struct {
	dir    string
	logger *log.Logger
}

// NewBuilder returns a builder writing into dir.
func NewBuilder(dir string, logger *log.Logger) *Builder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Builder{dir: dir, logger: logger}
}

// Build writes <dir>/<name>.zip holding each existing path under its base name.
//
// Paths that do not exist are skipped, as are later paths whose base name was already
// added. When nothing is left to add no archive is written and [shared.ErrFilesystem]
// is returned.
func (b *Builder) Build(paths []string, name string) (string, error) {
	members := b.members(paths)
	if len(members) == 0 {
		return "", fmt.Errorf("%w: no artifacts to archive", shared.ErrFilesystem)
	}
	if err := shared.EnsureDir(b.dir); err != nil {
		return "", err
	}

	target := filepath.Join(b.dir, shared.SanitizeFilename(name)+".zip")
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}

	zw := zip.NewWriter(f)
	for _, p := range members {
		if err := addFile(zw, p); err != nil {
			zw.Close()
			f.Close()
			os.Remove(target)
			return "", fmt.Errorf("%w: adding %s: %v", shared.ErrFilesystem, filepath.Base(p), err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}

	b.logger.Info("archive written", "path", target, "members", len(members))
	return target, nil
}

// members filters paths down to existing files with unique base names, keeping order.
func (b *Builder) members(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !shared.FileExists(p) {
			b.logger.Debug("skipping missing artifact", "path", p)
			continue
		}
		base := filepath.Base(p)
		if seen[base] {
			b.logger.Warn("skipping duplicate member", "name", base, "path", p)
			continue
		}
		seen[base] = true
		out = append(out, p)
	}
	return out
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
