package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytbox/internal/archive"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

// Sink receives finished files: the "offer file for save" boundary.
type Sink interface {
	Offer(ctx context.Context, data []byte, filename, mimeType string) error
}

// DirSink saves offered files into a directory.
type DirSink struct {
	Dir   string
	Saved []string
}

// Offer implements [Sink].
func (d *DirSink) Offer(_ context.Context, data []byte, filename, _ string) error {
	if err := shared.EnsureDir(d.Dir); err != nil {
		return err
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}
	d.Saved = append(d.Saved, path)
	return nil
}

var audioMimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".opus": "audio/ogg",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
}

// AudioMimeType guesses the content type of an audio artifact from its extension.
func AudioMimeType(path string) string {
	if m, ok := audioMimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "application/octet-stream"
}

// OfferFile reads path and hands it to sink under its base name.
func OfferFile(ctx context.Context, sink Sink, path, mimeType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}
	return sink.Offer(ctx, data, filepath.Base(path), mimeType)
}

// Deliver offers the archive of a bundled batch, or every artifact of an individual one.
func Deliver(ctx context.Context, sink Sink, result *models.BatchResult) error {
	if result.ArchivePath != "" {
		return OfferFile(ctx, sink, result.ArchivePath, archive.MimeType)
	}
	for _, path := range result.Artifacts() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := OfferFile(ctx, sink, path, AudioMimeType(path)); err != nil {
			return err
		}
	}
	return nil
}
