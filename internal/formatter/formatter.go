// package formatter renders playlist documents to the supported export formats
// (JSON, CSV, Markdown, plain text) and reads JSON documents back for import.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

// Format is an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat converts user input into a [Format]. Empty selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrValidation, s)
	}
}

// Extension is the file extension, without a dot, used for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText, FormatCSV:
		return string(f)
	default:
		return "json"
	}
}

// MimeType is the content type offered for f.
func (f Format) MimeType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatMarkdown:
		return "text/markdown"
	case FormatText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Filename is the suggested download name for doc in format f.
func Filename(doc models.PlaylistDocument, f Format) string {
	return shared.SanitizeFilename(doc.Name) + "." + f.Extension()
}

// Render converts doc into f.
func Render(doc models.PlaylistDocument, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(doc)
	case FormatMarkdown:
		return ExportToMarkdown(doc, "")
	case FormatText:
		return ExportToText(doc)
	default:
		return ExportToJSON(doc)
	}
}

// ExportToJSON renders the portable, re-importable playlist document.
func ExportToJSON(doc models.PlaylistDocument) ([]byte, error) {
	if doc.Songs == nil {
		doc.Songs = []models.Track{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// ParsePlaylistDocument decodes an exported playlist (current or legacy keys).
//
// Songs without a source url cannot be identified and are dropped.
func ParsePlaylistDocument(r io.Reader) (*models.PlaylistDocument, error) {
	var doc models.PlaylistDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid playlist document: %v", shared.ErrValidation, err)
	}

	songs := doc.Songs[:0]
	for _, s := range doc.Songs {
		if strings.TrimSpace(s.SourceURL) == "" {
			continue
		}
		songs = append(songs, s)
	}
	doc.Songs = songs
	return &doc, nil
}

// ReadPlaylistFile parses the playlist document stored at path.
func ReadPlaylistFile(path string) (*models.PlaylistDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}
	defer f.Close()
	return ParsePlaylistDocument(f)
}

// ExportToCSV converts a playlist document to CSV with columns: Title, Artist, Album, Duration, Provider, URL
func ExportToCSV(doc models.PlaylistDocument) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Album", "Duration", "Provider", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range doc.Songs {
		record := []string{
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.DurationSeconds),
			string(track.SourceProvider),
			track.SourceURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist document to Markdown with an optional cover image
func ExportToMarkdown(doc models.PlaylistDocument, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", doc.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if !doc.Created.IsZero() {
		buf.WriteString(fmt.Sprintf("**Created**: %s\n", doc.Created.Format(time.RFC3339)))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(doc.Songs)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range doc.Songs {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. [%s - %s](%s)%s [%s]\n", i+1, track.Artist, track.Title, track.SourceURL, albumPart, track.Duration()))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist document to plain text format
func ExportToText(doc models.PlaylistDocument) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", doc.Name))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(doc.Songs)))

	for i, track := range doc.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrValidation)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CoverURL picks the first track thumbnail as a playlist cover.
func CoverURL(doc models.PlaylistDocument) string {
	for _, t := range doc.Songs {
		if t.ThumbnailURL != "" {
			return t.ThumbnailURL
		}
	}
	return ""
}

// WriteExport writes doc in format f under dir and returns the created files.
//
// JSON, CSV and text exports produce a single {name}.{ext} file. Markdown exports
// create {dir}/{name}/README.md and, when cover is non-nil and succeeds, a cover.jpg
// next to it. A failed cover download is not an error.
func WriteExport(doc models.PlaylistDocument, f Format, dir string, cover func(url string) ([]byte, error)) ([]string, error) {
	if f == FormatMarkdown {
		return writeMarkdownExport(doc, filepath.Join(dir, shared.SanitizeFilename(doc.Name)), cover)
	}

	data, err := Render(doc, f)
	if err != nil {
		return nil, err
	}
	if err := shared.EnsureDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, Filename(doc, f))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: failed to write %s: %v", shared.ErrFilesystem, path, err)
	}
	return []string{path}, nil
}

func writeMarkdownExport(doc models.PlaylistDocument, dir string, cover func(url string) ([]byte, error)) ([]string, error) {
	if err := shared.EnsureDir(dir); err != nil {
		return nil, err
	}

	var files []string
	imageFilename := ""
	if url := CoverURL(doc); url != "" && cover != nil {
		if data, err := cover(url); err == nil {
			coverPath := filepath.Join(dir, "cover.jpg")
			if err := os.WriteFile(coverPath, data, 0o644); err == nil {
				imageFilename = "cover.jpg"
				files = append(files, coverPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(doc, imageFilename)
	if err != nil {
		return nil, err
	}
	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0o644); err != nil {
		return nil, fmt.Errorf("%w: failed to write %s: %v", shared.ErrFilesystem, mdFile, err)
	}
	return append(files, mdFile), nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write manifest: %v", shared.ErrFilesystem, err)
	}
	return nil
}
