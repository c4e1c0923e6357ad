package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/ytbox/internal/formatter"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format                 // Export format: json, csv, markdown, txt
	OutputDir  string                           // Base output directory (default: playlist_export_{epoch})
	NumWorkers int                              // Concurrent workers (default: 5)
	RateLimit  float64                          // Cover downloads per second (default: 5)
	CoverImage func(url string) ([]byte, error) // Optional cover fetcher for markdown exports
}

// PlaylistExportJob is one document queued for export.
type PlaylistExportJob struct {
	Index    int
	Document models.PlaylistDocument
}

// PlaylistExportResult is the outcome of exporting one document.
type PlaylistExportResult struct {
	PlaylistName string   `json:"playlist_name"`
	Tracks       int      `json:"tracks"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export; it is also written as the manifest.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Format            formatter.Format       `json:"format"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

// BulkExport writes several playlist documents concurrently and records a manifest.
//
// Workers render documents in parallel; cover downloads for markdown exports are
// rate limited. One failing document never stops the others. Progress is reported
// from the calling goroutine as results arrive.
func (e *PlaylistEngine) BulkExport(
	ctx context.Context,
	progress ProgressFunc,
	docs []models.PlaylistDocument,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no playlists to export", shared.ErrEmptyPlaylist)
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := shared.EnsureDir(opts.OutputDir); err != nil {
		return nil, err
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(docs),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(docs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	cover := opts.CoverImage
	if cover != nil {
		cover = func(url string) ([]byte, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return opts.CoverImage(url)
		}
	}

	jobs := make(chan PlaylistExportJob, len(docs))
	results := make(chan PlaylistExportResult, len(docs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts, cover)
	}

	for i, doc := range docs {
		jobs <- PlaylistExportJob{Index: i, Document: doc}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(progress, exportCompletedUpdate(completed, len(docs), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(progress, exportFailedUpdate(completed, len(docs), res.PlaylistName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *PlaylistEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
	cover func(string) ([]byte, error),
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e.logger.Debug(exportingPlaylistUpdate(job.Index+1, cap(jobs), job.Document.Name).Message)
		results <- exportSinglePlaylist(job, opts, cover)
	}
}

// exportSinglePlaylist exports one document into its own subdirectory of the output
// directory so that playlists with the same name do not overwrite each other.
func exportSinglePlaylist(j PlaylistExportJob, opts BulkExportOpts, cover func(string) ([]byte, error)) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistName: j.Document.Name,
		Tracks:       len(j.Document.Songs),
		Files:        []string{},
	}

	dir := filepath.Join(opts.OutputDir, fmt.Sprintf("%02d", j.Index+1))
	files, err := formatter.WriteExport(j.Document, opts.Format, dir, cover)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		result.ErrorMessage = result.Error.Error()
		return result
	}
	result.Files = files
	result.Success = true
	return result
}
