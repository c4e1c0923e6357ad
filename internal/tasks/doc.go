// Package tasks orchestrates multi-item playlist work with progress reporting.
//
// # Core Operations
//
//  1. [PlaylistEngine.BatchDownload] : acquire every track of a playlist
//     - Items are processed strictly in playlist order, one at a time
//     - A failed item is recorded as an [models.ItemFailure] and the batch continues
//     - Bundle mode packs all successes into one zip, Individual mode leaves them as files
//     - Nothing succeeding is [shared.ErrAllDownloadsFailed]; no archive is written
//
//  2. [Deliver] : hand the batch output to a [Sink]
//     - The archive for bundled batches, otherwise each artifact
//
//  3. [PlaylistEngine.BulkExport] : render many playlist documents at once
//     - Worker pool with a rate limiter on cover image downloads
//     - Writes export_manifest.json summarizing every document
//
// # Progress Reporting
//
// Operations take an optional [ProgressFunc]. It is called synchronously with a
// [ProgressUpdate] before and after each item, so the sequence of Step values
// follows playlist order 1..N.
package tasks
