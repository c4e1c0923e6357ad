// Package acquisition turns a [models.Track] into a local audio file.
//
// YouTube tracks are extracted directly. Spotify exposes no audio stream, so a
// Spotify track is first resolved to a YouTube result with the query
// "<title> <artist> official audio" (limit 1) and that result is extracted
// instead. No step is retried; a failed [Service.Acquire] is final for that call.
//
// Extraction itself is delegated to an [Extractor]; [YTDLPExtractor] shells out
// to yt-dlp through go-ytdlp.
package acquisition
