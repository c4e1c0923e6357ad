// Package services provides the lookup side of ytbox.
//
// # Backends
//
//   - [YTDLPSearcher] : free-text video search through yt-dlp's ytsearch ([VideoSearcher])
//   - [YouTubeService] : free-text song search over an optional HTTP search proxy ([VideoSearcher])
//   - [YouTubeVideoResolver] : metadata for a single video URL via kkdai/youtube ([VideoResolver])
//   - [SpotifyCatalog] : track search and lookup through the Spotify Web API ([Catalog])
//
// # Gateway
//
// [Gateway] combines the backends. [Gateway.Search] validates input before any
// outbound call, rate limits each provider independently and concatenates results
// provider by provider (YouTube first). A failing provider under [models.ProviderAny]
// becomes a [Warning] instead of aborting the search.
//
// [Gateway.ResolveByURL] turns a pasted YouTube or Spotify link into a track, using
// the optional [TrackCache] to avoid repeated lookups.
//
// All backend shapes are normalized here ([FromVideoHit], [FromCatalogTrack]).
package services
