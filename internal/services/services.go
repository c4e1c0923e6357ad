// package services wraps the external lookup backends (a YouTube search proxy,
// YouTube video metadata and the Spotify Web API) behind small capability
// interfaces and exposes them through [Gateway].
package services

import (
	"context"

	"github.com/desertthunder/ytbox/internal/models"
)

// VideoHit is one result from a video search backend.
type VideoHit struct {
	ID              string
	Title           string
	Uploader        string
	Album           string
	DurationSeconds int
	Thumbnail       string
}

// CatalogTrack is one track from a music catalog backend.
type CatalogTrack struct {
	ID          string
	Name        string
	Artists     []string
	Album       string
	DurationMS  int
	Images      []string
	ExternalURL string
}

// VideoSearcher searches a video backend by free text.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, limit int) ([]VideoHit, error)
}

// Catalog searches and looks up tracks in a music catalog.
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]CatalogTrack, error)
	LookupTrack(ctx context.Context, id string) (*CatalogTrack, error)
}

// VideoResolver fetches metadata for a single video URL.
type VideoResolver interface {
	ResolveVideo(ctx context.Context, url string) (*VideoHit, error)
}

// TrackCache stores resolved tracks by source URL.
//
// A miss is reported as (nil, nil).
type TrackCache interface {
	GetTrack(sourceURL string) (*models.Track, error)
	PutTrack(track models.Track) error
}

// Warning is a non-fatal, per-provider failure attached to a search.
type Warning struct {
	Provider models.Provider `json:"provider"`
	Message  string          `json:"message"`
	Err      error           `json:"-"`
}

// SearchResult holds normalized tracks in provider-then-relevance order.
type SearchResult struct {
	Query    string          `json:"query"`
	Provider models.Provider `json:"provider"`
	Tracks   []models.Track  `json:"tracks"`
	Warnings []Warning       `json:"warnings,omitempty"`
}
