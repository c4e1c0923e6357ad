package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/ytbox/internal/shared"
)

// Provider identifies an external music source.
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderSpotify Provider = "spotify"
	// ProviderAny is only meaningful as a search selector.
	ProviderAny Provider = "any"
)

// ParseProvider converts user input such as "YouTube" or "sp" into a [Provider].
// An empty string selects [ProviderAny].
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return ProviderAny, nil
	case "youtube", "yt":
		return ProviderYouTube, nil
	case "spotify", "sp":
		return ProviderSpotify, nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", shared.ErrValidation, s)
	}
}

// Valid reports whether p names a concrete provider a track can come from.
func (p Provider) Valid() bool {
	return p == ProviderYouTube || p == ProviderSpotify
}

// Label is the human readable provider name.
func (p Provider) Label() string {
	switch p {
	case ProviderYouTube:
		return "YouTube"
	case ProviderSpotify:
		return "Spotify"
	case ProviderAny:
		return "Any"
	default:
		return string(p)
	}
}

// Track is a normalized search or catalog result.
//
// Two tracks are the same song exactly when their SourceURL values match.
type Track struct {
	Title            string   `json:"title"`
	Artist           string   `json:"artist"`
	Album            string   `json:"album,omitempty"`
	DurationSeconds  int      `json:"duration_seconds"`
	ThumbnailURL     string   `json:"thumbnail_url,omitempty"`
	SourceProvider   Provider `json:"source_provider"`
	SourceURL        string   `json:"source_url"`
	ProviderNativeID string   `json:"provider_native_id,omitempty"`
}

// Validate checks the invariants a track must satisfy before it can join a collection.
func (t Track) Validate() error {
	if strings.TrimSpace(t.SourceURL) == "" {
		return fmt.Errorf("%w: track %q has no source url", shared.ErrValidation, t.Title)
	}
	if !t.SourceProvider.Valid() {
		return fmt.Errorf("%w: track %q has unknown provider %q", shared.ErrValidation, t.Title, t.SourceProvider)
	}
	if t.DurationSeconds < 0 {
		return fmt.Errorf("%w: track %q has negative duration", shared.ErrValidation, t.Title)
	}
	return nil
}

// SameSong reports whether t and o identify the same recording.
func (t Track) SameSong(o Track) bool {
	return t.SourceURL == o.SourceURL
}

// Query builds the free-text query used to find a playable copy of t on YouTube.
func (t Track) Query() string {
	return strings.Join(strings.Fields(t.Title+" "+t.Artist+" official audio"), " ")
}

// Duration renders DurationSeconds as m:ss, or h:mm:ss for long tracks.
func (t Track) Duration() string {
	s := t.DurationSeconds
	if s <= 0 {
		return "--:--"
	}
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// String implements [fmt.Stringer].
func (t Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

// Playlist is a named, ordered collection of tracks with no duplicate source URLs.
type Playlist struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// NewPlaylist creates an empty playlist.
func NewPlaylist(name string) *Playlist {
	return &Playlist{Name: name, Tracks: []Track{}}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.Tracks)
}

// IndexOf returns the position of the track with sourceURL, or -1.
func (p *Playlist) IndexOf(sourceURL string) int {
	for i, t := range p.Tracks {
		if t.SourceURL == sourceURL {
			return i
		}
	}
	return -1
}

// Contains reports whether a track with sourceURL is already present.
func (p *Playlist) Contains(sourceURL string) bool {
	return p.IndexOf(sourceURL) >= 0
}

// Clone returns a deep copy, safe to hand outside a session.
func (p *Playlist) Clone() *Playlist {
	tracks := make([]Track, len(p.Tracks))
	copy(tracks, p.Tracks)
	return &Playlist{Name: p.Name, Tracks: tracks}
}

// AcquisitionResult is the outcome of one acquisition.
//
// ResolvedTrack differs from Track when a catalog entry was acquired through a
// secondary YouTube lookup.
type AcquisitionResult struct {
	Track           Track   `json:"track"`
	ResolvedTrack   *Track  `json:"resolved_track,omitempty"`
	ArtifactPath    string  `json:"artifact_path,omitempty"`
	Succeeded       bool    `json:"succeeded"`
	FailureReason   string  `json:"failure_reason,omitempty"`
	MatchConfidence float64 `json:"match_confidence,omitempty"`
	Err             error   `json:"-"`
}

// Failed builds an unsuccessful result from err.
func Failed(track Track, err error) AcquisitionResult {
	return AcquisitionResult{Track: track, Succeeded: false, FailureReason: err.Error(), Err: err}
}

// BatchMode selects how batch artifacts are delivered.
type BatchMode string

const (
	// BatchBundle packs every successful artifact into one archive.
	BatchBundle BatchMode = "bundle"
	// BatchIndividual leaves artifacts as separate files.
	BatchIndividual BatchMode = "individual"
)

// ParseBatchMode converts user input into a [BatchMode]. Empty selects [BatchBundle].
func ParseBatchMode(s string) (BatchMode, error) {
	switch BatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BatchBundle, "zip":
		return BatchBundle, nil
	case BatchIndividual, "files":
		return BatchIndividual, nil
	default:
		return "", fmt.Errorf("%w: unknown batch mode %q", shared.ErrValidation, s)
	}
}

// ItemFailure records one failed item of a batch.
type ItemFailure struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
	Kind   string `json:"kind"`
}

// BatchResult aggregates a batch download.
type BatchResult struct {
	Playlist     string              `json:"playlist"`
	Mode         BatchMode           `json:"mode"`
	Successes    []AcquisitionResult `json:"successes"`
	FailureCount int                 `json:"failure_count"`
	Failures     []ItemFailure       `json:"failures,omitempty"`
	ArchivePath  string              `json:"archive_path,omitempty"`
}

// Artifacts lists the local paths of every successful item, in playlist order.
func (b *BatchResult) Artifacts() []string {
	paths := make([]string, 0, len(b.Successes))
	for _, s := range b.Successes {
		paths = append(paths, s.ArtifactPath)
	}
	return paths
}

// Total is the number of items processed.
func (b *BatchResult) Total() int {
	return len(b.Successes) + b.FailureCount
}
