package services

import (
	"strconv"
	"strings"

	"github.com/desertthunder/ytbox/internal/models"
)

// FromVideoHit normalizes a video search result into a [models.Track].
func FromVideoHit(h VideoHit) models.Track {
	return models.Track{
		Title:            strings.TrimSpace(h.Title),
		Artist:           strings.TrimSpace(h.Uploader),
		Album:            h.Album,
		DurationSeconds:  max(h.DurationSeconds, 0),
		ThumbnailURL:     h.Thumbnail,
		SourceProvider:   models.ProviderYouTube,
		SourceURL:        models.YouTubeWatchURL(h.ID),
		ProviderNativeID: h.ID,
	}
}

// FromCatalogTrack normalizes a catalog track into a [models.Track].
//
// Every artist credit is kept, joined with ", ", and the first (largest) image becomes the thumbnail.
func FromCatalogTrack(c CatalogTrack) models.Track {
	t := models.Track{
		Title:            strings.TrimSpace(c.Name),
		Artist:           strings.Join(c.Artists, ", "),
		Album:            c.Album,
		DurationSeconds:  max(c.DurationMS/1000, 0),
		SourceProvider:   models.ProviderSpotify,
		SourceURL:        c.ExternalURL,
		ProviderNativeID: c.ID,
	}
	if t.SourceURL == "" && c.ID != "" {
		t.SourceURL = models.SpotifyTrackURL(c.ID)
	}
	if len(c.Images) > 0 {
		t.ThumbnailURL = c.Images[0]
	}
	return t
}

// parseClock converts "3:45" or "1:02:03" into seconds. Unparseable input yields 0.
func parseClock(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
