package models

import (
	"net/url"
	"strings"
)

// GuessProvider infers the provider from a source URL, defaulting to YouTube.
func GuessProvider(sourceURL string) Provider {
	u, err := url.Parse(sourceURL)
	if err == nil && strings.HasSuffix(strings.ToLower(u.Hostname()), "spotify.com") {
		return ProviderSpotify
	}
	return ProviderYouTube
}

// YouTubeWatchURL is the canonical locator for a YouTube video id.
func YouTubeWatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// SpotifyTrackURL is the canonical locator for a Spotify track id.
func SpotifyTrackURL(trackID string) string {
	return "https://open.spotify.com/track/" + trackID
}

// SpotifyTrackID extracts the id from an open.spotify.com track URL or a spotify:track: URI.
func SpotifyTrackID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if id, ok := strings.CutPrefix(raw, "spotify:track:"); ok && id != "" {
		return id, true
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(strings.ToLower(u.Hostname()), "spotify.com") {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "track" && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}
