// YouTube search over the HTTP search proxy.
//
// The proxy exposes GET /api/search?q=&filter=songs&limit= and returns a JSON
// array of songs. Only the fields needed for normalization are decoded.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/ytbox/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeImage represents an image/thumbnail from YouTube.
type YouTubeImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeArtist represents an artist credit in proxy responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a song/video in proxy responses.
type YouTubeTrack struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbum   `json:"album"`
	Duration    string          `json:"duration"`
	DurationSec int             `json:"duration_seconds"`
	Thumbnails  []YouTubeImage  `json:"thumbnails"`
}

// hit converts a proxy song into a [VideoHit], preferring the largest thumbnail.
func (y YouTubeTrack) hit() VideoHit {
	h := VideoHit{ID: y.VideoID, Title: y.Title, DurationSeconds: y.DurationSec}
	if h.DurationSeconds == 0 {
		h.DurationSeconds = parseClock(y.Duration)
	}
	if len(y.Artists) > 0 {
		h.Uploader = y.Artists[0].Name
	}
	if y.Album != nil {
		h.Album = y.Album.Name
	}
	best := -1
	for _, img := range y.Thumbnails {
		if area := img.Width * img.Height; area > best {
			best, h.Thumbnail = area, img.URL
		}
	}
	return h
}

// YouTubeService implements [VideoSearcher] against the search proxy.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube search client. A nil client uses [http.DefaultClient].
func NewYouTubeService(baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{baseURL: baseURL, httpClient: client}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: youtube proxy: %v", shared.ErrLookupFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube proxy (status %d): %s", shared.ErrLookupFailure, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube proxy: status %d", shared.ErrLookupFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode youtube response: %v", shared.ErrLookupFailure, err)
	}
	return nil
}

// SearchVideos searches for songs, returning at most limit hits.
//
// Calls GET /api/search?q={query}&filter=songs&limit={limit} on the proxy.
func (y *YouTubeService) SearchVideos(ctx context.Context, query string, limit int) ([]VideoHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("filter", "songs")
	params.Set("limit", strconv.Itoa(limit))

	var results []YouTubeTrack
	if err := y.doRequest(ctx, "/api/search?"+params.Encode(), &results); err != nil {
		return nil, err
	}

	hits := make([]VideoHit, 0, min(len(results), limit))
	for _, r := range results {
		if r.VideoID == "" {
			continue
		}
		hits = append(hits, r.hit())
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}
