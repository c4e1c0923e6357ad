// Spotify Web API [Catalog] implementation using the client credentials flow.
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// SpotifyCatalog implements [Catalog] on top of [spotify.Client].
type SpotifyCatalog struct {
	client *spotify.Client
}

// NewSpotifyCatalog authenticates with client credentials and returns a catalog client.
//
// Returns [shared.ErrMissingCredentials] when either credential is empty; callers treat
// that as "provider disabled".
func NewSpotifyCatalog(ctx context.Context, creds shared.SpotifyConfig) (*SpotifyCatalog, error) {
	if !creds.Enabled() {
		return nil, fmt.Errorf("%w: spotify client id and secret are required", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return NewSpotifyCatalogWithClient(config.Client(ctx)), nil
}

// NewSpotifyCatalogWithClient wraps an already authorized HTTP client.
// Options such as [spotify.WithBaseURL] are passed through to [spotify.New].
func NewSpotifyCatalogWithClient(httpClient *http.Client, opts ...spotify.ClientOption) *SpotifyCatalog {
	return &SpotifyCatalog{client: spotify.New(httpClient, opts...)}
}

// Name returns the service name.
func (s *SpotifyCatalog) Name() string {
	return "Spotify"
}

// SearchTracks searches the catalog for tracks matching query.
func (s *SpotifyCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]CatalogTrack, error) {
	res, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: spotify search: %v", shared.ErrLookupFailure, err)
	}
	if res.Tracks == nil {
		return []CatalogTrack{}, nil
	}

	tracks := make([]CatalogTrack, 0, len(res.Tracks.Tracks))
	for _, ft := range res.Tracks.Tracks {
		tracks = append(tracks, transformTrack(ft))
		if len(tracks) == limit {
			break
		}
	}
	return tracks, nil
}

// LookupTrack fetches a single track by its Spotify ID.
func (s *SpotifyCatalog) LookupTrack(ctx context.Context, id string) (*CatalogTrack, error) {
	ft, err := s.client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("%w: spotify track %s: %v", shared.ErrLookupFailure, id, err)
	}
	ct := transformTrack(*ft)
	return &ct, nil
}

func transformTrack(ft spotify.FullTrack) CatalogTrack {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}

	images := make([]string, 0, len(ft.Album.Images))
	for _, img := range ft.Album.Images {
		images = append(images, img.URL)
	}

	return CatalogTrack{
		ID:          string(ft.ID),
		Name:        ft.Name,
		Artists:     artists,
		Album:       ft.Album.Name,
		DurationMS:  int(ft.Duration),
		Images:      images,
		ExternalURL: ft.ExternalURLs["spotify"],
	}
}
