package repositories

import (
	"errors"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

// TrackCacheAdapter implements services.TrackCache using TrackRepository.
//
// Misses are reported as (nil, nil) so the gateway falls through to the provider.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// GetTrack returns the cached track for sourceURL, or nil when it is not cached.
func (a *TrackCacheAdapter) GetTrack(sourceURL string) (*models.Track, error) {
	t, err := a.repo.Get(sourceURL)
	if errors.Is(err, shared.ErrTrackNotFound) {
		return nil, nil
	}
	return t, err
}

// PutTrack stores track.
func (a *TrackCacheAdapter) PutTrack(track models.Track) error {
	return a.repo.Put(track)
}
