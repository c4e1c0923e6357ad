package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/kkdai/youtube/v2"
)

// videoGetter is the part of [youtube.Client] the resolver needs.
type videoGetter interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
}

// YouTubeVideoResolver implements [VideoResolver] by reading the video page metadata.
type YouTubeVideoResolver struct {
	client videoGetter
}

// NewYouTubeVideoResolver creates a resolver backed by a zero-value [youtube.Client].
func NewYouTubeVideoResolver() *YouTubeVideoResolver {
	return &YouTubeVideoResolver{client: &youtube.Client{}}
}

// ResolveVideo fetches title, uploader, duration and thumbnail for a video URL or bare id.
func (r *YouTubeVideoResolver) ResolveVideo(ctx context.Context, url string) (*VideoHit, error) {
	id, err := youtube.ExtractVideoID(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a youtube video", shared.ErrValidation, url)
	}

	video, err := r.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: youtube video %s: %v", shared.ErrLookupFailure, id, err)
	}

	hit := &VideoHit{
		ID:              video.ID,
		Title:           video.Title,
		Uploader:        video.Author,
		DurationSeconds: int(video.Duration.Seconds()),
	}
	if hit.ID == "" {
		hit.ID = id
	}

	var best uint
	for _, th := range video.Thumbnails {
		if area := th.Width * th.Height; hit.Thumbnail == "" || area > best {
			best, hit.Thumbnail = area, th.URL
		}
	}
	return hit, nil
}
