package acquisition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/services"
	"github.com/desertthunder/ytbox/internal/shared"
)

// LowConfidence is the match score below which a secondary resolution is logged as suspect.
const LowConfidence = 0.75

// Lookup is the search capability used for secondary resolution; [services.Gateway] satisfies it.
type Lookup interface {
	Search(ctx context.Context, query string, provider models.Provider, limit int) (*services.SearchResult, error)
}

// Extractor downloads the best available audio for sourceURL into dir and
// transcodes it, returning the path of the written file.
type Extractor interface {
	Extract(ctx context.Context, sourceURL, dir, basename string) (string, error)
}

// Service resolves and retrieves audio artifacts into a working directory.
type Service struct {
	lookup    Lookup
	extractor Extractor
	workdir   string
	logger    *log.Logger
}

// NewService creates an acquisition service writing into workdir.
func NewService(lookup Lookup, extractor Extractor, workdir string, logger *log.Logger) *Service {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Service{lookup: lookup, extractor: extractor, workdir: workdir, logger: logger}
}

// In returns a copy of the service that writes into dir, typically a session's working area.
func (s *Service) In(dir string) *Service {
	c := *s
	c.workdir = dir
	return &c
}

// Workdir is the directory artifacts are written to.
func (s *Service) Workdir() string {
	return s.workdir
}

// Acquire produces at most one artifact for track, named after its sanitized title.
//
// Failures are reported in the result, never returned: the error kinds are
// [shared.ErrProviderUnavailable], [shared.ErrNoMatchFound],
// [shared.ErrExtractionFailed] and [shared.ErrFilesystem].
func (s *Service) Acquire(ctx context.Context, track models.Track) models.AcquisitionResult {
	return s.AcquireAs(ctx, track, track.Title)
}

// AcquireAs is [Service.Acquire] with an explicit base file name (before sanitizing).
func (s *Service) AcquireAs(ctx context.Context, track models.Track, basename string) models.AcquisitionResult {
	if err := track.Validate(); err != nil {
		return models.Failed(track, err)
	}
	if s.extractor == nil {
		return models.Failed(track, fmt.Errorf("%w: no extractor configured", shared.ErrProviderUnavailable))
	}
	if err := shared.EnsureDir(s.workdir); err != nil {
		return models.Failed(track, err)
	}

	source := track
	result := models.AcquisitionResult{Track: track}

	if track.SourceProvider == models.ProviderSpotify {
		resolved, confidence, err := s.resolve(ctx, track)
		if err != nil {
			s.logger.Warn("secondary resolution failed", "track", track.String(), "err", err)
			return models.Failed(track, err)
		}
		source = *resolved
		result.ResolvedTrack = resolved
		result.MatchConfidence = confidence
		if confidence < LowConfidence {
			s.logger.Warn("low confidence match", "track", track.String(), "match", resolved.String(), "score", fmt.Sprintf("%.2f", confidence))
		}
	}

	path, err := s.extractor.Extract(ctx, source.SourceURL, s.workdir, shared.SanitizeFilename(basename))
	if err != nil {
		if !errors.Is(err, shared.ErrFilesystem) && !errors.Is(err, shared.ErrExtractionFailed) {
			err = fmt.Errorf("%w: %w", shared.ErrExtractionFailed, err)
		}
		s.logger.Warn("extraction failed", "track", track.String(), "url", source.SourceURL, "err", err)
		return models.Failed(track, err)
	}
	if !shared.FileExists(path) {
		return models.Failed(track, fmt.Errorf("%w: extractor reported %s but nothing was written", shared.ErrExtractionFailed, path))
	}

	result.ArtifactPath = path
	result.Succeeded = true
	s.logger.Info("acquired", "track", track.String(), "path", path)
	return result
}

// resolve finds a playable YouTube copy of a catalog track.
func (s *Service) resolve(ctx context.Context, track models.Track) (*models.Track, float64, error) {
	if s.lookup == nil {
		return nil, 0, fmt.Errorf("%w: no lookup configured for secondary resolution", shared.ErrProviderUnavailable)
	}

	res, err := s.lookup.Search(ctx, track.Query(), models.ProviderYouTube, 1)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrProviderUnavailable) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %w", shared.ErrProviderUnavailable, err)
	}
	if res == nil || len(res.Tracks) == 0 {
		return nil, 0, fmt.Errorf("%w: %q", shared.ErrNoMatchFound, track.Query())
	}

	match := res.Tracks[0]
	return &match, MatchScore(track, match), nil
}

// MatchScore rates how closely candidate's title and artist match want, from 0 to 1.
func MatchScore(want, candidate models.Track) float64 {
	a := strings.ToLower(strings.Join(strings.Fields(want.Title+" "+want.Artist), " "))
	b := strings.ToLower(strings.Join(strings.Fields(candidate.Title+" "+candidate.Artist), " "))
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(a, b, metrics.NewJaroWinkler())
}
