package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

// ytdlpEntry is one flat search entry from yt-dlp's single JSON dump.
type ytdlpEntry struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Uploader   string         `json:"uploader"`
	Channel    string         `json:"channel"`
	Album      string         `json:"album"`
	Duration   float64        `json:"duration"`
	Thumbnails []YouTubeImage `json:"thumbnails"`
}

func (e ytdlpEntry) hit() VideoHit {
	h := VideoHit{
		ID:              e.ID,
		Title:           e.Title,
		Uploader:        e.Uploader,
		Album:           e.Album,
		DurationSeconds: int(e.Duration + 0.5),
	}
	if h.Uploader == "" {
		h.Uploader = e.Channel
	}
	best := -1
	for _, img := range e.Thumbnails {
		if area := img.Width * img.Height; area > best {
			best, h.Thumbnail = area, img.URL
		}
	}
	return h
}

// YTDLPSearcher implements [VideoSearcher] with yt-dlp's ytsearch extractor. It
// needs no search proxy, only the yt-dlp executable.
type YTDLPSearcher struct {
	executable string
	logger     *log.Logger
	run        func(ctx context.Context, cmd *ytdlp.Command, target string) (*ytdlp.Result, error)
}

// NewYTDLPSearcher creates a searcher. An empty executable uses yt-dlp from $PATH.
func NewYTDLPSearcher(executable string, logger *log.Logger) *YTDLPSearcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &YTDLPSearcher{
		executable: executable,
		logger:     logger,
		run: func(ctx context.Context, cmd *ytdlp.Command, target string) (*ytdlp.Result, error) {
			return cmd.Run(ctx, target)
		},
	}
}

// Name returns the service name.
func (y *YTDLPSearcher) Name() string {
	return "YouTube (yt-dlp)"
}

// SearchVideos runs "ytsearch<limit>:<query>" as a flat playlist and decodes the entries.
func (y *YTDLPSearcher) SearchVideos(ctx context.Context, query string, limit int) ([]VideoHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrValidation)
	}
	if limit < 1 {
		limit = 1
	}

	cmd := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		SkipDownload().
		NoWarnings()
	if y.executable != "" {
		cmd.SetExecutable(y.executable)
	}

	target := fmt.Sprintf("ytsearch%d:%s", limit, query)
	y.logger.Debug("running yt-dlp search", "target", target)
	res, err := y.run(ctx, cmd, target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: yt-dlp search: %v", shared.ErrLookupFailure, err)
	}
	if res == nil || strings.TrimSpace(res.Stdout) == "" {
		return []VideoHit{}, nil
	}

	var dump struct {
		Entries []ytdlpEntry `json:"entries"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &dump); err != nil {
		return nil, fmt.Errorf("%w: failed to decode yt-dlp output: %v", shared.ErrLookupFailure, err)
	}

	hits := make([]VideoHit, 0, min(len(dump.Entries), limit))
	for _, e := range dump.Entries {
		if e.ID == "" {
			continue
		}
		hits = append(hits, e.hit())
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}
