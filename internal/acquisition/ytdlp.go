package acquisition

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

// YTDLPExtractor implements [Extractor] with yt-dlp: best audio stream, extracted
// and transcoded to a fixed container at a fixed quality.
type YTDLPExtractor struct {
	executable string
	format     string
	quality    string
	logger     *log.Logger
	run        func(ctx context.Context, cmd *ytdlp.Command, url string) error
}

// NewYTDLPExtractor creates an extractor from the acquisition config. Empty values
// default to mp3 at 192K using the yt-dlp found on $PATH.
func NewYTDLPExtractor(cfg shared.AcquisitionConfig, logger *log.Logger) *YTDLPExtractor {
	if cfg.AudioFormat == "" {
		cfg.AudioFormat = "mp3"
	}
	if cfg.AudioQuality == "" {
		cfg.AudioQuality = "192K"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &YTDLPExtractor{
		executable: cfg.YTDLPPath,
		format:     cfg.AudioFormat,
		quality:    cfg.AudioQuality,
		logger:     logger,
		run: func(ctx context.Context, cmd *ytdlp.Command, url string) error {
			_, err := cmd.Run(ctx, url)
			return err
		},
	}
}

// Format is the output container, e.g. "mp3".
func (x *YTDLPExtractor) Format() string {
	return x.format
}

// Extract writes <dir>/<basename>.<format>.
func (x *YTDLPExtractor) Extract(ctx context.Context, sourceURL, dir, basename string) (string, error) {
	if err := shared.EnsureDir(dir); err != nil {
		return "", err
	}

	cmd := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(x.format).
		AudioQuality(x.quality).
		NoPlaylist().
		ForceOverwrites().
		Output(filepath.Join(dir, basename+".%(ext)s"))
	if x.executable != "" {
		cmd.SetExecutable(x.executable)
	}

	x.logger.Debug("running yt-dlp", "url", sourceURL, "dir", dir, "name", basename)
	if err := x.run(ctx, cmd, sourceURL); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: yt-dlp: %v", shared.ErrExtractionFailed, err)
	}

	path := filepath.Join(dir, basename+"."+x.format)
	if !shared.FileExists(path) {
		return "", fmt.Errorf("%w: expected output %s is missing", shared.ErrExtractionFailed, path)
	}
	return path, nil
}

// Install makes sure a yt-dlp executable is available, downloading one into the
// user cache when none is found. It returns the executable path and version.
func Install(ctx context.Context) (string, string, error) {
	res, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: installing yt-dlp: %v", shared.ErrProviderUnavailable, err)
	}
	return res.Executable, res.Version, nil
}
