package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/acquisition"
	"github.com/desertthunder/ytbox/internal/creator"
	"github.com/desertthunder/ytbox/internal/repositories"
	"github.com/desertthunder/ytbox/internal/session"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/tasks"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	lookup      session.Lookup
	acquisition *acquisition.Service
	commands    *session.Commands
	manager     *session.Manager
	tracks      *repositories.TrackRepository
	engine      *tasks.PlaylistEngine // bulk exports only
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	openURL     func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Lookup     session.Lookup
	Extractor  acquisition.Extractor
	Tracks     *repositories.TrackRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	workdir := opts.Config.Acquisition.Workdir
	if workdir == "" {
		workdir = filepath.Join(os.TempDir(), "ytbox")
	}

	var acq *acquisition.Service
	if opts.Lookup != nil && opts.Extractor != nil {
		acq = acquisition.NewService(opts.Lookup, opts.Extractor, workdir, opts.Logger)
	}

	cfg := opts.Config
	commands := session.NewCommands(session.Deps{
		Lookup:        opts.Lookup,
		Acquisition:   acq,
		Links:         creator.SimulatedLinks{SuccessURL: cfg.Creator.SuccessURL},
		Currency:      cfg.Creator.Currency,
		RatePerStream: cfg.Creator.RatePerStream,
		DefaultLimit:  cfg.Lookup.DefaultLimit,
		Logger:        opts.Logger,
	})

	return &Runner{
		config:      cfg,
		configPath:  opts.ConfigPath,
		lookup:      opts.Lookup,
		acquisition: acq,
		commands:    commands,
		manager:     session.NewManager(workdir, opts.Logger),
		tracks:      opts.Tracks,
		engine:      tasks.NewPlaylistEngine(nil, nil, opts.Logger),
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		openURL:     shared.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, resolveCommand, downloadCommand, batchCommand, playlistCommand,
		shellCommand, serveCommand, setupCommand, cacheCommand, creatorCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// newSession starts a throwaway session for a one-shot command. The returned
// func closes it and purges its working area.
func (r *Runner) newSession() (*session.Session, func(), error) {
	sess, err := r.manager.Create()
	if err != nil {
		return nil, nil, err
	}
	return sess, func() {
		if err := r.manager.Close(sess.ID); err != nil {
			r.logger.Warn("failed to close session", "session", sess.ID, "error", err)
		}
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("%s", ui.Header(title))
}

func (r *Runner) progress(u tasks.ProgressUpdate) {
	r.writePlain("%s\n", ui.Progress(u))
}
