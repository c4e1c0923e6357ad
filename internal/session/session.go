package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/shared"
)

// Session is a handle to one user's isolated [State] and working directory.
//
// Commands run one at a time through [Session.Do]; a second command waits for the
// first to finish or for its own context to end.
type Session struct {
	ID      string
	Dir     string
	Created time.Time

	state  *State
	sem    chan struct{}
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	busy     int
	lastUsed time.Time
}

// New creates a session whose working area is dir.
func New(id, dir string, logger *log.Logger) (*Session, error) {
	if err := shared.EnsureDir(dir); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Session{
		ID:       id,
		Dir:      dir,
		Created:  now,
		state:    NewState(),
		sem:      make(chan struct{}, 1),
		logger:   shared.WithLogger(logger, "session", id),
		ctx:      ctx,
		cancel:   cancel,
		lastUsed: now,
	}, nil
}

// Logger is the session scoped logger.
func (s *Session) Logger() *log.Logger {
	return s.logger
}

// Do runs fn with exclusive access to the session state.
//
// The context passed to fn is canceled when ctx ends or the session is closed.
// Returns [shared.ErrSessionClosed] once [Session.Close] has been called.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context, st *State) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return shared.ErrSessionClosed
	}
	defer func() { <-s.sem }()

	s.mu.Lock()
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return shared.ErrSessionClosed
	}
	s.busy++
	s.lastUsed = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy--
		s.lastUsed = time.Now()
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	return fn(runCtx, s.state)
}

// IdleSince reports when the session last finished a command, and whether one is running.
func (s *Session) IdleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed, s.busy > 0
}

// Closed reports whether [Session.Close] was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels any running command, waits for it to return, and removes the
// working area. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.cancel()
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("%w: removing %s: %v", shared.ErrFilesystem, s.Dir, err)
	}
	s.logger.Info("session closed", "dir", s.Dir)
	return nil
}

// CleanWorkdir removes downloaded and partial audio files from the working area.
func (s *Session) CleanWorkdir(ctx context.Context) (int, error) {
	removed := 0
	err := s.Do(ctx, func(context.Context, *State) error {
		n, err := shared.PurgeMatching(s.Dir, shared.PartialPatterns...)
		removed = n
		return err
	})
	return removed, err
}
