package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/session"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/gin-gonic/gin"
)

// Options configures a [Server].
type Options struct {
	Manager    *session.Manager
	Commands   *session.Commands
	Logger     *log.Logger
	Currency   string
	SessionTTL time.Duration
}

// Server owns the gin engine and the session reaper.
type Server struct {
	engine   *gin.Engine
	manager  *session.Manager
	commands *session.Commands
	logger   *log.Logger
	currency string
	ttl      time.Duration
}

// New builds a server with every route registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(opts.Logger))

	s := &Server{
		engine:   engine,
		manager:  opts.Manager,
		commands: opts.Commands,
		logger:   opts.Logger,
		currency: opts.Currency,
		ttl:      opts.SessionTTL,
	}
	s.RegisterRoutes(engine)
	return s
}

// Handler returns the root [http.Handler].
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down and closes every session.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go s.reapLoop(reapCtx, s.ttl/4)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return errors.Join(err, s.manager.CloseAll())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down")
	err := srv.Shutdown(shutdownCtx)
	return errors.Join(err, s.manager.CloseAll())
}

func (s *Server) reapLoop(ctx context.Context, every time.Duration) {
	if every < time.Second {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ids := s.manager.Reap(s.ttl); len(ids) > 0 {
				s.logger.Info("reaped idle sessions", "count", len(ids))
			}
		}
	}
}
