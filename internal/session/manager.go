package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/shared"
)

// Manager owns the live sessions of a process, each in its own subdirectory of root.
type Manager struct {
	root   string
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager placing session working areas under root.
func NewManager(root string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{root: root, logger: logger, now: time.Now, sessions: map[string]*Session{}}
}

// Create starts a new session.
func (m *Manager) Create() (*Session, error) {
	id := shared.GenerateID()
	s, err := New(id, filepath.Join(m.root, id), m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session", id)
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrSessionNotFound, id)
	}
	return s, nil
}

// IDs lists live session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close ends a session and purges its working area.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrSessionNotFound, id)
	}
	return s.Close()
}

// CloseAll ends every session.
func (m *Manager) CloseAll() error {
	var errs []error
	for _, id := range m.IDs() {
		if err := m.Close(id); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reap closes sessions that have been idle for longer than ttl and returns their ids.
// Sessions with a command in flight are never reaped.
func (m *Manager) Reap(ttl time.Duration) []string {
	cutoff := m.now().Add(-ttl)

	var stale []string
	m.mu.Lock()
	for id, s := range m.sessions {
		if last, busy := s.IdleSince(); !busy && last.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	sort.Strings(stale)
	for _, id := range stale {
		if err := m.Close(id); err != nil {
			m.logger.Warn("failed to reap session", "session", id, "err", err)
			continue
		}
		m.logger.Info("reaped idle session", "session", id, "ttl", ttl)
	}
	return stale
}
