package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/sales-tracker/internal/common"
)

// ErrTooManySessions is returned by Create when the manager is full.
var ErrTooManySessions = errors.New("too many open sessions")

// ManagerOptions bound how many sessions live at once and for how long.
type ManagerOptions struct {
	IdleTTL       time.Duration // 0 -> never expire
	SweepInterval time.Duration
	MaxSessions   int // 0 -> unlimited
}

// Manager owns the open sessions of a server process. Sessions never share data.
type Manager struct {
	deps   Deps
	opts   ManagerOptions
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Deps, opts ManagerOptions, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		deps:     deps,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opts.MaxSessions > 0 && len(m.sessions) >= m.opts.MaxSessions {
		return nil, ErrTooManySessions
	}
	s, err := New(ctx, m.deps, m.logger)
	if err != nil {
		return nil, err
	}
	m.sessions[s.ID] = s
	m.deps.Metrics.SessionOpened()
	m.logger.Info("session.created", "session_id", s.ID, "open", len(m.sessions))
	return s, nil
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, common.NewAppError(common.CodeSessionNotFound, fmt.Sprintf("session %q", id), common.ErrNotFound)
	}
	return s, nil
}

// Close ends a session and discards its contacts.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return common.NewAppError(common.CodeSessionNotFound, fmt.Sprintf("session %q", id), common.ErrNotFound)
	}
	m.deps.Metrics.SessionClosed()
	m.logger.Info("session.closed", "session_id", id)
	return s.Close()
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle since before now-IdleTTL and returns how many it closed.
func (m *Manager) Sweep(now time.Time) int {
	if m.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.opts.IdleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.deps.Metrics.SessionClosed()
		if err := s.Close(); err != nil {
			m.logger.Warn("session.expire.close_failed", "session_id", s.ID, "err", err)
		}
		m.logger.Info("session.expired", "session_id", s.ID)
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done, then closes everything.
func (m *Manager) Run(ctx context.Context) {
	defer m.CloseAll()
	if m.opts.IdleTTL <= 0 || m.opts.SweepInterval <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(m.opts.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Sweep(now)
		}
	}
}

// CloseAll closes every open session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for id, s := range all {
		m.deps.Metrics.SessionClosed()
		if err := s.Close(); err != nil {
			m.logger.Warn("session.close_failed", "session_id", id, "err", err)
		}
	}
}
