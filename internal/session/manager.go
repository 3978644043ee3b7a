package session

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// Manager creates and looks up sessions. Every session gets its own copy of
// the search settings and its own transposition table.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      config.SearchConfig
	log      zerolog.Logger
}

// NewManager returns a manager whose sessions search with cfg. A nil cfg uses
// the defaults.
func NewManager(cfg *config.SearchConfig, log zerolog.Logger) *Manager {
	if cfg == nil {
		cfg = config.NewSearchConfig()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      *cfg,
		log:      log,
	}
}

// Create starts a session in the standard starting position.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := New(&m.cfg, m.log)
	m.sessions[s.ID] = s
	m.log.Debug().Str("session", s.ID).Msg("session-created")
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return s, nil
}

// Delete stops and removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return errors.ErrSessionNotFound
	}
	s.Stop()
	m.log.Debug().Str("session", id).Msg("session-deleted")
	return nil
}

// IDs returns the IDs of all sessions.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Keys(m.sessions)
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
