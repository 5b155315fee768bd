package room

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/store"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager manages all active sessions.
type Manager struct {
	sessions map[string]*Session // code -> session
	results  store.ResultStore
	// tickInterval drives each session's frame loop; zero disables the loop.
	tickInterval time.Duration
	// seed returns the seed for a new session's randomness.
	seed    func() int64
	codeRng *rand.Rand
	mu      sync.RWMutex
}

// NewManager creates a session manager. results may be nil.
func NewManager(results store.ResultStore, tickInterval time.Duration) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		results:      results,
		tickInterval: tickInterval,
		seed:         func() int64 { return time.Now().UnixNano() },
		codeRng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateSession generates a game for settings, registers it under a fresh code
// and starts its frame loop.
func (m *Manager) CreateSession(settings game.Settings) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := mapset.New[string]()
	for code := range m.sessions {
		existing.Put(code)
	}
	code := GenerateCode(m.codeRng, existing)

	s, err := NewSession(code, settings, rand.New(rand.NewSource(m.seed())), m.results)
	if err != nil {
		return nil, err
	}
	m.sessions[code] = s
	if m.tickInterval > 0 {
		s.Start(m.tickInterval)
	}

	slog.Info("session created", "code", code, "width", settings.Width, "height", settings.Height)
	return s, nil
}

// GetSession returns a session by its code.
func (m *Manager) GetSession(code string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// RemoveSession stops and forgets a session.
func (m *Manager) RemoveSession(code string) {
	m.mu.Lock()
	s, ok := m.sessions[code]
	delete(m.sessions, code)
	m.mu.Unlock()

	if ok {
		s.Stop()
		slog.Info("session removed", "code", code)
	}
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StopAll halts every session's frame loop.
func (m *Manager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.Stop()
	}
}
