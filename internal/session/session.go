// Package session composes one store, canvas controller and inspector per
// connected client and keeps them in a registry.
package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terrascope/canvas/internal/canvas"
	"github.com/terrascope/canvas/internal/inspector"
	"github.com/terrascope/canvas/internal/logger"
	"github.com/terrascope/canvas/internal/metrics"
	"github.com/terrascope/canvas/internal/provider"
	"github.com/terrascope/canvas/internal/store"
)

type Session struct {
	ID        string
	CreatedAt time.Time
	Store     *store.Store
	Canvas    *canvas.Controller
	Inspector *inspector.Inspector

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type Manager struct {
	provider provider.Provider
	ttl      time.Duration
	opts     []canvas.Option
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a registry. A zero ttl disables expiry.
func NewManager(p provider.Provider, ttl time.Duration, opts ...canvas.Option) *Manager {
	return &Manager{
		provider: p,
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Provider() provider.Provider {
	return m.provider
}

func (m *Manager) Create() *Session {
	st := store.New()
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Store:     st,
		Canvas:    canvas.New(st, m.provider, m.opts...),
		Inspector: inspector.New(st),
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	metrics.ActiveSessions.Inc()
	logger.Log(logger.LevelInfo, map[string]string{"session_id": s.ID}, nil, "session created")
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		s.touch(m.now())
	}
	return s, ok
}

func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Canvas.Close()
	metrics.ActiveSessions.Dec()
	logger.Log(logger.LevelInfo, map[string]string{"session_id": id}, nil, "session closed")
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep deletes sessions idle for longer than the ttl and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.ttl)
	var expired []string

	m.mu.RLock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		if m.Delete(id) {
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Log(logger.LevelDebug, map[string]string{"expired": strconv.Itoa(n)}, nil, "swept idle sessions")
			}
		}
	}
}

// CloseAll tears down every session, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Delete(id)
	}
}
