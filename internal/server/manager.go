package server

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SessionManager tracks live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	gauge    prometheus.Gauge
	logger   *slog.Logger
}

func newSessionManager(reg prometheus.Registerer, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		gauge: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "flxrouter",
			Name:      "sessions",
			Help:      "Number of open navigation sessions.",
		}),
		logger: logger.With("component", "session_manager"),
	}
}

// Add registers s and removes it once it is done.
func (m *SessionManager) Add(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.gauge.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	go func() {
		<-s.Done()
		m.remove(s.ID)
	}()
}

func (m *SessionManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	m.gauge.Set(float64(len(m.sessions)))
}

// Get returns the session with id.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Each calls fn for every live session.
func (m *SessionManager) Each(fn func(*Session)) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		fn(s)
	}
}

// Shutdown closes every session.
func (m *SessionManager) Shutdown() {
	m.Each(func(s *Session) { s.Close() })
	m.logger.Info("sessions closed")
}
