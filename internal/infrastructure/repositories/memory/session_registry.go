package memory

import (
	"sync"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
)

// SessionRegistry is the process-local home of all live sessions. The
// top-level map is guarded here; each session serializes its own state behind
// its embedded mutex, so registry operations never hold two locks at once.
type SessionRegistry struct {
	sessions map[domain.SessionCode]*domain.Session
	mu       sync.RWMutex
}

func NewSessionRegistry() ports.SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[domain.SessionCode]*domain.Session),
	}
}

func (r *SessionRegistry) GetOrCreate(code domain.SessionCode) *domain.Session {
	r.mu.RLock()
	s, ok := r.sessions[code]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check: another caller may have created it between the locks.
	if s, ok := r.sessions[code]; ok {
		return s
	}

	s = domain.NewSession(code)
	r.sessions[code] = s
	return s
}

func (r *SessionRegistry) Get(code domain.SessionCode) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	return s, ok
}

func (r *SessionRegistry) Destroy(code domain.SessionCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, code)
}

func (r *SessionRegistry) Codes() []domain.SessionCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]domain.SessionCode, 0, len(r.sessions))
	for code := range r.sessions {
		codes = append(codes, code)
	}
	return codes
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
