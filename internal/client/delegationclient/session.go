package delegationclient

import "sync"

// Overlay es la identidad asumida que guarda el cliente entre requests.
type Overlay struct {
	GrantID       string
	AssumedUserID string
	Owner         Profile
}

// Session guarda el overlay activo. Es estado efímero del cliente; el servidor
// no guarda sesiones de delegación.
type Session interface {
	Get() (Overlay, bool)
	Set(o Overlay)
	Clear()
}

// MemorySession es una Session en memoria, segura para uso concurrente.
type MemorySession struct {
	mu      sync.RWMutex
	overlay *Overlay
}

func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) Get() (Overlay, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.overlay == nil {
		return Overlay{}, false
	}
	return *s.overlay, true
}

func (s *MemorySession) Set(o Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = &o
}

func (s *MemorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = nil
}
