package app

import (
	"sync"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Bindings maps each live connection to its (room, role, language).
// It never touches room membership; the orchestrator keeps the two in step.
type Bindings struct {
	mu     sync.RWMutex
	byConn map[domain.ConnID]domain.Binding
}

func NewBindings() *Bindings {
	return &Bindings{byConn: make(map[domain.ConnID]domain.Binding)}
}

// Bind stores b wholesale and returns the binding it replaced, if any.
func (s *Bindings) Bind(b domain.Binding) (domain.Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.byConn[b.Conn]
	s.byConn[b.Conn] = b
	log.Info().Str("module", "app.bindings").Str("conn", string(b.Conn)).Str("room", string(b.Room)).
		Str("role", string(b.Role)).Str("lang", b.Language).Msg("bound")
	return prev, had
}

func (s *Bindings) Lookup(conn domain.ConnID) (domain.Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byConn[conn]
	return b, ok
}

// Unbind erases and returns the binding. Unknown connections are a no-op.
func (s *Bindings) Unbind(conn domain.ConnID) (domain.Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byConn[conn]
	if !ok {
		return domain.Binding{}, false
	}
	delete(s.byConn, conn)
	log.Info().Str("module", "app.bindings").Str("conn", string(conn)).Str("room", string(b.Room)).Msg("unbound")
	return b, true
}

func (s *Bindings) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConn)
}
