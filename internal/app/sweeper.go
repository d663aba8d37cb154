package app

import (
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Sweeper holds at most one pending cleanup timer per room.
// The fire callback must re-check the room itself; the sweeper only
// guarantees a superseded or cancelled timer never fires.
type Sweeper struct {
	mu     sync.Mutex
	timers map[domain.RoomID]*time.Timer
	fire   func(domain.RoomID)
}

func NewSweeper(fire func(domain.RoomID)) *Sweeper {
	return &Sweeper{
		timers: make(map[domain.RoomID]*time.Timer),
		fire:   fire,
	}
}

// Schedule arms a timer for id, replacing any pending one.
func (s *Sweeper) Schedule(id domain.RoomID, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[id]; ok {
		old.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[id] != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()
		s.fire(id)
	})
	s.timers[id] = t
	log.Debug().Str("module", "app.sweeper").Str("room", string(id)).Dur("delay", delay).Msg("cleanup scheduled")
}

// Cancel drops a pending timer. Reports whether one was pending.
func (s *Sweeper) Cancel(id domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, id)
	log.Debug().Str("module", "app.sweeper").Str("room", string(id)).Msg("cleanup cancelled")
	return true
}

func (s *Sweeper) Pending(id domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Stop cancels every pending timer.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
