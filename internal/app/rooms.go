package app

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/metric"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type roomEntry struct {
	room    domain.Room
	members map[domain.ConnID]uint64
}

// RoomRegistry is the in-memory room table. Membership values are join
// sequence numbers so Members can return join order.
type RoomRegistry struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomID]*roomEntry
	seq     uint64
	sweeper *Sweeper
}

func NewRoomRegistry() *RoomRegistry {
	r := &RoomRegistry{rooms: make(map[domain.RoomID]*roomEntry)}
	r.sweeper = NewSweeper(func(id domain.RoomID) { r.DeleteIfEmpty(id) })
	return r
}

func (r *RoomRegistry) insert(id domain.RoomID, label string) {
	if label == "" {
		label = domain.DefaultRoomLabel
	}
	r.rooms[id] = &roomEntry{
		room:    domain.Room{ID: id, Label: label, CreatedAt: time.Now().UTC()},
		members: make(map[domain.ConnID]uint64),
	}
	metric.SetActiveRooms(len(r.rooms))
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("label", label).Msg("room created")
}

// CreateRoom never fails.
func (r *RoomRegistry) CreateRoom(label string) domain.RoomID {
	id := domain.RoomID(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(id, label)
	return id
}

// EnsureRoom creates id with the default label when absent and reports
// whether it did.
func (r *RoomRegistry) EnsureRoom(id domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return false
	}
	r.insert(id, "")
	return true
}

// AddMember is a no-op for an unknown room.
func (r *RoomRegistry) AddMember(id domain.RoomID, conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return
	}
	r.addMember(e, conn)
}

// JoinRoom creates id when absent and adds conn to it under one lock, so
// a cleanup firing concurrently can never delete the room in between.
// It returns the room's stats after the join.
func (r *RoomRegistry) JoinRoom(id domain.RoomID, conn domain.ConnID) domain.RoomStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		r.insert(id, "")
	}
	e := r.rooms[id]
	r.addMember(e, conn)
	return e.stats()
}

func (r *RoomRegistry) addMember(e *roomEntry, conn domain.ConnID) {
	id := e.room.ID
	if _, dup := e.members[conn]; dup {
		return
	}
	r.seq++
	e.members[conn] = r.seq
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("conn", string(conn)).Int("members", len(e.members)).Msg("member added")
}

// RemoveMember is a no-op for an unknown room or member.
func (r *RoomRegistry) RemoveMember(id domain.RoomID, conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return
	}
	delete(e.members, conn)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("conn", string(conn)).Int("members", len(e.members)).Msg("member removed")
}

func (r *RoomRegistry) Stats(id domain.RoomID) (domain.RoomStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[id]
	if !ok {
		return domain.RoomStats{}, false
	}
	return e.stats(), true
}

func (e *roomEntry) stats() domain.RoomStats {
	return domain.RoomStats{
		Room:        e.room.ID,
		Label:       e.room.Label,
		MemberCount: len(e.members),
		CreatedAt:   e.room.CreatedAt,
	}
}

// Members returns the room's connections in join order.
func (r *RoomRegistry) Members(id domain.RoomID) []domain.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[id]
	if !ok {
		return nil
	}
	out := make([]domain.ConnID, 0, len(e.members))
	for c := range e.members {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return e.members[out[i]] < e.members[out[j]] })
	return out
}

func (r *RoomRegistry) Exists(id domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok
}

func (r *RoomRegistry) List() []domain.RoomStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomStats, 0, len(r.rooms))
	for _, e := range r.rooms {
		out = append(out, e.stats())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// DeleteIfEmpty removes the room only when nobody is in it at call time.
func (r *RoomRegistry) DeleteIfEmpty(id domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return false
	}
	if n := len(e.members); n > 0 {
		log.Debug().Str("module", "app.rooms").Str("room", string(id)).Int("members", n).Msg("cleanup skipped, room occupied")
		return false
	}
	delete(r.rooms, id)
	metric.SetActiveRooms(len(r.rooms))
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
	return true
}

// ScheduleCleanup deletes the room after delay if it is still empty then.
func (r *RoomRegistry) ScheduleCleanup(id domain.RoomID, delay time.Duration) {
	r.sweeper.Schedule(id, delay)
}

func (r *RoomRegistry) CancelCleanup(id domain.RoomID) bool {
	return r.sweeper.Cancel(id)
}

func (r *RoomRegistry) CleanupPending(id domain.RoomID) bool {
	return r.sweeper.Pending(id)
}

// Close stops all pending cleanup timers.
func (r *RoomRegistry) Close() {
	r.sweeper.Stop()
}
