package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var ErrUnknownConn = errors.New("unknown connection")

// Hub is the directory of open connections and the room-scoped
// publisher built over RoomRegistry membership.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]core.SignalConnection
	rooms *RoomRegistry
}

func NewHub(rooms *RoomRegistry) *Hub {
	return &Hub{
		conns: make(map[domain.ConnID]core.SignalConnection),
		rooms: rooms,
	}
}

func (h *Hub) Attach(id domain.ConnID, c core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = c
	log.Debug().Str("module", "app.hub").Str("conn", string(id)).Msg("attached")
}

func (h *Hub) Detach(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
	log.Debug().Str("module", "app.hub").Str("conn", string(id)).Msg("detached")
}

func (h *Hub) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[id]
	return c, ok
}

// CloseAll closes every attached connection. Transports detach
// themselves once their socket is closed.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]core.SignalConnection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.Close()
	}
	log.Info().Str("module", "app.hub").Int("conns", len(conns)).Msg("closed all connections")
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Send(id domain.ConnID, v any) error {
	c, ok := h.Conn(id)
	if !ok {
		return ErrUnknownConn
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.TrySend(data)
}

func (h *Hub) Publish(room domain.RoomID, v any) core.PublishResult {
	return h.PublishExcept(room, "", v)
}

func (h *Hub) PublishExcept(room domain.RoomID, except domain.ConnID, v any) core.PublishResult {
	res := core.PublishResult{}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("room", string(room)).Msg("publish marshal")
		return res
	}
	for _, id := range h.rooms.Members(room) {
		if id == except {
			continue
		}
		c, ok := h.Conn(id)
		if !ok {
			continue
		}
		if err := c.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.hub").Str("room", string(room)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("publish result")
	return res
}
