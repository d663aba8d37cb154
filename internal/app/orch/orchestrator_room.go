package orch

import (
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// JoinRequest is a join_room event as received, before defaults.
type JoinRequest struct {
	Conn     domain.ConnID
	UserID   string
	Room     string
	Role     string
	Language string
}

// normalizeJoin is the single place join defaults are applied:
// room and role are required, language falls back to the directory
// default, and an unknown room is created with domain.DefaultRoomLabel.
func (o *Orchestrator) normalizeJoin(req JoinRequest) (domain.Binding, error) {
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return domain.Binding{}, domain.Invalid("room", "is required")
	}
	if strings.TrimSpace(req.Role) == "" {
		return domain.Binding{}, domain.Invalid("role", "is required")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return domain.Binding{}, domain.Invalid("role", "must be host or guest")
	}
	language := o.Languages.Canonical(req.Language)
	if language == "" {
		language = o.Languages.Default()
	}
	return domain.Binding{
		Conn:     req.Conn,
		UserID:   req.UserID,
		Room:     domain.RoomID(room),
		Role:     role,
		Language: language,
	}, nil
}

// Join binds the connection to a room. A previous binding to another room
// is released first so the connection is never counted twice.
func (o *Orchestrator) Join(req JoinRequest) (domain.Binding, error) {
	b, err := o.normalizeJoin(req)
	if err != nil {
		o.send(req.Conn, domain.NewErrorEvent("invalid join", err.Error()))
		return domain.Binding{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, ok := o.Bindings.Lookup(b.Conn); ok && prev.Room != b.Room {
		o.releaseMembership(prev)
	}

	st := o.Rooms.JoinRoom(b.Room, b.Conn)
	o.Rooms.CancelCleanup(b.Room)
	o.Bindings.Bind(b)

	name := o.Languages.Name(b.Language)
	o.send(b.Conn, domain.RoomJoinedEvent{
		Type:         domain.EventRoomJoined,
		Room:         b.Room,
		Role:         b.Role,
		Language:     name,
		LanguageCode: b.Language,
		Label:        st.Label,
	})
	o.publishExcept(b.Room, b.Conn, domain.UserJoinedEvent{
		Type:     domain.EventUserJoined,
		Role:     b.Role,
		Language: name,
		UserID:   b.UserID,
	})
	o.publish(b.Room, domain.NewRoomStatsEvent(st))

	log.Info().Str("module", "app.orch").Str("conn", string(b.Conn)).Str("room", string(b.Room)).
		Str("role", string(b.Role)).Str("lang", b.Language).Int("members", st.MemberCount).Msg("joined")
	return b, nil
}

// Leave drops the binding but keeps the connection open.
func (o *Orchestrator) Leave(conn domain.ConnID) {
	o.mu.Lock()
	b, ok := o.Bindings.Unbind(conn)
	if ok {
		o.releaseMembership(b)
	}
	o.mu.Unlock()

	if !ok {
		o.send(conn, domain.NewErrorEvent(domain.ErrNotBound.Error(), ""))
		return
	}
	o.send(conn, domain.LeftEvent{Type: domain.EventLeft, Room: b.Room})
}

// Disconnect is Leave for a closed socket. Safe to call for a
// connection that never joined.
func (o *Orchestrator) Disconnect(conn domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.Bindings.Unbind(conn)
	if !ok {
		return
	}
	o.releaseMembership(b)
	log.Info().Str("module", "app.orch").Str("conn", string(conn)).Str("room", string(b.Room)).Msg("disconnected")
}

// releaseMembership must be called with o.mu held.
func (o *Orchestrator) releaseMembership(b domain.Binding) {
	o.Rooms.RemoveMember(b.Room, b.Conn)
	st, ok := o.Rooms.Stats(b.Room)
	if !ok {
		return
	}
	o.publish(b.Room, domain.UserLeftEvent{Type: domain.EventUserLeft, Role: b.Role, UserID: b.UserID})
	o.publish(b.Room, domain.NewRoomStatsEvent(st))
	if st.MemberCount == 0 {
		o.Rooms.ScheduleCleanup(b.Room, o.cleanupDelay())
	}
}

// RoomInfo answers get_room_info for one connection.
func (o *Orchestrator) RoomInfo(conn domain.ConnID, room domain.RoomID) {
	st, ok := o.Rooms.Stats(room)
	if !ok {
		o.send(conn, domain.NewErrorEvent(domain.ErrRoomNotFound.Error(), ""))
		return
	}
	o.send(conn, domain.RoomInfoEvent{Type: domain.EventRoomInfo, RoomStats: st})
}

// CreateRoom is the out-of-band room creation used by the REST API.
func (o *Orchestrator) CreateRoom(label string) domain.RoomStats {
	id := o.Rooms.CreateRoom(strings.TrimSpace(label))
	st, _ := o.Rooms.Stats(id)
	return st
}
