package domain

import "time"

type RoomID string

// DefaultRoomLabel is used when a room is created without a label,
// including rooms created implicitly by the first join.
const DefaultRoomLabel = "Reception"

type Room struct {
	ID        RoomID
	Label     string
	CreatedAt time.Time
}

// RoomStats is a read-only snapshot of a room.
type RoomStats struct {
	Room        RoomID    `json:"room"`
	Label       string    `json:"label"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
