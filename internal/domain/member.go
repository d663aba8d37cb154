package domain

import "strings"

type (
	ConnID string
	Role   string
)

const (
	// RoleHost is the inward-facing side of the desk (host, receptionist).
	RoleHost Role = "host"
	// RoleGuest is the outward-facing side, the visitor.
	RoleGuest Role = "guest"
)

// ParseRole normalizes a role received from a client.
// "receptionist" is accepted as an alias of host.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "host", "receptionist":
		return RoleHost, true
	case "guest":
		return RoleGuest, true
	}
	return "", false
}

// OutwardFacing reports whether messages from this role are always
// routed into the reply language.
func (r Role) OutwardFacing() bool { return r == RoleGuest }

// Binding is the (room, role, language) tuple held by one connection.
// No transport or lifecycle logic here.
type Binding struct {
	Conn     ConnID `json:"-"`
	UserID   string `json:"userId"`
	Room     RoomID `json:"room"`
	Role     Role   `json:"role"`
	Language string `json:"language"`
}
