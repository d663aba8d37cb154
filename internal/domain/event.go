package domain

// Outbound event types. Every frame sent to a client is one of these
// structs marshalled as JSON with a "type" discriminator.
const (
	EventRoomJoined       = "room_joined"
	EventUserJoined       = "user_joined"
	EventUserLeft         = "user_left"
	EventRoomStats        = "room_stats"
	EventRoomInfo         = "room_info"
	EventProcessingStatus = "processing_status"
	EventTranslation      = "translation"
	EventLeft             = "left"
	EventPong             = "pong"
	EventError            = "error"
)

type RoomJoinedEvent struct {
	Type         string `json:"type"`
	Room         RoomID `json:"room"`
	Role         Role   `json:"role"`
	Language     string `json:"language"`
	LanguageCode string `json:"languageCode"`
	Label        string `json:"label"`
}

type UserJoinedEvent struct {
	Type     string `json:"type"`
	Role     Role   `json:"role"`
	Language string `json:"language"`
	UserID   string `json:"userId"`
}

type UserLeftEvent struct {
	Type   string `json:"type"`
	Role   Role   `json:"role"`
	UserID string `json:"userId"`
}

type RoomStatsEvent struct {
	Type        string `json:"type"`
	Room        RoomID `json:"room"`
	MemberCount int    `json:"memberCount"`
	Label       string `json:"label"`
}

type RoomInfoEvent struct {
	Type string `json:"type"`
	RoomStats
}

type StatusEvent struct {
	Type    string `json:"type"`
	Status  Status `json:"status"`
	Speaker Role   `json:"speaker"`
}

type TranslationEvent struct {
	Type string `json:"type"`
	*Message
}

type LeftEvent struct {
	Type string `json:"type"`
	Room RoomID `json:"room"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func NewStatusEvent(s Status, speaker Role) StatusEvent {
	return StatusEvent{Type: EventProcessingStatus, Status: s, Speaker: speaker}
}

func NewErrorEvent(message, detail string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message, Detail: detail}
}

func NewRoomStatsEvent(s RoomStats) RoomStatsEvent {
	return RoomStatsEvent{Type: EventRoomStats, Room: s.Room, MemberCount: s.MemberCount, Label: s.Label}
}
