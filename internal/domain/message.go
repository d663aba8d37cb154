package domain

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRecognizing Status = "recognizing"
	StatusTranslating Status = "translating"
	StatusComplete    Status = "complete"
	StatusError       Status = "error"
)

// MaxConfidence is reported when a message needed no translation.
const MaxConfidence = 1.0

type MessageKind int

const (
	KindText MessageKind = iota
	KindAudio
)

func (k MessageKind) String() string {
	if k == KindAudio {
		return "audio"
	}
	return "text"
}

// Utterance is an inbound message as received from a connection,
// before any routing decision is made.
type Utterance struct {
	Kind           MessageKind
	Conn           ConnID
	Room           RoomID
	Text           string
	Audio          []byte
	MimeType       string
	Language       string
	TargetLanguage string
}

type TextBlock struct {
	Text         string `json:"text"`
	Language     string `json:"language"`
	LanguageName string `json:"languageName"`
}

// Message is the pipeline result broadcast once to the room.
type Message struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Room       RoomID    `json:"room"`
	Speaker    Role      `json:"speaker"`
	Original   TextBlock `json:"original"`
	Translated TextBlock `json:"translated"`
	Confidence float64   `json:"confidence"`
	SpeakerID  string    `json:"speakerId"`
}

func NewMessage(room RoomID, speaker Role) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Room:      room,
		Speaker:   speaker,
	}
}
