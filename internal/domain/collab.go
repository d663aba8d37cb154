package domain

// SpeakerSegment is one diarized stretch of a recognition result.
type SpeakerSegment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

type Recognition struct {
	Text             string
	Confidence       float64
	LanguageDetected string
	SpeakerSegments  []SpeakerSegment
}

type Translation struct {
	Text       string
	Confidence float64
}

type VoiceOptions struct {
	Voice        string  `json:"voice,omitempty"`
	SpeakingRate float64 `json:"speakingRate,omitempty"`
	Pitch        float64 `json:"pitch,omitempty"`
	Encoding     string  `json:"encoding,omitempty"`
}

type Synthesis struct {
	Audio    []byte
	MimeType string
}
