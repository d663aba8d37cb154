package gemini

import (
	"context"
	"fmt"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
	"google.golang.org/genai"
)

const recognizePrompt = `Transcribe the attached voice clip as accurately as possible, with good punctuation.
The speaker most likely uses the language given by the user; report the language you actually hear as a BCP-47 code.
If more than one person speaks, split the transcript into segments per speaker ("speaker-1", "speaker-2", ...).
Reply with JSON only:
{"text": "...", "confidence": <0..1>, "language": "xx-YY", "segments": [{"speaker": "speaker-1", "text": "...", "start": 0.0, "end": 1.2}]}`

const defaultAudioMIME = "audio/webm"

type Recognizer struct {
	c   *Client
	dir *lang.Directory
}

func NewRecognizer(c *Client, dir *lang.Directory) *Recognizer {
	return &Recognizer{c: c, dir: dir}
}

func (r *Recognizer) Recognize(ctx context.Context, audio []byte, languageHint, mimeType string) (*domain.Recognition, error) {
	if mimeType == "" {
		mimeType = defaultAudioMIME
	}
	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf("Expected language: %s (%s)", r.dir.Name(languageHint), languageHint)),
		genai.NewPartFromBytes(audio, mimeType),
	}

	var reply struct {
		Text       string                  `json:"text"`
		Confidence float64                 `json:"confidence"`
		Language   string                  `json:"language"`
		Segments   []domain.SpeakerSegment `json:"segments"`
	}
	if err := r.c.generateJSON(ctx, recognizePrompt, parts, &reply); err != nil {
		return nil, fmt.Errorf("gemini recognize: %w", err)
	}
	detected := reply.Language
	if detected == "" {
		detected = languageHint
	}
	return &domain.Recognition{
		Text:             reply.Text,
		Confidence:       clamp(reply.Confidence),
		LanguageDetected: detected,
		SpeakerSegments:  reply.Segments,
	}, nil
}
