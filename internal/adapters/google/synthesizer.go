package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

// Synthesizer is a core.Synthesizer backed by Cloud Text-to-Speech.
type Synthesizer struct {
	svc   *texttospeech.Service
	voice string
}

func NewSynthesizer(ctx context.Context, o Options) (*Synthesizer, error) {
	svc, err := texttospeech.NewService(ctx, o.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create tts service: %w", err)
	}
	return &Synthesizer{svc: svc, voice: o.Voice}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, text, language string, opts domain.VoiceOptions) (*domain.Synthesis, error) {
	voice := opts.Voice
	if voice == "" {
		voice = s.voice
	}
	encoding, mime := audioEncoding(opts.Encoding)
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{LanguageCode: language, Name: voice},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: encoding,
			SpeakingRate:  opts.SpeakingRate,
			Pitch:         opts.Pitch,
		},
	}
	resp, err := s.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return &domain.Synthesis{Audio: audio, MimeType: mime}, nil
}

func audioEncoding(enc string) (string, string) {
	switch strings.ToUpper(enc) {
	case "OGG_OPUS":
		return "OGG_OPUS", "audio/ogg"
	case "LINEAR16":
		return "LINEAR16", "audio/wav"
	default:
		return "MP3", "audio/mpeg"
	}
}
