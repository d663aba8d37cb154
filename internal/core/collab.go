package core

//go:generate mockgen -source=collab.go -destination=mocks/collab_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/Relay/internal/domain"
)

// Recognizer turns recorded speech into text.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, languageHint, mimeType string) (*domain.Recognition, error)
}

// Translator translates text between two resolved language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (*domain.Translation, error)
}

// Synthesizer renders text as speech for playback.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string, opts domain.VoiceOptions) (*domain.Synthesis, error)
}
