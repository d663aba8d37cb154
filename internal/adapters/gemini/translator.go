package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
	"google.golang.org/genai"
)

const translatePrompt = `You translate short spoken utterances between a hotel or clinic front desk and its visitors.
Translate the user's text from the source language to the target language.
Keep names, numbers and room numbers unchanged. Do not add explanations.
Reply with JSON only: {"text": "<translation>", "confidence": <0..1>}`

type Translator struct {
	c   *Client
	dir *lang.Directory
}

func NewTranslator(c *Client, dir *lang.Directory) *Translator {
	return &Translator{c: c, dir: dir}
}

func (t *Translator) Translate(ctx context.Context, text, source, target string) (*domain.Translation, error) {
	prompt := fmt.Sprintf("Source language: %s (%s)\nTarget language: %s (%s)\nText:\n%s",
		t.dir.Name(source), source, t.dir.Name(target), target, text)

	var reply struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := t.c.generateJSON(ctx, translatePrompt, []*genai.Part{genai.NewPartFromText(prompt)}, &reply); err != nil {
		return nil, fmt.Errorf("gemini translate: %w", err)
	}
	if strings.TrimSpace(reply.Text) == "" {
		return nil, fmt.Errorf("gemini translate: empty translation")
	}
	return &domain.Translation{Text: reply.Text, Confidence: clamp(reply.Confidence)}, nil
}
