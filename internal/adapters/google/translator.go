package google

import (
	"context"
	"fmt"
	"html"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
	translate "google.golang.org/api/translate/v2"
)

// basicConfidence is reported for Translation API results, which carry no
// score of their own.
const basicConfidence = 0.9

// Translator is a core.Translator backed by Cloud Translation (Basic).
type Translator struct {
	svc *translate.Service
}

func NewTranslator(ctx context.Context, o Options) (*Translator, error) {
	svc, err := translate.NewService(ctx, o.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create translate service: %w", err)
	}
	return &Translator{svc: svc}, nil
}

func (t *Translator) Translate(ctx context.Context, text, source, target string) (*domain.Translation, error) {
	call := t.svc.Translations.List([]string{text}, lang.Base(target)).Format("text")
	if source != "" {
		call = call.Source(lang.Base(source))
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	if len(resp.Translations) == 0 {
		return nil, fmt.Errorf("translate: empty response")
	}
	return &domain.Translation{
		Text:       html.UnescapeString(resp.Translations[0].TranslatedText),
		Confidence: basicConfidence,
	}, nil
}
