package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
	speech "google.golang.org/api/speech/v1"
)

// Recognizer is a core.Recognizer backed by Cloud Speech-to-Text
// synchronous recognition.
type Recognizer struct {
	svc   *speech.Service
	model string
}

func NewRecognizer(ctx context.Context, o Options) (*Recognizer, error) {
	svc, err := speech.NewService(ctx, o.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	return &Recognizer{svc: svc, model: o.SpeechModel}, nil
}

func (r *Recognizer) Recognize(ctx context.Context, audio []byte, languageHint, mimeType string) (*domain.Recognition, error) {
	encoding, rate := speechEncoding(mimeType)
	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            rate,
			LanguageCode:               languageHint,
			Model:                      r.model,
			EnableAutomaticPunctuation: true,
			EnableWordTimeOffsets:      true,
			DiarizationConfig: &speech.SpeakerDiarizationConfig{
				EnableSpeakerDiarization: true,
				MinSpeakerCount:          1,
				MaxSpeakerCount:          2,
			},
		},
		Audio: &speech.RecognitionAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}
	resp, err := r.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}

	out := &domain.Recognition{LanguageDetected: languageHint}
	var texts []string
	var confSum float64
	var confN int
	var words []*speech.WordInfo
	for _, res := range resp.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		alt := res.Alternatives[0]
		if t := strings.TrimSpace(alt.Transcript); t != "" {
			texts = append(texts, t)
			confSum += alt.Confidence
			confN++
		}
		if res.LanguageCode != "" {
			out.LanguageDetected = res.LanguageCode
		}
		// with diarization the last result repeats every word with a tag
		if len(alt.Words) > 0 {
			words = alt.Words
		}
	}
	out.Text = strings.Join(texts, " ")
	if confN > 0 {
		out.Confidence = confSum / float64(confN)
	}
	out.SpeakerSegments = segments(words)

	log.Debug().Str("module", "adapters.google").Str("lang", languageHint).Int("results", len(resp.Results)).
		Int("segments", len(out.SpeakerSegments)).Msg("recognized")
	return out, nil
}

// segments folds consecutive words with the same speaker tag.
func segments(words []*speech.WordInfo) []domain.SpeakerSegment {
	var out []domain.SpeakerSegment
	for _, w := range words {
		if w.SpeakerTag == 0 {
			continue
		}
		spk := "speaker-" + strconv.FormatInt(w.SpeakerTag, 10)
		start, end := seconds(w.StartTime), seconds(w.EndTime)
		if n := len(out); n > 0 && out[n-1].Speaker == spk {
			out[n-1].Text += " " + w.Word
			out[n-1].End = end
			continue
		}
		out = append(out, domain.SpeakerSegment{Speaker: spk, Text: w.Word, Start: start, End: end})
	}
	return out
}

func seconds(d string) float64 {
	if d == "" {
		return 0
	}
	v, err := time.ParseDuration(d)
	if err != nil {
		return 0
	}
	return v.Seconds()
}

// speechEncoding maps a browser MIME type to a RecognitionConfig encoding.
// WAV and FLAC carry their own header, so the rate is left to the service.
func speechEncoding(mimeType string) (string, int64) {
	base, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	switch strings.TrimSpace(base) {
	case "audio/ogg":
		return "OGG_OPUS", 48000
	case "audio/wav", "audio/wave", "audio/x-wav":
		return "LINEAR16", 0
	case "audio/flac", "audio/x-flac":
		return "FLAC", 0
	case "audio/mpeg", "audio/mp3":
		return "MP3", 0
	default:
		return "WEBM_OPUS", 48000
	}
}
