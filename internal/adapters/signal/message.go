package signal

import (
	"encoding/base64"
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type messagePayload struct {
	Type           string `json:"type"`
	Room           string `json:"room"`
	Role           string `json:"role"`
	Language       string `json:"language,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
	Text           string `json:"text,omitempty"`
	AudioData      string `json:"audioData,omitempty"`
	MimeType       string `json:"mimeType,omitempty"`
}

func (ctl *SignalWSController) allow(s *session) bool {
	if ctl.Limiter == nil || ctl.Limiter.Allow(s.id) {
		return true
	}
	log.Warn().Str("module", "signal").Str("conn", string(s.id)).Msg("rate limited")
	ctl.sendError(s.conn, domain.ErrRateLimited.Error(), "")
	return false
}

func (ctl *SignalWSController) handleText(s *session, data []byte) {
	if !ctl.allow(s) {
		return
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad text payload")
		ctl.sendError(s.conn, "bad_payload", err.Error())
		return
	}
	ctl.Orch.Submit(s.serverCtx, domain.Utterance{
		Kind:           domain.KindText,
		Conn:           s.id,
		Room:           domain.RoomID(p.Room),
		Text:           p.Text,
		Language:       p.Language,
		TargetLanguage: p.TargetLanguage,
	})
}

func (ctl *SignalWSController) handleAudio(s *session, data []byte) {
	if !ctl.allow(s) {
		return
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad audio payload")
		ctl.sendError(s.conn, "bad_payload", err.Error())
		return
	}
	audio, mime, err := decodeAudio(p.AudioData)
	if err != nil {
		ctl.sendError(s.conn, "invalid audio", err.Error())
		return
	}
	if p.MimeType != "" {
		mime = p.MimeType
	}
	ctl.Orch.Submit(s.serverCtx, domain.Utterance{
		Kind:           domain.KindAudio,
		Conn:           s.id,
		Room:           domain.RoomID(p.Room),
		Audio:          audio,
		MimeType:       mime,
		Language:       p.Language,
		TargetLanguage: p.TargetLanguage,
	})
}

// decodeAudio accepts raw base64 or a data URL ("data:audio/webm;base64,...").
func decodeAudio(s string) ([]byte, string, error) {
	var mime string
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", domain.Invalid("audioData", "malformed data url")
		}
		mime, _, _ = strings.Cut(meta, ";")
		s = payload
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", domain.Invalid("audioData", "is not base64")
	}
	return b, mime, nil
}
