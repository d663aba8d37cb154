package signal

import (
	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(s *session, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		Role     string `json:"role"`
		Language string `json:"language,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(s.conn, "bad_payload", err.Error())
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(s.id)).Str("room", p.Room).Str("role", p.Role).Msg("join")
	// validation failures are reported to the sender by the orchestrator
	_, _ = ctl.Orch.Join(orch.JoinRequest{
		Conn:     s.id,
		UserID:   s.userID,
		Room:     p.Room,
		Role:     p.Role,
		Language: p.Language,
	})
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(s *session) {
	log.Info().Str("module", "signal").Str("conn", string(s.id)).Msg("leave")
	ctl.Orch.Leave(s.id)
}

func (ctl *SignalWSController) handleRoomInfo(s *session, data []byte) {
	var p struct {
		Room string `json:"room"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		ctl.sendError(s.conn, "bad_payload", "room is required")
		return
	}
	ctl.Orch.RoomInfo(s.id, domain.RoomID(p.Room))
}
