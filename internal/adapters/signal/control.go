package signal

import "github.com/dkeye/Relay/internal/domain"

func (ctl *SignalWSController) handlePing(s *session) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: domain.EventPong,
	}
	ctl.sendJSON(s.conn, resp)
}
