package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	orch      *orch.Orchestrator
	publicURL string
}

type CreateRoomRequest struct {
	Label string `json:"label"`
}

type CreateRoomResponse struct {
	RoomID  domain.RoomID `json:"roomId"`
	JoinURL string        `json:"joinUrl"`
	Label   string        `json:"label"`
}

type SynthesizeRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
	domain.VoiceOptions
}

func (h *handlers) createRoom(c *gin.Context) {
	var req CreateRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	st := h.orch.CreateRoom(req.Label)
	c.JSON(http.StatusCreated, CreateRoomResponse{
		RoomID:  st.Room,
		JoinURL: h.baseURL(c) + "/?room=" + string(st.Room),
		Label:   st.Label,
	})
}

func (h *handlers) baseURL(c *gin.Context) string {
	if h.publicURL != "" {
		return strings.TrimRight(h.publicURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

func (h *handlers) getRoom(c *gin.Context) {
	st, ok := h.orch.Rooms.Stats(domain.RoomID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) listLanguages(c *gin.Context) {
	dir := h.orch.Languages
	c.JSON(http.StatusOK, gin.H{
		"languages": dir.List(),
		"default":   dir.Default(),
		"reply":     dir.Reply(),
		"fallback":  dir.Fallback(),
	})
}

func (h *handlers) synthesize(c *gin.Context) {
	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid text"})
		return
	}
	syn, err := h.orch.Synthesize(c.Request.Context(), req.Text, req.Language, req.VoiceOptions)
	switch {
	case err == nil:
		c.Data(http.StatusOK, syn.MimeType, syn.Audio)
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orch.ErrNoCollaborator):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "synthesis unavailable"})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Msg("synthesize")
		c.JSON(http.StatusBadGateway, gin.H{"error": "synthesis failed"})
	}
}

func healthHandler(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"rooms":       o.Rooms.Len(),
			"connections": o.Hub.Len(),
		})
	}
}
