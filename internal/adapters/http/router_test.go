package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/core/mocks"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	gin.SetMode(gin.TestMode)
	rooms := app.NewRoomRegistry()
	t.Cleanup(rooms.Close)
	o := &orch.Orchestrator{
		Rooms:     rooms,
		Bindings:  app.NewBindings(),
		Hub:       app.NewHub(rooms),
		Languages: lang.NewDirectory(),
	}
	cfg := &config.Config{
		Mode:       "test",
		Port:       8080,
		StaticPath: t.TempDir(),
		Secret:     "test-secret",
		PublicURL:  "https://relay.example/",
	}
	return SetupRouter(context.Background(), cfg, o), o
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRoom(t *testing.T) {
	r, o := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/rooms", `{"label":"Hotel Lobby"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateRoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RoomID)
	require.Equal(t, "Hotel Lobby", resp.Label)
	require.Equal(t, "https://relay.example/?room="+string(resp.RoomID), resp.JoinURL)
	require.True(t, o.Rooms.Exists(resp.RoomID))

	w = do(r, http.MethodPost, "/api/rooms", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, domain.DefaultRoomLabel, resp.Label)

	w = do(r, http.MethodPost, "/api/rooms", "{")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRoom_SetsClientCookie(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/rooms", "")
	require.Contains(t, w.Header().Get("Set-Cookie"), sessionName+"=")
}

func TestGetRoom(t *testing.T) {
	r, o := newTestRouter(t)
	st := o.CreateRoom("Desk")

	w := do(r, http.MethodGet, "/api/rooms/"+string(st.Room), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.RoomStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "Desk", got.Label)
	require.Zero(t, got.MemberCount)

	w = do(r, http.MethodGet, "/api/rooms/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRoomsAndLanguages(t *testing.T) {
	r, o := newTestRouter(t)
	o.CreateRoom("a")

	w := do(r, http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rooms struct {
		Rooms []domain.RoomStats `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms.Rooms, 1)

	w = do(r, http.MethodGet, "/api/languages", "")
	require.Equal(t, http.StatusOK, w.Code)
	var langs struct {
		Languages []lang.Language `json:"languages"`
		Reply     string          `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &langs))
	require.NotEmpty(t, langs.Languages)
	require.Equal(t, "en-IN", langs.Reply)
}

func TestSynthesize(t *testing.T) {
	r, o := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/synthesize", `{"text":"Welcome"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(r, http.MethodPost, "/api/synthesize", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	ctrl := gomock.NewController(t)
	syn := mocks.NewMockSynthesizer(ctrl)
	o.Synthesizer = syn

	syn.EXPECT().Synthesize(gomock.Any(), "Welcome", "hi-IN", domain.VoiceOptions{SpeakingRate: 0.9}).
		Return(&domain.Synthesis{Audio: []byte("ID3"), MimeType: "audio/mpeg"}, nil)
	w = do(r, http.MethodPost, "/api/synthesize", `{"text":"Welcome","language":"hi-IN","speakingRate":0.9}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	require.Equal(t, "ID3", w.Body.String())

	syn.EXPECT().Synthesize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("quota"))
	w = do(r, http.MethodPost, "/api/synthesize", `{"text":"Welcome"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "relay_http_requests_total")
}
