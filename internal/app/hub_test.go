package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return errors.New("full")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) types(t *testing.T) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.frames))
	for _, fr := range f.frames {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(fr, &env))
		out = append(out, env.Type)
	}
	return out
}

func TestHub_PublishScopedToRoom(t *testing.T) {
	rooms := NewRoomRegistry()
	defer rooms.Close()
	h := NewHub(rooms)

	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	h.Attach("a", a)
	h.Attach("b", b)
	h.Attach("c", c)
	rooms.JoinRoom("r1", "a")
	rooms.JoinRoom("r1", "b")
	rooms.JoinRoom("r2", "c")

	res := h.Publish("r1", domain.NewStatusEvent(domain.StatusTranslating, domain.RoleHost))
	require.Equal(t, 2, res.SendTo)
	require.Empty(t, res.Dropped)
	require.Equal(t, []string{domain.EventProcessingStatus}, a.types(t))
	require.Equal(t, []string{domain.EventProcessingStatus}, b.types(t))
	require.Empty(t, c.types(t))

	res = h.PublishExcept("r1", "a", domain.UserLeftEvent{Type: domain.EventUserLeft})
	require.Equal(t, 1, res.SendTo)
	require.Len(t, a.types(t), 1)
	require.Len(t, b.types(t), 2)
}

func TestHub_PublishReportsDropped(t *testing.T) {
	rooms := NewRoomRegistry()
	defer rooms.Close()
	h := NewHub(rooms)

	h.Attach("a", &fakeConn{})
	h.Attach("slow", &fakeConn{full: true})
	rooms.JoinRoom("r1", "a")
	rooms.JoinRoom("r1", "slow")

	res := h.Publish("r1", domain.EventPong)
	require.Equal(t, 1, res.SendTo)
	require.Equal(t, []domain.ConnID{"slow"}, res.Dropped)
}

func TestHub_Send(t *testing.T) {
	rooms := NewRoomRegistry()
	defer rooms.Close()
	h := NewHub(rooms)

	require.ErrorIs(t, h.Send("ghost", struct{}{}), ErrUnknownConn)

	a := &fakeConn{}
	h.Attach("a", a)
	require.NoError(t, h.Send("a", domain.NewErrorEvent("room not found", "")))
	require.Equal(t, []string{domain.EventError}, a.types(t))

	h.Detach("a")
	require.Zero(t, h.Len())
}

func TestHub_CloseAll(t *testing.T) {
	rooms := NewRoomRegistry()
	defer rooms.Close()
	h := NewHub(rooms)

	a, b := &fakeConn{}, &fakeConn{}
	h.Attach("a", a)
	h.Attach("b", b)
	h.CloseAll()

	require.True(t, a.closed)
	require.True(t, b.closed)
}
