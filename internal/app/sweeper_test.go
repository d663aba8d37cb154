package app

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/stretchr/testify/require"
)

type fireLog struct {
	mu  sync.Mutex
	ids []domain.RoomID
}

func (f *fireLog) add(id domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
}

func (f *fireLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}

func TestSweeper_Fires(t *testing.T) {
	fl := &fireLog{}
	s := NewSweeper(fl.add)

	s.Schedule("r1", 5*time.Millisecond)
	require.Eventually(t, func() bool { return fl.count() == 1 }, time.Second, 2*time.Millisecond)
	require.False(t, s.Pending("r1"))
}

func TestSweeper_RescheduleReplaces(t *testing.T) {
	fl := &fireLog{}
	s := NewSweeper(fl.add)
	defer s.Stop()

	s.Schedule("r1", 5*time.Millisecond)
	s.Schedule("r1", 30*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	require.Zero(t, fl.count())
	require.Eventually(t, func() bool { return fl.count() == 1 }, time.Second, 2*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, fl.count())
}

func TestSweeper_Cancel(t *testing.T) {
	fl := &fireLog{}
	s := NewSweeper(fl.add)

	s.Schedule("r1", 10*time.Millisecond)
	require.True(t, s.Cancel("r1"))
	require.False(t, s.Cancel("r1"))
	time.Sleep(25 * time.Millisecond)
	require.Zero(t, fl.count())
}

func TestSweeper_Stop(t *testing.T) {
	fl := &fireLog{}
	s := NewSweeper(fl.add)

	s.Schedule("a", 10*time.Millisecond)
	s.Schedule("b", 10*time.Millisecond)
	s.Stop()
	time.Sleep(25 * time.Millisecond)
	require.Zero(t, fl.count())
	require.False(t, s.Pending("a"))
}
