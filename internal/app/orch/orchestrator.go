package orch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/lang"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

const (
	DefaultCleanupDelay        = 5 * time.Minute
	DefaultCollaboratorTimeout = 30 * time.Second
)

// Orchestrator owns the relay's behavior: joining and leaving rooms,
// running message pipelines and fanning events out through the Hub.
type Orchestrator struct {
	Rooms     *app.RoomRegistry
	Bindings  *app.Bindings
	Hub       *app.Hub
	Languages *lang.Directory
	Policy    app.Policy

	Recognizer  core.Recognizer
	Translator  core.Translator
	Synthesizer core.Synthesizer

	CleanupDelay        time.Duration
	CollaboratorTimeout time.Duration

	// mu serializes membership changes so each join/leave is atomic.
	// It also guards closing.
	mu        sync.Mutex
	closing   bool
	pipelines conc.WaitGroup

	lifeOnce sync.Once
	life     context.Context
	abort    context.CancelFunc
}

// lifetime is cancelled only when Shutdown gives up waiting.
func (o *Orchestrator) lifetime() context.Context {
	o.lifeOnce.Do(func() {
		o.life, o.abort = context.WithCancel(context.Background())
	})
	return o.life
}

func (o *Orchestrator) cleanupDelay() time.Duration {
	if o.CleanupDelay > 0 {
		return o.CleanupDelay
	}
	return DefaultCleanupDelay
}

func (o *Orchestrator) collaboratorTimeout() time.Duration {
	if o.CollaboratorTimeout > 0 {
		return o.CollaboratorTimeout
	}
	return DefaultCollaboratorTimeout
}

func (o *Orchestrator) send(conn domain.ConnID, v any) {
	if err := o.Hub.Send(conn, v); err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("conn", string(conn)).Msg("send failed")
	}
}

func (o *Orchestrator) publish(room domain.RoomID, v any) {
	o.handleDropped(room, o.Hub.Publish(room, v))
}

func (o *Orchestrator) publishExcept(room domain.RoomID, except domain.ConnID, v any) {
	o.handleDropped(room, o.Hub.PublishExcept(room, except, v))
}

// handleDropped applies the back-pressure policy. A kick only closes the
// socket; the transport then runs the regular Disconnect path.
func (o *Orchestrator) handleDropped(room domain.RoomID, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			if c, ok := o.Hub.Conn(slow); ok {
				log.Warn().Str("module", "app.orch").Str("conn", string(slow)).Str("room", string(room)).Msg("kicking slow member")
				c.Close()
			}
		case app.DropFrame, app.NoAction:
		}
	}
}

// Shutdown stops accepting messages, waits for in-flight pipelines and
// then closes every connection. If ctx expires first the remaining
// pipelines are aborted and reported to their rooms as failed.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	o.closing = true
	o.mu.Unlock()
	o.lifetime()

	done := make(chan struct{})
	go func() {
		o.pipelines.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(errors.New("pipelines still running"), ctx.Err())
		o.abort()
		<-done
	}
	o.Hub.CloseAll()
	o.Rooms.Close()
	log.Info().Str("module", "app.orch").Msg("orchestrator stopped")
	return err
}
