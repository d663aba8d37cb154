package orch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/metric"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

var (
	ErrNoCollaborator = errors.New("collaborator not configured")
	ErrShuttingDown   = errors.New("server shutting down")
	errEmptyResult    = errors.New("empty result")
)

const (
	opRecognize  = "recognize"
	opTranslate  = "translate"
	opSynthesize = "synthesize"
)

// Submit runs the pipeline for u in its own goroutine. The pipeline keeps
// ctx's values but not its cancellation, so neither a sender disconnect
// nor the shutdown signal aborts a message the room is waiting for; only
// Shutdown running out of time does. After Shutdown starts the sender
// gets an error instead.
func (o *Orchestrator) Submit(ctx context.Context, u domain.Utterance) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closing {
		o.send(u.Conn, domain.NewErrorEvent(ErrShuttingDown.Error(), ""))
		metric.RecordPipeline(u.Kind.String(), "rejected")
		return
	}
	life := o.lifetime()
	o.pipelines.Go(func() {
		pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(life, cancel)
		defer stop()
		_ = o.Process(pctx, u)
	})
}

// Process runs one pipeline instance to completion. Once the sender is
// authorized, the room always sees a terminal status, even on panic.
func (o *Orchestrator) Process(ctx context.Context, u domain.Utterance) error {
	p := &pipeline{o: o, u: u}
	var err error
	var pc panics.Catcher
	pc.Try(func() { err = p.run(ctx) })
	if r := pc.Recovered(); r != nil {
		err = &domain.CollaboratorError{Op: "pipeline", Err: r.AsError()}
		log.Error().Err(err).Str("module", "app.orch").Str("conn", string(u.Conn)).Msg("pipeline panic")
		if p.authorized {
			p.fail(err)
		}
	}
	return err
}

type pipeline struct {
	o          *Orchestrator
	u          domain.Utterance
	speaker    domain.Binding
	authorized bool
}

func (p *pipeline) run(ctx context.Context) error {
	o, u := p.o, p.u
	kind := u.Kind.String()

	b, ok := o.Bindings.Lookup(u.Conn)
	if !ok {
		o.send(u.Conn, domain.NewErrorEvent(domain.ErrNotBound.Error(), ""))
		metric.RecordPipeline(kind, "rejected")
		return domain.ErrNotBound
	}
	if b.Room != u.Room {
		o.send(u.Conn, domain.NewErrorEvent(domain.ErrNotAuthorized.Error(), string(u.Room)))
		metric.RecordPipeline(kind, "rejected")
		log.Warn().Str("module", "app.orch").Str("conn", string(u.Conn)).Str("bound", string(b.Room)).
			Str("room", string(u.Room)).Msg("message for foreign room")
		return domain.ErrNotAuthorized
	}
	if err := validate(u); err != nil {
		o.send(u.Conn, domain.NewErrorEvent("invalid message", err.Error()))
		metric.RecordPipeline(kind, "rejected")
		return err
	}
	p.speaker = b
	p.authorized = true

	text := u.Text
	recConfidence := domain.MaxConfidence
	speakerID := b.UserID

	if u.Kind == domain.KindAudio {
		o.publish(u.Room, domain.NewStatusEvent(domain.StatusRecognizing, b.Role))
		rec, err := o.recognize(ctx, u.Audio, b.Language, u.MimeType)
		if err != nil {
			p.fail(err)
			return err
		}
		text = rec.Text
		recConfidence = rec.Confidence
		if len(rec.SpeakerSegments) > 0 && rec.SpeakerSegments[0].Speaker != "" {
			speakerID = rec.SpeakerSegments[0].Speaker
		}
	}

	o.publish(u.Room, domain.NewStatusEvent(domain.StatusTranslating, b.Role))

	route := app.ResolveRoute(o.Languages, app.RouteInput{
		Kind:           u.Kind,
		Speaker:        b,
		Language:       u.Language,
		TargetLanguage: u.TargetLanguage,
		Peers:          o.peers(u.Room),
	})

	translated := text
	confidence := domain.MaxConfidence
	if route.Same() {
		metric.IncrementShortCircuit()
	} else {
		tr, err := o.translate(ctx, text, route.Source, route.Target)
		if err != nil {
			p.fail(err)
			return err
		}
		translated = tr.Text
		confidence = min(recConfidence, tr.Confidence)
	}

	msg := domain.NewMessage(u.Room, b.Role)
	msg.Original = domain.TextBlock{Text: text, Language: route.Source, LanguageName: o.Languages.Name(route.Source)}
	msg.Translated = domain.TextBlock{Text: translated, Language: route.Target, LanguageName: o.Languages.Name(route.Target)}
	msg.Confidence = clamp01(confidence)
	msg.SpeakerID = speakerID

	o.publish(u.Room, domain.TranslationEvent{Type: domain.EventTranslation, Message: msg})
	o.publish(u.Room, domain.NewStatusEvent(domain.StatusComplete, b.Role))
	metric.RecordPipeline(kind, "complete")

	log.Info().Str("module", "app.orch").Str("conn", string(u.Conn)).Str("room", string(u.Room)).
		Str("msg", msg.ID).Str("src", route.Source).Str("dst", route.Target).Bool("short_circuit", route.Same()).
		Msg("message relayed")
	return nil
}

// fail ends an authorized pipeline: error status to the room, detail to
// the sender.
func (p *pipeline) fail(err error) {
	o, u := p.o, p.u
	o.publish(u.Room, domain.NewStatusEvent(domain.StatusError, p.speaker.Role))
	o.send(u.Conn, domain.NewErrorEvent(failureMessage(err), err.Error()))
	metric.RecordPipeline(u.Kind.String(), "error")
	log.Error().Err(err).Str("module", "app.orch").Str("conn", string(u.Conn)).Str("room", string(u.Room)).Msg("pipeline failed")
}

func failureMessage(err error) string {
	var ce *domain.CollaboratorError
	if errors.As(err, &ce) {
		switch ce.Op {
		case opRecognize:
			return "speech recognition failed"
		case opTranslate:
			return "translation failed"
		}
	}
	return "message processing failed"
}

func validate(u domain.Utterance) error {
	switch u.Kind {
	case domain.KindAudio:
		if len(u.Audio) == 0 {
			return domain.Invalid("audioData", "is required")
		}
	default:
		if strings.TrimSpace(u.Text) == "" {
			return domain.Invalid("text", "is required")
		}
	}
	return nil
}

// peers snapshots the room's bindings in join order.
func (o *Orchestrator) peers(room domain.RoomID) []domain.Binding {
	members := o.Rooms.Members(room)
	out := make([]domain.Binding, 0, len(members))
	for _, c := range members {
		if b, ok := o.Bindings.Lookup(c); ok && b.Room == room {
			out = append(out, b)
		}
	}
	return out
}

func (o *Orchestrator) recognize(ctx context.Context, audio []byte, hint, mime string) (*domain.Recognition, error) {
	if o.Recognizer == nil {
		return nil, &domain.CollaboratorError{Op: opRecognize, Err: ErrNoCollaborator}
	}
	rec, err := call(ctx, opRecognize, o.collaboratorTimeout(), func(ctx context.Context) (*domain.Recognition, error) {
		return o.Recognizer.Recognize(ctx, audio, hint, mime)
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rec.Text) == "" {
		return nil, &domain.CollaboratorError{Op: opRecognize, Err: fmt.Errorf("%w: no speech recognized", errEmptyResult)}
	}
	return rec, nil
}

func (o *Orchestrator) translate(ctx context.Context, text, source, target string) (*domain.Translation, error) {
	if o.Translator == nil {
		return nil, &domain.CollaboratorError{Op: opTranslate, Err: ErrNoCollaborator}
	}
	return call(ctx, opTranslate, o.collaboratorTimeout(), func(ctx context.Context) (*domain.Translation, error) {
		return o.Translator.Translate(ctx, text, source, target)
	})
}

// Synthesize serves the playback endpoint. It is not part of the relay
// pipeline.
func (o *Orchestrator) Synthesize(ctx context.Context, text, language string, opts domain.VoiceOptions) (*domain.Synthesis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.Invalid("text", "is required")
	}
	if o.Synthesizer == nil {
		return nil, &domain.CollaboratorError{Op: opSynthesize, Err: ErrNoCollaborator}
	}
	if language == "" {
		language = o.Languages.Reply()
	}
	syn, err := call(ctx, opSynthesize, o.collaboratorTimeout(), func(ctx context.Context) (*domain.Synthesis, error) {
		return o.Synthesizer.Synthesize(ctx, text, language, opts)
	})
	if err != nil {
		return nil, err
	}
	if len(syn.Audio) == 0 {
		return nil, &domain.CollaboratorError{Op: opSynthesize, Err: errEmptyResult}
	}
	return syn, nil
}

// call bounds fn by timeout even if fn ignores its context. Errors, nil
// results and panics all come back as *domain.CollaboratorError.
func call[T any](ctx context.Context, op string, timeout time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   *T
		err error
	}
	ch := make(chan result, 1)
	start := time.Now()
	go func() {
		var r result
		var pc panics.Catcher
		pc.Try(func() { r.v, r.err = fn(ctx) })
		if rec := pc.Recovered(); rec != nil {
			r.err = rec.AsError()
		}
		ch <- r
	}()

	var r result
	select {
	case r = <-ch:
	case <-ctx.Done():
		r.err = ctx.Err()
	}
	metric.ObserveCollaborator(op, r.err, time.Since(start))

	if r.err != nil {
		return nil, &domain.CollaboratorError{Op: op, Err: r.err}
	}
	if r.v == nil {
		return nil, &domain.CollaboratorError{Op: op, Err: errEmptyResult}
	}
	return r.v, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
