package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Relay/internal/adapters/http"
	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/config"
)

func setupLogging(cfg *config.Config) {
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func runServer(parent context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	// Sockets and pipelines outlive the signal; o.Shutdown ends them.
	appCtx := context.WithoutCancel(ctx)

	dir := newDirectory(cfg)
	collab := buildCollaborators(appCtx, cfg, dir)

	rooms := app.NewRoomRegistry()
	o := &orch.Orchestrator{
		Rooms:               rooms,
		Bindings:            app.NewBindings(),
		Hub:                 app.NewHub(rooms),
		Languages:           dir,
		Policy:              app.SimplePolicy{},
		Recognizer:          collab.recognizer,
		Translator:          collab.translator,
		Synthesizer:         collab.synthesizer,
		CleanupDelay:        cfg.Relay.CleanupDelay,
		CollaboratorTimeout: cfg.Relay.CollaboratorTimeout,
	}

	r := router.SetupRouter(appCtx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Relay server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
		return err
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Relay.CollaboratorTimeout+5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := o.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("pipelines did not drain")
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
