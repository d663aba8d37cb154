package main

import (
	"context"

	"github.com/dkeye/Relay/internal/adapters/gemini"
	"github.com/dkeye/Relay/internal/adapters/google"
	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/lang"
	"github.com/rs/zerolog/log"
)

type collaborators struct {
	recognizer  core.Recognizer
	translator  core.Translator
	synthesizer core.Synthesizer
}

// buildCollaborators constructs the configured backends. A backend that
// fails to start is left nil; the pipeline then reports it as unavailable.
func buildCollaborators(ctx context.Context, cfg *config.Config, dir *lang.Directory) collaborators {
	var out collaborators
	gopts := google.Options{
		APIKey:      cfg.Google.APIKey,
		SpeechModel: cfg.Google.SpeechModel,
		Voice:       cfg.Google.TTSVoice,
	}

	var gem *gemini.Client
	geminiClient := func() *gemini.Client {
		if gem != nil {
			return gem
		}
		c, err := gemini.NewClient(ctx, gemini.Options{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model})
		if err != nil {
			log.Error().Err(err).Str("module", "collab").Msg("gemini client")
			return nil
		}
		gem = c
		return gem
	}

	switch cfg.Recognition.Provider {
	case "google":
		if r, err := google.NewRecognizer(ctx, gopts); err != nil {
			log.Error().Err(err).Str("module", "collab").Msg("google recognizer")
		} else {
			out.recognizer = r
		}
	case "gemini":
		if c := geminiClient(); c != nil {
			out.recognizer = gemini.NewRecognizer(c, dir)
		}
	}

	switch cfg.Translation.Provider {
	case "google":
		if t, err := google.NewTranslator(ctx, gopts); err != nil {
			log.Error().Err(err).Str("module", "collab").Msg("google translator")
		} else {
			out.translator = t
		}
	case "gemini":
		if c := geminiClient(); c != nil {
			out.translator = gemini.NewTranslator(c, dir)
		}
	}

	if cfg.Synthesis.Provider == "google" {
		if s, err := google.NewSynthesizer(ctx, gopts); err != nil {
			log.Error().Err(err).Str("module", "collab").Msg("google synthesizer")
		} else {
			out.synthesizer = s
		}
	}

	log.Info().Str("module", "collab").
		Str("recognition", cfg.Recognition.Provider).
		Str("translation", cfg.Translation.Provider).
		Str("synthesis", cfg.Synthesis.Provider).
		Bool("recognizer", out.recognizer != nil).
		Bool("translator", out.translator != nil).
		Bool("synthesizer", out.synthesizer != nil).
		Msg("collaborators ready")
	return out
}
