package main

import (
	"log/slog"
	"net/http"

	"recut/internal/api"
	"recut/internal/config"
	"recut/internal/recipe"
	"recut/internal/render"
	"recut/internal/services/llm"
	"recut/internal/services/renderfarm"
	"recut/internal/services/speech"
	"recut/internal/store"
	"recut/internal/timeline"
	"recut/internal/transcript"
	"recut/internal/voice"
)

// buildHandler wires the domain services behind the HTTP router.
func buildHandler(cfg *config.Config, st *store.Store, logger *slog.Logger) http.Handler {
	speechClient := speech.NewClient(speech.Config{
		BaseURL:        cfg.Speech.BaseURL,
		APIKey:         cfg.Speech.APIKey,
		TimeoutSeconds: cfg.Speech.TimeoutSeconds,
	})
	farmClient := renderfarm.NewClient(renderfarm.Config{
		BaseURL:              cfg.Render.BaseURL,
		APIKey:               cfg.Render.APIKey,
		SubmitTimeoutSeconds: cfg.Render.SubmitTimeoutSeconds,
		PollTimeoutSeconds:   cfg.Render.PollTimeoutSeconds,
	})

	compilerOpts := []recipe.Option{
		recipe.WithFillerWords(cfg.FillerWords()),
		recipe.WithSilenceMinGap(cfg.Compiler.SilenceMinGapSeconds),
	}
	if cfg.LLM.APIKey != "" {
		compilerOpts = append(compilerOpts, recipe.WithLLM(llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		})))
	}

	transcripts := transcript.NewService(st, speechClient, logger)
	compiler := recipe.NewCompiler(st, logger, compilerOpts...)
	executor := timeline.NewExecutor(st, logger)
	orchestrator := render.NewOrchestrator(st, farmClient, executor, speechClient, logger)
	bridge := voice.NewBridge(compiler, orchestrator, logger)

	server := api.NewServer(api.Deps{
		Transcripts: transcripts,
		Recipes:     compiler,
		Executor:    executor,
		Renders:     orchestrator,
		Voice:       bridge,
		Token:       cfg.Paths.APIToken,
		Logger:      logger,
	})
	return server.Router()
}
