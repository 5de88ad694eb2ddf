package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uiforge/uiforge/internal/agents"
	"github.com/uiforge/uiforge/internal/api"
	"github.com/uiforge/uiforge/internal/config"
	"github.com/uiforge/uiforge/internal/gateway"
	"github.com/uiforge/uiforge/internal/history"
	"github.com/uiforge/uiforge/internal/log"
	"github.com/uiforge/uiforge/internal/pipeline"
	"github.com/uiforge/uiforge/internal/safety"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// parseLevel maps a config string onto a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runServe wires the full service and blocks until SIGINT/SIGTERM.
//
// A missing API key is deliberately not fatal: the server starts, version
// history stays readable, and /api/health reports the condition so a
// frontend can show a setup hint.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: parseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := history.NewStore(cfg.DataFile, logger)
	if err != nil {
		return fmt.Errorf("opening version store: %w", err)
	}

	var orch *pipeline.Orchestrator
	if cfg.HasAPIKey() {
		model, err := gateway.NewGemini(ctx, cfg.APIKey, cfg.ModelName)
		if err != nil {
			return fmt.Errorf("creating model client: %w", err)
		}
		client := gateway.NewClient(model, gateway.RetryConfig{
			MaxAttempts: gateway.DefaultRetryConfig().MaxAttempts,
			BaseDelay:   cfg.BaseDelay,
			MaxDelay:    cfg.MaxDelay,
		}, nil, logger)
		orch = pipeline.New(safety.NewFilter(), agents.New(client, logger), store, logger)
	} else {
		logger.Warn("GEMINI_API_KEY is not set, generation endpoints will fail until it is configured")
	}

	srv, err := api.NewServer(api.ServerConfig{
		Logger:       logger,
		Orchestrator: orch,
		Store:        store,
		HasAPIKey:    cfg.HasAPIKey(),
		CORSOrigins:  cfg.CORSOrigins,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	logger.Info("uiforge ready",
		"addr", cfg.Addr,
		"model", cfg.ModelName,
		"data_file", cfg.DataFile,
		"has_api_key", cfg.HasAPIKey(),
	)

	if err := srv.Run(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("running server: %w", err)
	}
	return nil
}
