package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"goodfoods/internal/agent"
	"goodfoods/internal/booking"
	"goodfoods/internal/config"
	"goodfoods/internal/db"
	"goodfoods/internal/embedding"
	"goodfoods/internal/llm"
	"goodfoods/internal/recommend"
	"goodfoods/internal/store"
	"goodfoods/internal/tools"
	"goodfoods/internal/trace"
)

// runtime bundles everything a command needs to serve conversations.
type runtime struct {
	cfg      *config.Config
	database *db.DB
	runner   *agent.Runner

	traceShutdown func(context.Context) error
}

// buildRuntime opens the database, wires the tool registry, and builds the
// agent runner. Callers must Close the returned runtime.
func buildRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rt := &runtime{cfg: cfg}

	if cfg.Trace.Endpoint != "" {
		shutdown, err := trace.Init(ctx, trace.Config{
			Endpoint: cfg.Trace.Endpoint,
			URLPath:  cfg.Trace.URLPath,
			APIKey:   cfg.Trace.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing tracing: %w", err)
		}
		rt.traceShutdown = shutdown
	}

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	rt.database = database

	if err := database.Migrate(); err != nil {
		rt.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	st := store.New(database)
	checker := booking.NewChecker(st)

	raw := embedding.NewOpenAI(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	embedder := embedding.NewCachedProvider(raw, database, cfg.Embedding.CacheSize)
	ranker := recommend.NewRanker(st, embedder)

	registry := agent.NewRegistry()
	registry.Register(tools.NewSearch(st))
	registry.Register(tools.NewCheckAvailability(checker))
	registry.Register(tools.NewCreateReservation(st, checker))
	registry.Register(tools.NewModifyReservation(st, checker))
	registry.Register(tools.NewCancelReservation(st))
	registry.Register(tools.NewLookupByPhone(st))
	registry.Register(tools.NewSemanticRecommend(ranker))

	provider := llm.NewOpenAI(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
	rt.runner = agent.NewRunner(provider, registry)

	slog.Info("runtime ready", "model", cfg.LLM.Model, "db", cfg.DB.Path)
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.database != nil {
		rt.database.Close()
	}
	if rt.traceShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.traceShutdown(ctx); err != nil {
			slog.Warn("trace shutdown failed", "error", err)
		}
	}
}
