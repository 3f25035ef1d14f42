package repository

import (
	"context"

	"token-signal-bot/config"
	"token-signal-bot/pkg/cache"
	"token-signal-bot/pkg/kv"
	"token-signal-bot/pkg/logger"
)

type Repository struct {
	ProfileRepo ProfileRepository
	AssetRepo   AssetRepository
	AgentRepo   AgentRepository
}

func NewRepository(ctx context.Context, cfg *config.Config, store kv.Store, inmemoryCache cache.Cache, log *logger.Logger) (*Repository, error) {
	agentRepo, err := NewGeminiAgentRepository(ctx, &cfg.Agent.Gemini, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ProfileRepo: NewProfileRepository(store, log),
		AssetRepo:   NewHeliusRepository(&cfg.Helius, inmemoryCache, log),
		AgentRepo:   agentRepo,
	}, nil
}
