package service

import (
	"token-signal-bot/config"
	"token-signal-bot/internal/repository"
	"token-signal-bot/internal/signal"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"
)

type Service struct {
	ChatService       ChatService
	OnboardingService OnboardingService
	SignalService     SignalService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	sender MessageSender,
	recorder *metrics.Recorder,
) *Service {
	onboardingService := NewOnboardingService(log, repo.ProfileRepo, recorder, cfg.Onboarding.Steps)
	aggregator := NewStreamAggregator(log, recorder, cfg.Agent.StreamTimeout)
	sessions := NewSessionStore(cfg.Session.TTL, cfg.Session.MaxTurns)

	chatService := NewChatService(log, repo.ProfileRepo, repo.AssetRepo, repo.AgentRepo, sessions, onboardingService, aggregator)
	signalService := NewSignalService(log, signal.NewComposer(log, signal.NewPhantomButtons()), sender, recorder)

	return &Service{
		ChatService:       chatService,
		OnboardingService: onboardingService,
		SignalService:     signalService,
	}
}
