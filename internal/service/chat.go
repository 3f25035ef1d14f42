package service

import (
	"context"
	"errors"

	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/repository"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/telegram"
)

const walletSummaryAssets = 5

var ErrNoWallet = errors.New("no wallet address stored")

// ChatService routes a user's free text either into onboarding or to the
// agent.
type ChatService interface {
	HandleText(ctx context.Context, userID, messageID, text string, r Replier) error
	// Forget deletes the stored profile and the transient session.
	Forget(ctx context.Context, userID string) bool
	// WalletSummary renders the stored wallet and its top holdings.
	WalletSummary(ctx context.Context, userID string) (string, error)
}

type chatService struct {
	log        *logger.Logger
	profiles   repository.ProfileRepository
	assets     repository.AssetRepository
	agent      repository.AgentRepository
	sessions   SessionStore
	onboarding OnboardingService
	aggregator *StreamAggregator
}

func NewChatService(
	log *logger.Logger,
	profiles repository.ProfileRepository,
	assets repository.AssetRepository,
	agent repository.AgentRepository,
	sessions SessionStore,
	onboarding OnboardingService,
	aggregator *StreamAggregator,
) ChatService {
	return &chatService{
		log:        log,
		profiles:   profiles,
		assets:     assets,
		agent:      agent,
		sessions:   sessions,
		onboarding: onboarding,
		aggregator: aggregator,
	}
}

func (s *chatService) HandleText(ctx context.Context, userID, messageID, text string, r Replier) error {
	profile := s.profiles.Get(ctx, userID)

	handled, err := s.onboarding.HandleInput(ctx, profile, text, r)
	if handled || err != nil {
		return err
	}

	if err := r.StartThinking(ctx); err != nil {
		return err
	}

	if profile != nil {
		s.profiles.AppendChatMessage(ctx, userID, messageID, text)
	}

	session := s.sessions.Get(userID)
	session.Add(dto.ChatRoleHuman, text)
	defer s.sessions.Save(session)

	req := dto.AgentRequest{
		UserID:  userID,
		History: session.History(),
		Profile: profile,
	}
	if profile != nil && profile.WalletAddress != "" {
		assets, err := s.assets.GetAssetsByOwner(ctx, profile.WalletAddress)
		if err != nil {
			s.log.WarnContext(ctx, "Continuing without wallet assets", logger.ErrorField(err))
		}
		req.Assets = assets
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, err := s.agent.Stream(streamCtx, req)
	if err != nil {
		s.log.ErrorContext(ctx, "Error initializing agent", logger.ErrorField(err), logger.AlertField())
		return r.Send(ctx, MessageInitError)
	}
	s.log.InfoContext(ctx, "Stream created")

	outcome := s.aggregator.Aggregate(streamCtx, chunks, session, r)
	switch outcome.Status {
	case StreamReplied:
		return nil
	case StreamTimeout:
		return r.Send(ctx, MessageTimeout)
	case StreamEmpty:
		if err := r.StopThinking(ctx); err != nil {
			s.log.WarnContext(ctx, "Failed to remove thinking message", logger.ErrorField(err))
		}
		return r.Send(ctx, MessageNoAnswer)
	default:
		return r.Send(ctx, MessageProcessingError)
	}
}

func (s *chatService) Forget(ctx context.Context, userID string) bool {
	s.sessions.Reset(userID)
	return s.profiles.Delete(ctx, userID)
}

func (s *chatService) WalletSummary(ctx context.Context, userID string) (string, error) {
	profile := s.profiles.Get(ctx, userID)
	if profile == nil || profile.WalletAddress == "" {
		return "", ErrNoWallet
	}

	assets, err := s.assets.GetAssetsByOwner(ctx, profile.WalletAddress)
	if err != nil {
		return "", err
	}

	lines := make([]telegram.AssetLine, 0, walletSummaryAssets)
	for i, asset := range assets {
		if i == walletSummaryAssets {
			break
		}
		lines = append(lines, telegram.AssetLine{
			Symbol:   asset.Symbol(),
			Balance:  asset.UIBalance(),
			USDValue: asset.USDValue(),
		})
	}
	return telegram.FormatWalletSummary(profile.WalletAddress, lines, len(assets)), nil
}
