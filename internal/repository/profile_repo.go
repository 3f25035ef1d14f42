package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"token-signal-bot/internal/model"
	"token-signal-bot/pkg/kv"
	"token-signal-bot/pkg/logger"
)

// ProfileUpdate sets one field of a profile during Update.
type ProfileUpdate func(p *model.UserProfile)

func WithWalletAddress(address string) ProfileUpdate {
	return func(p *model.UserProfile) { p.WalletAddress = address }
}

func WithWaitingForInput(step model.SetupStep) ProfileUpdate {
	return func(p *model.UserProfile) { p.WaitingForInput = &step }
}

func ClearWaitingForInput() ProfileUpdate {
	return func(p *model.UserProfile) { p.WaitingForInput = nil }
}

func WithAge(age int) ProfileUpdate {
	return func(p *model.UserProfile) { p.Age = &age }
}

func WithRiskTolerance(level int) ProfileUpdate {
	return func(p *model.UserProfile) { p.RiskTolerance = &level }
}

func WithTotalAssets(amount int64) ProfileUpdate {
	return func(p *model.UserProfile) { p.TotalAssets = &amount }
}

func WithCryptoAssets(amount int64) ProfileUpdate {
	return func(p *model.UserProfile) { p.CryptoAssets = &amount }
}

func WithPanicLevel(level int) ProfileUpdate {
	return func(p *model.UserProfile) { p.PanicLevel = &level }
}

func WithChatHistory(history []model.ChatMessage) ProfileUpdate {
	return func(p *model.UserProfile) { p.ChatHistory = history }
}

// ProfileRepository persists user profiles in the KV store. Storage faults
// are logged and reported as nil or false, never as errors. Concurrent
// writers for the same user race; the last write wins.
type ProfileRepository interface {
	// Get returns nil when no profile exists or the read failed.
	Get(ctx context.Context, userID string) *model.UserProfile
	Set(ctx context.Context, profile *model.UserProfile) bool
	// Update merges updates over the stored profile, creating it when absent.
	Update(ctx context.Context, userID string, updates ...ProfileUpdate) *model.UserProfile
	AppendChatMessage(ctx context.Context, userID, messageID, content string) bool
	Delete(ctx context.Context, userID string) bool
}

type profileRepository struct {
	store kv.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewProfileRepository(store kv.Store, log *logger.Logger) ProfileRepository {
	return &profileRepository{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func (r *profileRepository) Get(ctx context.Context, userID string) *model.UserProfile {
	profile, err := r.read(ctx, userID)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to get user profile",
			logger.StringField("user_id", userID), logger.ErrorField(err))
		return nil
	}
	return profile
}

func (r *profileRepository) Set(ctx context.Context, profile *model.UserProfile) bool {
	if profile == nil {
		return false
	}
	profile.LastUpdated = r.now().UnixMilli()
	if err := r.write(ctx, profile); err != nil {
		r.log.ErrorContext(ctx, "Failed to set user profile",
			logger.StringField("user_id", profile.UserID), logger.ErrorField(err), logger.AlertField())
		return false
	}
	return true
}

func (r *profileRepository) Update(ctx context.Context, userID string, updates ...ProfileUpdate) *model.UserProfile {
	profile, err := r.read(ctx, userID)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read user profile for update",
			logger.StringField("user_id", userID), logger.ErrorField(err))
		return nil
	}
	if profile == nil {
		profile = &model.UserProfile{UserID: userID}
	}

	for _, update := range updates {
		update(profile)
	}
	profile.UserID = userID
	profile.LastUpdated = r.stamp(profile.LastUpdated)

	if err := r.write(ctx, profile); err != nil {
		r.log.ErrorContext(ctx, "Failed to update user profile",
			logger.StringField("user_id", userID), logger.ErrorField(err), logger.AlertField())
		return nil
	}
	return profile
}

func (r *profileRepository) AppendChatMessage(ctx context.Context, userID, messageID, content string) bool {
	profile, err := r.read(ctx, userID)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read user profile for chat message",
			logger.StringField("user_id", userID), logger.ErrorField(err))
		return false
	}
	if profile == nil {
		r.log.WarnContext(ctx, "No user profile to append chat message to",
			logger.StringField("user_id", userID))
		return false
	}

	now := r.now()
	profile.ChatHistory = append(profile.ChatHistory, model.ChatMessage{
		MessageID: messageID,
		Timestamp: now.UnixMilli(),
		Content:   content,
	})
	if overflow := len(profile.ChatHistory) - model.MaxChatHistory; overflow > 0 {
		profile.ChatHistory = append([]model.ChatMessage(nil), profile.ChatHistory[overflow:]...)
	}
	profile.LastUpdated = r.stamp(profile.LastUpdated)

	if err := r.write(ctx, profile); err != nil {
		r.log.ErrorContext(ctx, "Failed to append chat message",
			logger.StringField("user_id", userID), logger.ErrorField(err))
		return false
	}
	return true
}

func (r *profileRepository) Delete(ctx context.Context, userID string) bool {
	if err := r.store.Delete(ctx, model.UserProfileKey(userID)); err != nil {
		r.log.ErrorContext(ctx, "Failed to delete user profile",
			logger.StringField("user_id", userID), logger.ErrorField(err))
		return false
	}
	return true
}

// read returns (nil, nil) when the key is absent.
func (r *profileRepository) read(ctx context.Context, userID string) (*model.UserProfile, error) {
	raw, err := r.store.Get(ctx, model.UserProfileKey(userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var profile model.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) write(ctx context.Context, profile *model.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return r.store.Put(ctx, model.UserProfileKey(profile.UserID), raw)
}

// stamp never moves lastUpdated backwards when the clock does.
func (r *profileRepository) stamp(previous int64) int64 {
	now := r.now().UnixMilli()
	if now < previous {
		return previous
	}
	return now
}
