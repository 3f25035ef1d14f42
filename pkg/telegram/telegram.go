package telegram

import (
	"context"
	"sync"
	"time"

	"token-signal-bot/config"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/ratelimit"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Bot is the part of *telebot.Bot the sender drives.
type Bot interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Delete(msg telebot.Editable) error
}

// TelegramRateLimiter sends through the bot while keeping under the global
// and per-chat limits. Deletes share the per-chat edit budget.
type TelegramRateLimiter struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           Bot
	globalLimiter *rate.Limiter
	chatLimiters  *ratelimit.LimiterStore
	editLimiters  *ratelimit.LimiterStore
	editMu        sync.Mutex
}

func NewTelegramRateLimiter(cfg *config.TelegramConfig, log *logger.Logger, bot Bot) *TelegramRateLimiter {
	return &TelegramRateLimiter{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
		chatLimiters:  ratelimit.NewLimiterStore(rate.Limit(cfg.MaxUserRequestPerSecond), cfg.MaxUserRequestPerSecond),
		editLimiters:  ratelimit.NewLimiterStore(rate.Limit(cfg.MaxEditMessagePerSecond), cfg.MaxEditMessagePerSecond),
	}
}

func (t *TelegramRateLimiter) Send(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := t.checkRateLimit(ctx, t.chatLimiters, chatID); err != nil {
		return nil, err
	}
	msg, err := t.bot.Send(&telebot.Chat{ID: chatID}, what, opts...)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to send message", logger.Field("chat_id", chatID), logger.ErrorField(err))
		return nil, err
	}
	return msg, nil
}

func (t *TelegramRateLimiter) Delete(ctx context.Context, chatID int64, msg telebot.Editable) error {
	if err := t.checkRateLimit(ctx, t.editLimiters, chatID); err != nil {
		return err
	}

	t.editMu.Lock()
	defer t.editMu.Unlock()
	return t.bot.Delete(msg)
}

func (t *TelegramRateLimiter) checkRateLimit(ctx context.Context, store *ratelimit.LimiterStore, chatID int64) error {
	if err := store.GetLimiter(chatID).Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for chat rate limit", logger.ErrorField(err))
		return err
	}
	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

// RunCleanup forgets idle per-chat limiters until ctx is done.
func (t *TelegramRateLimiter) RunCleanup(ctx context.Context) error {
	ticker := time.NewTicker(t.cfg.RateLimitCleanupDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Telegram rate limiter cleanup stopped")
			return nil
		case <-ticker.C:
			removed := t.chatLimiters.Cleanup(t.cfg.RatelimitExpireDuration) +
				t.editLimiters.Cleanup(t.cfg.RatelimitExpireDuration)
			if removed > 0 {
				t.log.Debug("Expired telegram rate limiters removed", logger.IntField("count", removed))
			}
		}
	}
}
