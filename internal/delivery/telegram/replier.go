package telegram

import (
	"context"

	"token-signal-bot/internal/service"
	"token-signal-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

// chatReplier answers one chat. It lives for a single update, so the
// thinking message needs no locking.
type chatReplier struct {
	messenger Messenger
	log       *logger.Logger
	chatID    int64
	thinking  *telebot.Message
}

func newChatReplier(messenger Messenger, log *logger.Logger, chatID int64) *chatReplier {
	return &chatReplier{
		messenger: messenger,
		log:       log,
		chatID:    chatID,
	}
}

func (r *chatReplier) Send(ctx context.Context, text string) error {
	_, err := r.messenger.Send(ctx, r.chatID, text)
	return err
}

func (r *chatReplier) StartThinking(ctx context.Context) error {
	msg, err := r.messenger.Send(ctx, r.chatID, service.MessageThinking)
	if err != nil {
		return err
	}
	r.thinking = msg
	return nil
}

func (r *chatReplier) StopThinking(ctx context.Context) error {
	if r.thinking == nil {
		return nil
	}
	msg := r.thinking
	r.thinking = nil
	return r.messenger.Delete(ctx, r.chatID, msg)
}

func (r *chatReplier) Reply(ctx context.Context, text string) error {
	if err := r.StopThinking(ctx); err != nil {
		r.log.WarnContext(ctx, "Failed to remove thinking message", logger.ErrorField(err))
	}
	return r.sendMarkdown(ctx, text)
}

// sendMarkdown falls back to plain text when Telegram rejects the entities,
// which happens with unbalanced markers in model output.
func (r *chatReplier) sendMarkdown(ctx context.Context, text string) error {
	_, err := r.messenger.Send(ctx, r.chatID, text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err == nil || ctx.Err() != nil {
		return err
	}
	r.log.WarnContext(ctx, "Markdown message rejected, resending as plain text", logger.ErrorField(err))
	return r.Send(ctx, text)
}
