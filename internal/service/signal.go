package service

import (
	"context"
	"sync"

	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/signal"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"

	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"
)

const publishConcurrency = 4

// MessageSender delivers a message to a chat.
type MessageSender interface {
	Send(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

type SignalService interface {
	Format(ctx context.Context, state dto.SignalState) dto.FinalSignal
	// Publish formats the signal and sends it to every chat. Delivery
	// failures are reported per chat.
	Publish(ctx context.Context, req dto.PublishSignalRequest) dto.PublishSignalResult
}

type signalService struct {
	log      *logger.Logger
	composer *signal.Composer
	sender   MessageSender
	metrics  *metrics.Recorder
}

func NewSignalService(log *logger.Logger, composer *signal.Composer, sender MessageSender, recorder *metrics.Recorder) SignalService {
	return &signalService{
		log:      log,
		composer: composer,
		sender:   sender,
		metrics:  recorder,
	}
}

func (s *signalService) Format(ctx context.Context, state dto.SignalState) dto.FinalSignal {
	final := s.composer.Compose(ctx, state)
	s.metrics.RecordSignalComposed(int(final.Level))
	return final
}

func (s *signalService) Publish(ctx context.Context, req dto.PublishSignalRequest) dto.PublishSignalResult {
	final := s.Format(ctx, req.SignalState)
	result := dto.PublishSignalResult{Signal: &final}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(publishConcurrency)
	for _, chatID := range req.ChatIDs {
		g.Go(func() error {
			err := s.send(gctx, chatID, final)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if result.Failed == nil {
					result.Failed = make(map[int64]string)
				}
				result.Failed[chatID] = err.Error()
				return nil
			}
			result.Delivered = append(result.Delivered, chatID)
			return nil
		})
	}
	_ = g.Wait()

	s.log.InfoContext(ctx, "Signal published",
		logger.StringField("token_address", req.TokenAddress),
		logger.IntField("delivered", len(result.Delivered)),
		logger.IntField("failed", len(result.Failed)),
	)
	return result
}

// send delivers the message as Markdown and falls back to plain text when
// Telegram rejects the entities. Buttons go with both attempts.
func (s *signalService) send(ctx context.Context, chatID int64, final dto.FinalSignal) error {
	opts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	if final.Buttons != nil {
		opts.ReplyMarkup = final.Buttons
	}
	_, err := s.sender.Send(ctx, chatID, final.Message, opts)
	if err == nil || ctx.Err() != nil {
		return err
	}

	s.log.WarnContext(ctx, "Markdown signal rejected, resending as plain text",
		logger.Field("chat_id", chatID),
		logger.ErrorField(err),
	)
	_, err = s.sender.Send(ctx, chatID, final.Message, &telebot.SendOptions{ReplyMarkup: opts.ReplyMarkup})
	return err
}
