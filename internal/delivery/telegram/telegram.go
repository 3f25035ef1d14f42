package telegram

import (
	"context"
	"time"

	"token-signal-bot/config"
	"token-signal-bot/internal/service"
	"token-signal-bot/pkg/logger"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

// Messenger is the rate-limited outbound side of the bot.
type Messenger interface {
	Send(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Delete(ctx context.Context, chatID int64, msg telebot.Editable) error
}

type TelegramBotHandler struct {
	ctx       context.Context
	cfg       *config.Config
	bot       *telebot.Bot
	log       *logger.Logger
	messenger Messenger
	echo      *echo.Echo
	service   *service.Service
	polling   bool
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	messenger Messenger,
	echo *echo.Echo,
	service *service.Service) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:       ctx,
		cfg:       cfg,
		log:       log,
		bot:       bot,
		messenger: messenger,
		echo:      echo,
		service:   service,
	}
}

// Start registers the command handlers. With a webhook URL configured the
// updates arrive through the echo route; otherwise the bot long-polls.
func (t *TelegramBotHandler) Start() error {
	t.log.Info("Starting Telegram bot...")
	t.RegisterHandlers()

	if t.cfg.Telegram.WebhookURL == "" {
		t.log.Info("Telegram webhook is disabled, using long polling")
		t.polling = true
		go t.bot.Start()
		return nil
	}

	t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
	t.RegisterWebhook()
	return t.bot.SetWebhook(&telebot.Webhook{
		Endpoint: &telebot.WebhookEndpoint{
			PublicURL: t.cfg.Telegram.WebhookURL,
		},
	})
}

func (t *TelegramBotHandler) Stop() {
	t.log.Info("Stopping Telegram bot...")
	if !t.polling {
		t.log.Info("Telegram bot shutdown completed")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(t.ctx), 10*time.Second)
	defer cancel()

	stopDone := make(chan struct{})
	go func() {
		t.bot.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
		t.log.Info("Telegram bot stopped successfully")
	case <-ctx.Done():
		t.log.Warn("Timeout while stopping bot, forcing shutdown")
	}

	t.log.Info("Telegram bot shutdown completed")
}
