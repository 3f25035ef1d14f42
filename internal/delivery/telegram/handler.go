package telegram

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/service"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/middleware"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

const webhookPath = "/api/v1/telegram/webhook"

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return middleware.WithContext(t.ctx, t.log, t.cfg.Telegram.HandlerTimeout, handler)
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.bot.Handle("/start", t.WithContext(t.handleStart))
	t.bot.Handle("/help", t.WithContext(t.handleHelp))
	t.bot.Handle("/setup", t.WithContext(t.handleSetup))
	t.bot.Handle("/cancel", t.WithContext(t.handleCancel))
	t.bot.Handle("/wallet", t.WithContext(t.handleWallet))
	t.bot.Handle("/forget", t.WithContext(t.handleForget))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleText))
}

func (t *TelegramBotHandler) RegisterWebhook() {
	t.echo.POST(webhookPath, t.handleWebhook)
}

func (t *TelegramBotHandler) handleWebhook(c echo.Context) error {
	var update telebot.Update
	if err := c.Bind(&update); err != nil {
		t.log.ErrorContext(c.Request().Context(), "Cannot bind JSON", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	t.bot.ProcessUpdate(update)
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "ok", nil))
}

func (t *TelegramBotHandler) replier(c telebot.Context) *chatReplier {
	return newChatReplier(t.messenger, t.log, c.Chat().ID)
}

func senderID(c telebot.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	r := t.replier(c)
	if err := r.sendMarkdown(ctx, messageWelcome); err != nil {
		return err
	}
	_, err := t.service.OnboardingService.BeginIfNeeded(ctx, senderID(c), r)
	return err
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	return t.replier(c).sendMarkdown(ctx, messageHelp)
}

func (t *TelegramBotHandler) handleSetup(ctx context.Context, c telebot.Context) error {
	return t.service.OnboardingService.Begin(ctx, senderID(c), t.replier(c))
}

func (t *TelegramBotHandler) handleCancel(ctx context.Context, c telebot.Context) error {
	r := t.replier(c)
	cancelled, err := t.service.OnboardingService.Cancel(ctx, senderID(c), r)
	if err != nil || cancelled {
		return err
	}
	return r.Send(ctx, messageNothingToCancel)
}

func (t *TelegramBotHandler) handleWallet(ctx context.Context, c telebot.Context) error {
	r := t.replier(c)
	summary, err := t.service.ChatService.WalletSummary(ctx, senderID(c))
	if errors.Is(err, service.ErrNoWallet) {
		return r.Send(ctx, messageNoWallet)
	}
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to load wallet summary", logger.ErrorField(err))
		return r.Send(ctx, messageWalletUnavailable)
	}
	return r.sendMarkdown(ctx, summary)
}

func (t *TelegramBotHandler) handleForget(ctx context.Context, c telebot.Context) error {
	r := t.replier(c)
	if !t.service.ChatService.Forget(ctx, senderID(c)) {
		return r.Send(ctx, messageForgetFailed)
	}
	return r.Send(ctx, messageForgotten)
}

func (t *TelegramBotHandler) handleText(ctx context.Context, c telebot.Context) error {
	if strings.HasPrefix(c.Text(), "/") {
		return t.replier(c).Send(ctx, messageUnknownCommand)
	}

	messageID := strconv.Itoa(c.Message().ID)
	return t.service.ChatService.HandleText(ctx, senderID(c), messageID, c.Text(), t.replier(c))
}
