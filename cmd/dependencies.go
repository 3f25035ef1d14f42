package cmd

import (
	"context"
	"fmt"
	"time"

	"token-signal-bot/config"
	"token-signal-bot/pkg/cache"
	"token-signal-bot/pkg/kv"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"
	"token-signal-bot/pkg/middleware"
	"token-signal-bot/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	store       kv.Store
	cache       cache.Cache
	cfg         *config.Config
	log         *logger.Logger
	validator   *goValidator.Validate
	echo        *echo.Echo
	metrics     *metrics.Recorder
	telegram    *telegram.TelegramRateLimiter
	telegramBot *telebot.Bot
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	store, err := newKVStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to open key-value store", zap.String("driver", cfg.KV.Driver), zap.Error(err))
		return nil, err
	}

	pref := telebot.Settings{
		Token:  cfg.Telegram.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.Error("Telegram bot error", zap.Error(err))
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Error("Failed to create telegram bot", zap.Error(err))
		_ = store.Close()
		return nil, err
	}

	sender := telegram.NewTelegramRateLimiter(&cfg.Telegram, log, bot)
	if cfg.Telegram.AlertChatID != 0 {
		log = log.WithAlerts(zapcore.ErrorLevel, func(text string) {
			go func() {
				_, _ = sender.Send(context.WithoutCancel(ctx), cfg.Telegram.AlertChatID, text)
			}()
		})
	}

	recorder := metrics.New()
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewMetricsMiddleware(recorder))

	return &AppDependency{
		store:       store,
		cache:       cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		cfg:         cfg,
		log:         log,
		validator:   goValidator.New(),
		echo:        e,
		metrics:     recorder,
		telegram:    sender,
		telegramBot: bot,
	}, nil
}

func newKVStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.KV.Driver {
	case config.KVDriverRedis:
		return kv.NewRedisStore(ctx, cfg.KV.Redis)
	case config.KVDriverMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown kv driver %q", cfg.KV.Driver)
	}
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
