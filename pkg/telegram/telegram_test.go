package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"token-signal-bot/config"
	"token-signal-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeBot struct {
	mu      sync.Mutex
	sent    []interface{}
	deleted int
	sendErr error
}

func (b *fakeBot) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return nil, b.sendErr
	}
	b.sent = append(b.sent, what)
	return &telebot.Message{ID: len(b.sent), Chat: &telebot.Chat{ID: 1}}, nil
}

func (b *fakeBot) Delete(msg telebot.Editable) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted++
	return nil
}

func testTelegramConfig() *config.TelegramConfig {
	return &config.TelegramConfig{
		MaxGlobalRequestPerSecond: 100,
		MaxUserRequestPerSecond:   100,
		MaxEditMessagePerSecond:   100,
		RatelimitExpireDuration:   time.Minute,
		RateLimitCleanupDuration:  time.Millisecond,
	}
}

func TestTelegramRateLimiter_SendAndDelete(t *testing.T) {
	bot := &fakeBot{}
	sender := NewTelegramRateLimiter(testTelegramConfig(), logger.NewNop(), bot)

	msg, err := sender.Send(context.Background(), 1, "hello")
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NoError(t, sender.Delete(context.Background(), 1, msg))

	assert.Equal(t, []interface{}{"hello"}, bot.sent)
	assert.Equal(t, 1, bot.deleted)
}

func TestTelegramRateLimiter_SendError(t *testing.T) {
	bot := &fakeBot{sendErr: errors.New("blocked by user")}
	sender := NewTelegramRateLimiter(testTelegramConfig(), logger.NewNop(), bot)

	msg, err := sender.Send(context.Background(), 1, "hello")
	assert.Error(t, err)
	assert.Nil(t, msg)
}

func TestTelegramRateLimiter_CanceledContext(t *testing.T) {
	cfg := testTelegramConfig()
	cfg.MaxUserRequestPerSecond = 1
	bot := &fakeBot{}
	sender := NewTelegramRateLimiter(cfg, logger.NewNop(), bot)

	_, err := sender.Send(context.Background(), 1, "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sender.Send(ctx, 1, "second")
	assert.Error(t, err)
	assert.Len(t, bot.sent, 1)
}

func TestTelegramRateLimiter_RunCleanupStops(t *testing.T) {
	sender := NewTelegramRateLimiter(testTelegramConfig(), logger.NewNop(), &fakeBot{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.NoError(t, sender.RunCleanup(ctx))
}

func TestFormatWalletSummary(t *testing.T) {
	got := FormatWalletSummary("Abc123", []AssetLine{
		{Symbol: "BONK", Balance: 1500000, USDValue: 31.456},
		{Symbol: "JUP", Balance: 12.123456},
	}, 5)

	want := "👛 *Wallet*\n`Abc123`\n\n📦 *Top holdings*\n• BONK: 1500000 (~$31.46)\n• JUP: 12.1235\n_…and 3 more_"
	assert.Equal(t, want, got)

	assert.Equal(t, "👛 *Wallet*\n`Abc123`\n\nNo fungible tokens found.", FormatWalletSummary("Abc123", nil, 0))
}
