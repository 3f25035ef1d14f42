package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func TestWithContext_AttachesLoggerAndDeadline(t *testing.T) {
	root := logger.NewNop()
	var (
		gotLogger   *logger.Logger
		hasDeadline bool
	)
	handler := WithContext(context.Background(), root, time.Minute, func(ctx context.Context, c telebot.Context) error {
		gotLogger = root.FromContext(ctx)
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	b, err := telebot.NewBot(telebot.Settings{Offline: true})
	require.NoError(t, err)
	update := telebot.Update{Message: &telebot.Message{Sender: &telebot.User{ID: 7}, Chat: &telebot.Chat{ID: 7}}}

	require.NoError(t, handler(b.NewContext(update)))
	assert.True(t, hasDeadline)
	assert.NotSame(t, root, gotLogger)
}

func TestRateLimiterMiddleware_Denies(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimiterMiddleware(1, 1))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := echo.New()
	e.Use(NewMetricsMiddleware(metrics.NewWithRegistry(reg, reg)))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
