package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"token-signal-bot/config"
	"token-signal-bot/internal/service"
	"token-signal-bot/internal/signal"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

const bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

type stubSender struct {
	fail bool
}

func (s *stubSender) Send(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if s.fail {
		return nil, errors.New("chat not found")
	}
	return &telebot.Message{}, nil
}

func newTestServer(t *testing.T, sender service.MessageSender) *echo.Echo {
	t.Helper()
	log := logger.NewNop()
	reg := prometheus.NewRegistry()
	recorder := metrics.NewWithRegistry(reg, reg)

	svc := &service.Service{
		SignalService: service.NewSignalService(log, signal.NewComposer(log, signal.NewPhantomButtons()), sender, recorder),
	}
	e := echo.New()
	cfg := &config.API{RateLimit: 100, RateLimitBurst: 100}
	NewHttpAPIHandler(context.Background(), cfg, e, goValidator.New(), svc, recorder, log).SetupRoutes()
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFormatSignal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantTitle string
	}{
		{
			name:      "buy decision",
			body:      `{"token_symbol":"BONK","token_address":"` + bonkMint + `","current_price":0.0000234,"signal_decision":{"direction":"BUY","timeframe":"SHORT","riskLevel":"HIGH","confidence":0.85,"reasoning":"Breakout.","keyFactors":["volume"],"shouldGenerateSignal":true}}`,
			wantCode:  http.StatusOK,
			wantTitle: "🚀 BUY bonk - High Risk",
		},
		{
			name:      "invalid decision degrades to watch",
			body:      `{"token_symbol":"BONK","token_address":"` + bonkMint + `","current_price":1,"signal_decision":{"direction":"HOLD","timeframe":"SHORT","riskLevel":"LOW","confidence":0.5,"shouldGenerateSignal":true}}`,
			wantCode:  http.StatusOK,
			wantTitle: "🔍 [WATCH] $BONK",
		},
		{
			name:     "missing token address",
			body:     `{"token_symbol":"BONK","current_price":1}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `{"token_symbol":`,
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestServer(t, &stubSender{}), http.MethodPost, "/api/v1/signals/format", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantTitle == "" {
				return
			}

			var resp struct {
				Data struct {
					Title string `json:"title"`
					Level int    `json:"level"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantTitle, resp.Data.Title)
		})
	}
}

func TestPublishSignal(t *testing.T) {
	body := `{"token_symbol":"WIF","token_address":"` + bonkMint + `","current_price":2.5,"chat_ids":[10,11]}`

	rec := do(newTestServer(t, &stubSender{}), http.MethodPost, "/api/v1/signals/publish", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Delivered []int64 `json:"delivered"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []int64{10, 11}, resp.Data.Delivered)

	rec = do(newTestServer(t, &stubSender{fail: true}), http.MethodPost, "/api/v1/signals/publish", body)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(newTestServer(t, &stubSender{}), http.MethodPost, "/api/v1/signals/publish", `{"token_symbol":"WIF","token_address":"x","chat_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestServer(t, &stubSender{})
	do(e, http.MethodPost, "/api/v1/signals/format", `{"token_symbol":"BONK","token_address":"`+bonkMint+`"}`)

	health := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)

	rec := do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `signalbot_signals_composed_total{level="1"} 1`)
}
