package http

import (
	"context"
	"net/http"

	"token-signal-bot/config"
	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/service"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"
	"token-signal-bot/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	ctx       context.Context
	cfg       *config.API
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	metrics   *metrics.Recorder
	log       *logger.Logger
}

func NewHttpAPIHandler(
	ctx context.Context,
	cfg *config.API,
	echo *echo.Echo,
	validator *goValidator.Validate,
	service *service.Service,
	recorder *metrics.Recorder,
	log *logger.Logger) *HttpAPIHandler {
	return &HttpAPIHandler{
		ctx:       ctx,
		cfg:       cfg,
		echo:      echo,
		validator: validator,
		service:   service,
		metrics:   recorder,
		log:       log,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.Health)
	h.echo.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	base := h.echo.Group("/api", middleware.NewRateLimiterMiddleware(h.cfg.RateLimit, h.cfg.RateLimitBurst))
	h.SetupSignals(base)
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

// bindAndValidate writes the 400 response itself; callers return its error
// as is when ok is false.
func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		h.log.WarnContext(c.Request().Context(), "Cannot bind JSON", logger.ErrorField(err))
		return false, c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	return true, nil
}
