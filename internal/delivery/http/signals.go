package http

import (
	"net/http"

	"token-signal-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSignals(base *echo.Group) {
	v1 := base.Group("/v1/signals")
	{
		v1.POST("/format", h.FormatSignal)
		v1.POST("/publish", h.PublishSignal)
	}
}

func (h *HttpAPIHandler) FormatSignal(c echo.Context) error {
	var req dto.SignalState
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	final := h.service.SignalService.Format(c.Request().Context(), req)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Signal formatted", final))
}

func (h *HttpAPIHandler) PublishSignal(c echo.Context) error {
	var req dto.PublishSignalRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	result := h.service.SignalService.Publish(c.Request().Context(), req)
	response := dto.NewSuccessResponse("Signal published", result)
	if len(result.Delivered) == 0 {
		response.Code = http.StatusBadGateway
		response.Message = "Signal could not be delivered to any chat"
	}
	return c.JSON(response.Code, response)
}
