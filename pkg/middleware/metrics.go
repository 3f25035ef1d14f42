package middleware

import (
	"time"

	"token-signal-bot/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// NewMetricsMiddleware records every request under its route template so
// label cardinality stays bounded.
func NewMetricsMiddleware(recorder *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			recorder.RecordHTTPRequest(route, c.Request().Method, c.Response().Status, time.Since(start).Seconds())
			return nil
		}
	}
}
