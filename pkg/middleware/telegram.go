package middleware

import (
	"context"
	"strconv"
	"time"

	"token-signal-bot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

// WithContext gives each update a context bounded by timeout and a child
// logger tagged with a request id and the sender.
func WithContext(rootCtx context.Context, log *logger.Logger, timeout time.Duration, handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(rootCtx, timeout)
		defer cancel()

		fields := []zap.Field{logger.StringField("request_id", uuid.NewString())}
		if sender := c.Sender(); sender != nil {
			fields = append(fields, logger.StringField("user_id", strconv.FormatInt(sender.ID, 10)))
		}
		ctx = logger.NewContext(ctx, log.With(fields...))

		return handler(ctx, c)
	}
}
