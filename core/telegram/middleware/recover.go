package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
)

// RecoverMiddleware turns a handler panic into a logged error so one bad
// update cannot take the bot down.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				ctx := tghelpers.BuildContext(c)
				logger.Error(ctx, logger.CompTG, "tg.panic",
					slog.String("status", "fail"),
					slog.String("err", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("telegram: handler panic: %v", r)
			}
		}()
		return next(c)
	}
}
