package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/recruitbot/core/telegram"
	"github.com/m3rciful/recruitbot/core/telegram/middleware"
)

// FSM is a conversation engine that owns text input for users it reports
// as in progress.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions controls fallback behaviour for text the FSM does not take.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the OnText route. Text goes to the FSM first, then to
// commands typed without the Telegram command entity, then to fallbacks.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		if sender := c.Sender(); fsmMgr != nil && sender != nil && fsmMgr.InProgress(sender.ID) {
			return handleWithSummary(c, "fsm", start, func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil && !cmd.AdminOnly {
				return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	return []tg.Route{{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}}
}
