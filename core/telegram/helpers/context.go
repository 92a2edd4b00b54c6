package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
)

const (
	ctxKey = "log_ctx"
	// RIDKey is where the logging middleware keeps the request id.
	RIDKey = "rid"
)

// BuildContext returns the logging context of the update behind c. The
// first call derives it (request id, update/user/chat ids, tg logger) and
// caches it on c.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(ctxKey).(context.Context); ok {
		return ctx
	}

	var userID, chatID int64
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	updateID := c.Update().ID

	rid, _ := c.Get(RIDKey).(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
		c.Set(RIDKey, rid)
	}

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component(logger.CompTG))
	c.Set(ctxKey, ctx)
	return ctx
}

// WithHandler tags the update's logging context with handler.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	c.Set(ctxKey, ctx)
	return ctx
}
