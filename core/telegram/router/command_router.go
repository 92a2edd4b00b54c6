package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	tg "github.com/m3rciful/recruitbot/core/telegram"
	"github.com/m3rciful/recruitbot/core/telegram/middleware"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with recovery, logging and,
// for admin-only commands, the admin check.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, def := range cmds {
		handlerName := normalizeHandlerName(name)
		run := def.Handler
		h := func(c tele.Context) error {
			return handleWithSummary(c, handlerName, time.Now(), func() error { return run(c) })
		}
		if def.AdminOnly {
			h = adminOnly(h)
		}
		h = middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(cmds)),
	)

	return routes
}
