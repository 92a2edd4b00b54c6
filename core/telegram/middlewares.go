package telegram

import (
	"github.com/m3rciful/recruitbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain: panic recovery,
// update logging and outbound message counters.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
