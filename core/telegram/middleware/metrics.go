package middleware

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
)

// MessageMetricsMiddleware starts a reply counter for every update; the
// handler summary reports it.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		tghelpers.TrackReplies(c)
		return next(c)
	}
}

// GetCounters returns how many replies the current update requested and
// whether any of them carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	return tghelpers.RepliesFrom(c).Count()
}
