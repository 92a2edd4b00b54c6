package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
)

// recentUpdates remembers update IDs for a short while so an update passing
// through several wrapped branches is logged once.
type recentUpdates struct {
	mu      sync.Mutex
	seen    map[int]time.Time
	keepFor time.Duration
}

var received = &recentUpdates{seen: make(map[int]time.Time), keepFor: 10 * time.Second}

func (r *recentUpdates) firstSeen(updateID int, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ts := range r.seen {
		if now.Sub(ts) > r.keepFor {
			delete(r.seen, id)
		}
	}
	if _, ok := r.seen[updateID]; ok {
		return false
	}
	r.seen[updateID] = now
	return true
}

// LoggerMiddleware attaches the request id and update metadata to the
// context and logs one sampled debug line per received update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		ctx := tghelpers.BuildContext(c)

		if !received.firstSeen(upd.ID, time.Now()) || !logger.ShouldSampleDebug() {
			return next(c)
		}

		attrs := []slog.Attr{
			slog.String("status", "ok"),
			slog.Int("update_id", upd.ID),
		}
		if chat := c.Chat(); chat != nil {
			attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
		}
		if user := c.Sender(); user != nil && user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
		// Message text holds applicant answers; only its size is logged.
		if t := c.Text(); t != "" {
			attrs = append(attrs, slog.Int("text_len", len([]rune(t))))
		}
		logger.LogEvent(ctx, logger.Component(logger.CompTG), slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}
