package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	metaKey
)

// requestMeta is the correlation data carried by a request context. Each
// With* helper stores a modified copy.
type requestMeta struct {
	rid      string
	handler  string
	updateID int
	userID   int64
	chatID   int64
}

func metaFrom(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	m, _ := ctx.Value(metaKey).(requestMeta)
	return m
}

func withMeta(ctx context.Context, edit func(*requestMeta)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	m := metaFrom(ctx)
	edit(&m)
	return context.WithValue(ctx, metaKey, m)
}

// WithLogger stores log in ctx. A nil log leaves ctx unchanged.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored in ctx, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return l
		}
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return withMeta(ctx, func(m *requestMeta) { m.rid = rid })
}

// WithUpdateMeta attaches the update, user and chat ids.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return withMeta(ctx, func(m *requestMeta) {
		m.updateID, m.userID, m.chatID = updateID, userID, chatID
	})
}

// WithHandler names the handler serving the request.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withMeta(ctx, func(m *requestMeta) { m.handler = handler })
}

// Sanitize drops control and format runes except tab and newline.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and keeps at most max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(Sanitize(s))
	if len(r) > max {
		r = r[:max]
	}
	return string(r)
}

// BuildRID formats a request id as updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID rewrites each numeric segment of a BuildRID id in base36,
// joined by dots. Other input is returned unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return rid
		}
		parts[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(parts, ".")
}
