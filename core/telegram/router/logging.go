package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
	"github.com/m3rciful/recruitbot/core/telegram/middleware"
)

// handleWithSummary runs fn under handlerName and logs one summary line.
func handleWithSummary(c tele.Context, handlerName string, start time.Time, fn func() error) error {
	tghelpers.WithHandler(c, handlerName)
	err := fn()
	logHandlerSummary(c, handlerName, start, "", err)
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, statusOverride string, err error) {
	ctx := tghelpers.WithHandler(c, handlerName)
	msgs, kb := middleware.GetCounters(c)

	status, outcome := "ok", "ok"
	if err != nil {
		status, outcome = "fail", "fail"
	}
	if statusOverride != "" {
		status = statusOverride
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", handlerName),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs,
			logger.ErrAttr(err),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component(logger.CompTG), level, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

// deriveErrorCode names the error type, looking through fmt wrapping,
// e.g. OP_ERROR or FLOOD_ERROR.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	t := errType(err)
	for t != nil && t.PkgPath() == "fmt" {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
		t = errType(err)
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return toUpperSnake(t.Name())
}

func errType(err error) reflect.Type {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func toUpperSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
