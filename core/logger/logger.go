package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"

	"github.com/m3rciful/recruitbot/core/buildinfo"
	coreconfig "github.com/m3rciful/recruitbot/core/config"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logWriter  *lineWriter
	logClosers []io.Closer

	levelVar slog.LevelVar

	debugSampler  = newSampler(defaultSampleEvery)
	traceOverride bool

	// L is the base logger; component loggers below derive from it.
	L *slog.Logger

	// Component loggers discard output until InitLogger replaces them.

	// DB logs database connection events.
	DB = discardLogger()
	// TG logs Telegram transport events.
	TG = discardLogger()
	// MIG logs database migration events.
	MIG = discardLogger()
	// TWire logs Telegram wiring steps.
	TWire = discardLogger()
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component names shared by packages that log through Event helpers.
const (
	CompApp        = "app"
	CompTG         = "tg"
	CompSender     = "tg.sender"
	CompDialog     = "dialog"
	CompSubmission = "submission"
	CompVacancy    = "vacancy"
	CompHealth     = "health"
)

// settings is the logging configuration after defaults are applied.
type settings struct {
	format  logFormat
	level   slog.Level
	order   []string
	profile string
	sample  uint64
}

func resolveSettings(cfg *coreconfig.Config) settings {
	s := settings{
		format:  formatJSON,
		level:   slog.LevelInfo,
		order:   append([]string(nil), defaultKeyOrder...),
		profile: "prod",
		sample:  defaultSampleEvery,
	}
	if cfg == nil {
		return s
	}
	lc := cfg.Logging

	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		s.profile = p
	}
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		s.format = formatKV
	case "json":
	default:
		if s.profile == "debug" || s.profile == "dev" {
			s.format = formatKV
		}
	}
	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "debug":
		s.level = slog.LevelDebug
	case "warn", "warning":
		s.level = slog.LevelWarn
	case "error":
		s.level = slog.LevelError
	}
	if raw := strings.TrimSpace(lc.KeysOrder); raw != "" && raw != "default" {
		var order []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				order = append(order, k)
			}
		}
		if len(order) > 0 {
			s.order = order
		}
	}
	s.sample = parseSampleEvery(lc.DebugSample)
	return s
}

// InitLogger installs the global structured logger. Only the first call has
// any effect.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		s := resolveSettings(cfg)
		levelVar.Set(s.level)
		debugSampler.reset(s.sample)
		traceOverride = detectTraceFlag()

		outputs, closers, err := buildOutputs(cfg)
		if err != nil {
			initErr = err
			return
		}
		logClosers = closers
		logWriter = newLineWriter(outputs, 64*1024)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   logWriter,
			format:   s.format,
			keyOrder: s.order,
		}))
		slog.SetDefault(L)

		DB = Component("db")
		TG = Component(CompTG)
		MIG = Component("db.migrate")
		TWire = Component("tg.wire")

		L.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("component", CompApp),
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build", buildinfo.String()),
			slog.String("cfg_profile", s.profile),
		)
	})
	return initErr
}

// Shutdown flushes buffered output and closes the log files. Later calls
// are no-ops.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var errs []error
	if logWriter != nil {
		errs = append(errs, logWriter.Flush(), logWriter.Close())
	}
	for _, c := range logClosers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// buildOutputs returns stdout plus, when configured, a size-rotated log file.
func buildOutputs(cfg *coreconfig.Config) ([]io.Writer, []io.Closer, error) {
	writers := []io.Writer{os.Stdout}
	if cfg == nil {
		return writers, nil, nil
	}
	dir := strings.TrimSpace(cfg.Logging.Dir)
	file := strings.TrimSpace(cfg.Logging.BotFile)
	if dir == "" || file == "" {
		return writers, nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, file),
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
	}
	return append(writers, rotating), []io.Closer{rotating}, nil
}

// Background returns context.Background() provided for call sites without a request context.
func Background() context.Context {
	return context.Background()
}

// LogEvent logs attrs with the event attribute set first.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Component constructs a logger scoped to the provided component attribute.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return L
	}
	return L.With("component", trimmed)
}

// Event logs with component scope resolved automatically.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := Component(component)
	if logg == nil {
		logg = FromContext(ctx)
		if logg != nil && strings.TrimSpace(component) != "" {
			logg = logg.With("component", strings.TrimSpace(component))
		}
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

// Debug logs a debug-level event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs an info-level event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs a warn-level event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs an error-level event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

func detectTraceFlag() bool {
	return isTruthy(os.Getenv("TRACE")) || isTruthy(os.Getenv("LOG_TRACE"))
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ShouldSampleDebug reports whether debug-level details should be logged for high-volume events.
func ShouldSampleDebug() bool {
	if traceOverride {
		return true
	}
	return debugSampler.allow()
}
