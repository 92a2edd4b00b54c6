package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/recruitbot/core/config"
)

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	if len(tokens) < 6 {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatJSON,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "service.test")
	LogEvent(ctx, log, slog.LevelError, "service.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "TEST_FAIL"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.test"`, `"event":"service.failed"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	rawRID := "123:456:789"
	ctx := WithRID(Background(), rawRID)
	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "rid.test",
		slog.String("status", "ok"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
}

func TestStructuredHandlerCompactRIDJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatJSON,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	rawRID := "12:34:56"
	ctx := WithRID(Background(), rawRID)
	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "rid.test",
		slog.String("status", "ok"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"rid":"`+CompactRID(rawRID)+`"`) {
		t.Fatalf("expected compact rid in JSON, got %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", line)
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Fatalf("expected ts_unix_nano to be present in JSON output, got %s", line)
	}
}

func TestNormalizeAttrDurationKeys(t *testing.T) {
	cases := map[string]string{
		"duration":         "duration_ms",
		"startup_duration": "startup_duration_ms",
		"backoff_ms":       "backoff_ms",
		"elapsed":          "elapsed_ms",
	}
	for in, want := range cases {
		key, val, ok := normalizeAttr(in, slog.DurationValue(1500*time.Microsecond))
		if !ok {
			t.Fatalf("%s: attr dropped", in)
		}
		if key != want {
			t.Fatalf("%s: key = %s, want %s", in, key, want)
		}
		if val != int64(2) {
			t.Fatalf("%s: value = %v, want 2", in, val)
		}
	}
}

func TestStructuredHandlerDropsUnknownOutcome(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: formatKV,
	})
	log := slog.New(handler).With("component", CompDialog)
	LogEvent(Background(), log, slog.LevelInfo, "dialog.transition",
		slog.String("status", "OK"),
		slog.String("outcome", "exploded"),
	)
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "outcome=") {
		t.Fatalf("unknown outcome should be dropped: %s", line)
	}
	if !strings.Contains(line, "status=ok") {
		t.Fatalf("status should be lower-cased: %s", line)
	}
}

func TestBuildOutputsAddsRotatingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{Dir: dir, BotFile: "bot.log", MaxSizeMB: 1}}
	writers, closers, err := buildOutputs(cfg)
	if err != nil {
		t.Fatalf("build outputs: %v", err)
	}
	if len(writers) != 2 || len(closers) != 1 {
		t.Fatalf("writers=%d closers=%d, want 2 and 1", len(writers), len(closers))
	}
	if _, err := writers[1].Write([]byte("line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := closers[0].Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "bot.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(data) != "line\n" {
		t.Fatalf("log file = %q", data)
	}
}

func TestResolveSettings(t *testing.T) {
	def := resolveSettings(nil)
	if def.format != formatJSON || def.level != slog.LevelInfo || def.profile != "prod" {
		t.Fatalf("nil config defaults = %+v", def)
	}

	s := resolveSettings(&coreconfig.Config{Logging: coreconfig.LoggingConfig{
		Profile:     "Dev",
		Level:       "warning",
		KeysOrder:   " event , status ,",
		DebugSample: "1/10",
	}})
	if s.format != formatKV {
		t.Fatalf("dev profile should default to kv, got %v", s.format)
	}
	if s.level != slog.LevelWarn || s.profile != "dev" || s.sample != 10 {
		t.Fatalf("settings = %+v", s)
	}
	if len(s.order) != 2 || s.order[0] != "event" || s.order[1] != "status" {
		t.Fatalf("order = %v", s.order)
	}

	explicit := resolveSettings(&coreconfig.Config{Logging: coreconfig.LoggingConfig{Profile: "debug", Format: "json"}})
	if explicit.format != formatJSON {
		t.Fatal("explicit json must win over profile")
	}
}

func TestComponentLoggersUsableBeforeInit(t *testing.T) {
	for name, l := range map[string]*slog.Logger{"db": DB, "tg": TG, "migrate": MIG, "wire": TWire} {
		if l == nil {
			t.Fatalf("%s logger is nil before InitLogger", name)
		}
		l.Info("before init", slog.String("event", "noop"))
	}
}

func TestStructuredHandlerContextMeta(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	}))

	ctx := WithUpdateMeta(Background(), 5, 7, 9)
	ctx = WithHandler(ctx, "start")
	ctx = WithHandler(ctx, "")
	LogEvent(ctx, log, slog.LevelInfo, "meta.test", slog.Int64("chat_id", 100))
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"update_id=5", "user_id=7", "handler=start", "chat_id=100"} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %q in %s", want, line)
		}
	}
}
