package logger

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *lineWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as flat kv or JSON lines with a stable key order.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	groups []string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether the handler allows processing the provided level.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

// Handle renders r as one line and hands it to the writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errors.New("logger: writer not initialized")
	}
	jsonOut := h.cfg.format == formatJSON

	fields := make(map[string]any, 16)
	ts := r.Time.UTC()
	fields["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	fields["level"] = normalizeLevel(r.Level.String())
	if jsonOut {
		fields["ts_unix_nano"] = ts.UnixNano()
	}
	for _, a := range h.attrs {
		h.collectAttr(fields, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.collectAttr(fields, a)
		return true
	})
	addContextFields(ctx, fields)
	compactRIDField(fields, jsonOut)
	setDefault(fields, "event", r.Message, "unknown")
	setDefault(fields, "component", CompApp)
	sanitizeEnumerations(fields)
	pruneEmpty(fields)

	line, err := h.encode(fields)
	if err != nil {
		return err
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

func (h *structuredHandler) encode(fields map[string]any) ([]byte, error) {
	if h.cfg.format == formatJSON {
		return formatJSONLine(fields, h.cfg.keyOrder)
	}
	return formatKVLine(fields, h.cfg.keyOrder), nil
}

// compactRIDField shortens "rid"; JSON output keeps the original as rid_full.
func compactRIDField(fields map[string]any, keepFull bool) {
	rid, _ := stringField(fields, "rid")
	compact := CompactRID(rid)
	if rid == "" || compact == rid {
		return
	}
	if _, set := fields["rid_full"]; keepFull && !set {
		fields["rid_full"] = rid
	}
	fields["rid"] = compact
}

// setDefault fills key with the first non-empty candidate when the record
// did not set it.
func setDefault(fields map[string]any, key string, candidates ...string) {
	if v, _ := stringField(fields, key); v != "" {
		return
	}
	for _, c := range candidates {
		if c != "" {
			fields[key] = c
			return
		}
	}
}

// WithAttrs returns a shallow copy of the handler enriched with attrs.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a shallow copy of the handler with an additional group prefix.
func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *structuredHandler) collectAttr(fields map[string]any, attr slog.Attr) {
	flattenAttr(strings.Join(h.groups, "."), attr, func(k string, v slog.Value) {
		if key, val, ok := normalizeAttr(k, v); ok {
			fields[key] = val
		}
	})
}

func flattenAttr(prefix string, attr slog.Attr, fn func(string, slog.Value)) {
	key := attr.Key
	if key == "" {
		key = prefix
	} else if prefix != "" {
		key = prefix + "." + key
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, child := range val.Group() {
			flattenAttr(key, child, fn)
		}
		return
	}
	fn(key, val)
}

// durationKey renames duration attributes so the unit is explicit in the key.
func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_duration"):
		return strings.TrimSuffix(key, "_duration") + "_duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	default:
		return key + "_ms"
	}
}

func normalizeAttr(key string, val slog.Value) (string, any, bool) {
	if key == "" {
		return "", nil, false
	}
	switch val.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(val.String()), true
	case slog.KindBool:
		return key, val.Bool(), true
	case slog.KindInt64:
		return key, val.Int64(), true
	case slog.KindUint64:
		if u := val.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, val.Uint64(), true
	case slog.KindFloat64:
		return key, val.Float64(), true
	case slog.KindDuration:
		return durationKey(key), RoundMS(val.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, val.Time().UTC().Format(time.RFC3339Nano), true
	}

	switch x := val.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case string:
		return key, strings.TrimSpace(x), true
	case time.Duration:
		return durationKey(key), RoundMS(x).Milliseconds(), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

func sanitizeEnumerations(fields map[string]any) {
	if level, ok := stringField(fields, "level"); ok {
		fields["level"] = normalizeLevel(level)
	}
	if s, ok := stringField(fields, "status"); ok && s != "" {
		normalized, _ := normalizeEnum(s, knownStatus)
		fields["status"] = normalized
	}
	if o, ok := stringField(fields, "outcome"); ok && o != "" {
		if normalized, valid := normalizeEnum(o, knownOutcome); valid {
			fields["outcome"] = normalized
		} else {
			delete(fields, "outcome")
		}
	}
}

func pruneEmpty(fields map[string]any) {
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			if val == "" {
				delete(fields, k)
			}
		case nil:
			delete(fields, k)
		}
	}
}

func formatJSONLine(fields map[string]any, order []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range orderedKeys(fields, order) {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
		data, err := json.Marshal(fields[key])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %q: %w", key, err)
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func formatKVLine(fields map[string]any, order []string) []byte {
	var b strings.Builder
	for i, key := range orderedKeys(fields, order) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValueKV(fields[key]))
	}
	return []byte(b.String())
}

// orderedKeys lists keys from order first, then the rest alphabetically.
func orderedKeys(fields map[string]any, order []string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, key := range order {
		if _, ok := fields[key]; ok {
			keys = append(keys, key)
			seen[key] = struct{}{}
		}
	}
	prefixLen := len(keys)
	for key := range fields {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys[prefixLen:])
	return keys
}

func formatValueKV(val any) string {
	switch v := val.(type) {
	case string:
		if strings.IndexFunc(v, needsQuote) >= 0 {
			return strconv.Quote(v)
		}
		return v
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		s := fmt.Sprint(v)
		if strings.IndexFunc(s, needsQuote) >= 0 {
			return strconv.Quote(s)
		}
		return s
	}
}

func needsQuote(r rune) bool {
	return r <= 32 || r == '=' || r == '"'
}

func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// addContextFields copies request metadata from ctx unless the record
// already carries the key.
func addContextFields(ctx context.Context, fields map[string]any) {
	m := metaFrom(ctx)
	put := func(key string, val any, zero bool) {
		if _, ok := fields[key]; !ok && !zero {
			fields[key] = val
		}
	}
	put("rid", m.rid, m.rid == "")
	put("user_id", m.userID, m.userID == 0)
	put("update_id", m.updateID, m.updateID == 0)
	put("chat_id", m.chatID, m.chatID == 0)
	put("handler", m.handler, m.handler == "")
}
