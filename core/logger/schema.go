package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

// Known status and outcome values; anything else is passed through (status)
// or dropped (outcome).
var (
	knownStatus  = set("ok", "fail", "skip", "retry", "cancelled", "invalid", "noop")
	knownOutcome = set("ok", "fail", "cancelled")
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeEnum(value string, known map[string]struct{}) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}
	_, ok := known[value]
	return value, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"step",
	"from_step",
	"to_step",
	"transition",
	"lang",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"application_id",
	"sink",
	"vacancies",
	"sessions",
	"text_len",
	"action",
	"endpoint",
	"build",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"db",
	"host",
	"port",
	"err",
	"err_code",
	"error_kind",
	"cause",
	"attempt",
	"attempts",
	"delay_ms",
}
