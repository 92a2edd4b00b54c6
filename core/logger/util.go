package logger

import (
	"log/slog"
	"strings"
	"time"
)

const maxErrLen = 256

// Took returns the time elapsed since start, rounded to milliseconds.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to milliseconds; negative durations become zero.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// ErrAttr renders err under the "err" key, sanitized and length-capped.
func ErrAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "")
	}
	return slog.String("err", SanitizeLimit(err.Error(), maxErrLen))
}

// Preview joins at most limit values with ", " and reports whether some
// were left out.
func Preview(values []string, limit int) (string, bool) {
	if limit <= 0 || len(values) == 0 {
		return "", len(values) > 0
	}
	if len(values) > limit {
		return strings.Join(values[:limit], ", "), true
	}
	return strings.Join(values, ", "), false
}
