package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"regexp"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/telegram/netutil"
)

var (
	tokenRe  = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
	statusRe = regexp.MustCompile(`\((\d{3})\)\s*$`)
)

// errorKind buckets err for the send.fail log line.
func errorKind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if _, ok := netutil.RetryAfter(err); ok {
		return "flood"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if netutil.Undelivered(err) {
		return "dial"
	}
	var alert tls.AlertError
	var cert *tls.CertificateVerificationError
	if errors.As(err, &alert) || errors.As(err, &cert) {
		return "tls"
	}
	switch code := apiStatus(err); {
	case code >= 500:
		return "http_5xx"
	case code >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// apiStatus extracts the Bot API status code from err, or 0.
func apiStatus(err error) int {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	if m := statusRe.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}

// redact renders err with any bot token masked.
func redact(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
