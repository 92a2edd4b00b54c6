// Package netutil classifies errors returned by the Telegram API client.
package netutil

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	tele "gopkg.in/telebot.v4"
)

// Retryable reports whether another attempt may succeed: network timeouts,
// refused or reset connections, and 429 flood waits. API rejections such as
// "chat not found" are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if _, ok := RetryAfter(err); ok {
		return true
	}
	if Undelivered(err) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Undelivered reports whether the request never left this host, so sending
// it again cannot duplicate a message.
func Undelivered(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// RetryAfter returns the wait Telegram asked for in a 429 response.
func RetryAfter(err error) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) && flood.RetryAfter > 0 {
		return time.Duration(flood.RetryAfter) * time.Second, true
	}
	return 0, false
}
