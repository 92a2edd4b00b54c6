package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/recruitbot/core/telegram/netutil"
)

const (
	dialTimeout     = 5 * time.Second
	tlsTimeout      = 5 * time.Second
	idleConnTimeout = 90 * time.Second
	// headroom is added on top of the long-poll wait so getUpdates is not
	// cut off while Telegram holds the request open.
	headroom = 10 * time.Second

	redialAttempts = 2
	redialBackoff  = 500 * time.Millisecond
)

// NewHTTPClient returns the client used for Bot API calls. Requests that
// failed before reaching the server are redialled; everything else is left
// to the caller, since resending a delivered sendMessage would duplicate it.
func NewHTTPClient(poll time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsTimeout,
		ResponseHeaderTimeout: poll + headroom/2,
	}
	return &http.Client{
		Timeout:   poll + headroom,
		Transport: &redialTransport{base: transport, attempts: redialAttempts, backoff: redialBackoff},
	}
}

type redialTransport struct {
	base     http.RoundTripper
	attempts int
	backoff  time.Duration
}

func (t *redialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	for i := 1; err != nil && i <= t.attempts && netutil.Undelivered(err); i++ {
		if req.Body != nil && req.GetBody == nil {
			return nil, err
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(t.backoff * time.Duration(i)):
		}

		retry := req.Clone(req.Context())
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, bodyErr
			}
			retry.Body = body
		}
		resp, err = t.base.RoundTrip(retry)
	}
	return resp, err
}
