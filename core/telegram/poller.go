package telegram

import (
	"net"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/recruitbot/core/config"
)

const defaultPollTimeout = 10 * time.Second

// allowedUpdates limits delivery to what the routers handle.
var allowedUpdates = []string{"message"}

// pollTimeout returns the configured long-poll wait or the default.
func pollTimeout(cfg *coreconfig.Config) time.Duration {
	if s := cfg.Telegram.LongPollTimeoutSeconds; s > 0 {
		return time.Duration(s) * time.Second
	}
	return defaultPollTimeout
}

// NewPoller returns a webhook listener in webhook mode and a long poller
// otherwise. cfg must already be normalized.
func NewPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:         net.JoinHostPort(cfg.Webhook.Listen, strconv.Itoa(cfg.Webhook.Port)),
			AllowedUpdates: allowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{
		Timeout:        pollTimeout(cfg),
		AllowedUpdates: allowedUpdates,
	}
}
