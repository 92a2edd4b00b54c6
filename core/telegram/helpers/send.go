package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	"github.com/m3rciful/recruitbot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// sendAsync queues run on the dispatcher and falls back to a synchronous
// call when there is no dispatcher or it cannot take the job.
func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	job := sender.Job{Action: action, Endpoint: endpoint, Run: run}
	if chat := c.Chat(); chat != nil {
		job.ChatID = chat.ID
	}
	if err := disp.Enqueue(ctx, job); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, logger.CompSender, "queue.fallback",
				slog.String("status", "skip"),
				slog.String("action", action),
				logger.ErrAttr(err),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	RepliesFrom(c).note(sendOpts != nil && sendOpts.ReplyMarkup != nil)
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendWithMarkup sends plain text with a reply keyboard attached.
func SendWithMarkup(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return SendText(c, text)
	}
	return SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
}
