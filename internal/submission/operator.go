package submission

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// Sender is the part of *tele.Bot the operator sink needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// OperatorSink posts the plain-text record to the operator chat. It sends
// once; connections that fail before the request is written are redialed by
// the bot's HTTP transport.
type OperatorSink struct {
	sender Sender
	chat   tele.ChatID
}

// NewOperatorSink returns a sink that writes to chatID.
func NewOperatorSink(sender Sender, chatID int64) *OperatorSink {
	return &OperatorSink{sender: sender, chat: tele.ChatID(chatID)}
}

func (s *OperatorSink) Name() string { return "operator" }

func (s *OperatorSink) Deliver(ctx context.Context, app Application) error {
	if s.sender == nil {
		return errors.New("submission: operator sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submission: operator send: %w", err)
	}
	if _, err := s.sender.Send(s.chat, Format(app)); err != nil {
		return fmt.Errorf("submission: operator send: %w", err)
	}
	return nil
}
