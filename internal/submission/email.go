package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/m3rciful/recruitbot/core/logger"
)

// ErrEmailDisabled is returned by NewEmailSink when any required setting is empty.
var ErrEmailDisabled = errors.New("submission: email disabled")

const senderName = "Recruit Bot"

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
	Timeout   time.Duration
}

// Enabled reports whether every required field is set.
func (c EmailConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" &&
		strings.TrimSpace(c.Username) != "" &&
		c.Password != "" &&
		strings.TrimSpace(c.Recipient) != ""
}

// Mailer is the part of *mail.Client the sink uses.
type Mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
	DialWithContext(ctx context.Context) error
	Close() error
}

// EmailSink mails the record to the operator address.
type EmailSink struct {
	cfg EmailConfig

	// mu serializes sessions on client.
	mu     sync.Mutex
	client Mailer
}

// NewEmailSink builds an SMTP client with mandatory TLS and PLAIN auth.
func NewEmailSink(cfg EmailConfig) (*EmailSink, error) {
	if !cfg.Enabled() {
		return nil, ErrEmailDisabled
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("submission: smtp client: %w", err)
	}
	return newEmailSink(cfg, client), nil
}

func newEmailSink(cfg EmailConfig, client Mailer) *EmailSink {
	return &EmailSink{cfg: cfg, client: client}
}

func (s *EmailSink) Name() string { return "email" }

// Verify dials and authenticates once, then hangs up.
func (s *EmailSink) Verify(ctx context.Context) error {
	start := time.Now()
	s.mu.Lock()
	err := s.client.DialWithContext(ctx)
	if err == nil {
		err = s.client.Close()
	}
	s.mu.Unlock()
	if err != nil {
		logger.Warn(ctx, logger.CompSubmission, "submission.email.verify",
			slog.String("status", "fail"),
			slog.String("host", s.cfg.Host),
			slog.Int("port", s.cfg.Port),
			slog.Duration("duration", logger.Took(start)),
			logger.ErrAttr(err),
		)
		return fmt.Errorf("submission: smtp verify: %w", err)
	}
	logger.Info(ctx, logger.CompSubmission, "submission.email.verify",
		slog.String("status", "ok"),
		slog.String("host", s.cfg.Host),
		slog.Int("port", s.cfg.Port),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

func (s *EmailSink) Deliver(ctx context.Context, app Application) error {
	msg, err := s.message(app)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("submission: smtp send: %w", err)
	}
	return nil
}

func (s *EmailSink) message(app Application) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(senderName, s.cfg.Username); err != nil {
		return nil, fmt.Errorf("submission: mail from: %w", err)
	}
	if err := msg.To(s.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("submission: mail to: %w", err)
	}
	msg.Subject(Subject(app))
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, Format(app))

	html, err := FormatHTML(app)
	if err != nil {
		return nil, err
	}
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}
