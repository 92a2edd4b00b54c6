package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
	"github.com/m3rciful/recruitbot/core/telegram/keyboard"
	"github.com/m3rciful/recruitbot/internal/dialog"
	"github.com/m3rciful/recruitbot/internal/submission"
)

// Dispatcher delivers confirmed applications.
type Dispatcher interface {
	Dispatch(ctx context.Context, app submission.Application) submission.Result
}

// replyFunc sends one reply to the user behind c.
type replyFunc func(c tele.Context, reply dialog.Reply) error

// Handler bridges Telegram updates and the dialogue machine. It implements
// the core text router's FSM interface.
type Handler struct {
	store   dialog.Store
	machine *dialog.Machine
	now     func() time.Time
	reply   replyFunc

	// dispatcher is set once the bot exists, before updates flow.
	dispatcher Dispatcher
}

// NewHandler wires a handler over store and machine.
func NewHandler(store dialog.Store, machine *dialog.Machine) *Handler {
	return &Handler{
		store:   store,
		machine: machine,
		now:     time.Now,
		reply:   sendReply,
	}
}

// SetDispatcher installs the application dispatcher.
func (h *Handler) SetDispatcher(d Dispatcher) {
	h.dispatcher = d
}

// InProgress is always true: first contact creates a session, so every text
// message belongs to the dialogue.
func (h *Handler) InProgress(int64) bool { return true }

// ManagerHandler feeds one text message through the machine.
func (h *Handler) ManagerHandler(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	input := c.Text()

	var (
		from dialog.Session
		res  dialog.Result
	)
	h.store.Update(user.ID, func(sess dialog.Session) dialog.Session {
		from = sess
		res = h.machine.Step(sess, input)
		return res.Session
	})
	logTransition(ctx, from, res)

	if res.Submitted != nil {
		h.submit(ctx, user, res.Session, *res.Submitted)
	}
	if res.Reply == nil {
		return nil
	}
	return h.reply(c, *res.Reply)
}

// Start handles /start: the session restarts at language selection.
func (h *Handler) Start(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	sess := h.store.Restart(user.ID)
	logger.Debug(tghelpers.BuildContext(c), logger.CompDialog, "dialog.restart",
		slog.String("status", "ok"),
		slog.String("to_step", sess.Step.String()),
	)
	return h.reply(c, h.machine.Prompt(sess))
}

func (h *Handler) submit(ctx context.Context, user *tele.User, sess dialog.Session, answers dialog.Answers) {
	app := submission.New(user.ID, user.Username, sess.Language, answers, h.now())
	if h.dispatcher == nil {
		logger.Error(ctx, logger.CompSubmission, "submission.dispatch",
			slog.String("status", "fail"),
			slog.String("application_id", app.ID.String()),
			slog.String("err", "dispatcher not configured"),
		)
		return
	}
	h.dispatcher.Dispatch(ctx, app)
}

func logTransition(ctx context.Context, from dialog.Session, res dialog.Result) {
	attrs := []slog.Attr{
		slog.String("status", transitionStatus(res.Outcome)),
		slog.String("from_step", from.Step.String()),
		slog.String("to_step", res.Session.Step.String()),
		slog.String("transition", string(res.Outcome)),
		slog.String("lang", res.Session.Language.String()),
	}
	if res.Outcome == dialog.OutcomeSubmitted {
		logger.Info(ctx, logger.CompDialog, "dialog.transition", attrs...)
		return
	}
	logger.Debug(ctx, logger.CompDialog, "dialog.transition", attrs...)
}

func transitionStatus(o dialog.Outcome) string {
	switch o {
	case dialog.OutcomeInvalid:
		return "invalid"
	case dialog.OutcomeIgnored:
		return "noop"
	}
	return "ok"
}

func sendReply(c tele.Context, reply dialog.Reply) error {
	return tghelpers.SendWithMarkup(c, reply.Text, markup(reply.Keyboard))
}

// markup converts a dialogue keyboard into a Telegram reply keyboard.
func markup(kb dialog.Keyboard) *tele.ReplyMarkup {
	if len(kb.Rows) == 0 {
		return keyboard.RemoveKeyboard()
	}
	if kb.OneTime {
		return keyboard.OneTimeReplyButtons(kb.Rows...)
	}
	return keyboard.ReplyButtons(kb.Rows...)
}

// StatsSource supplies the numbers reported by /stats.
type StatsSource struct {
	Sessions   func() int
	Vacancies  func() int
	Submission func() submission.Stats
	Outbound   func() (sent, failed uint64)
	StartedAt  time.Time
	Version    string
}

// statsText renders the /stats report.
func statsText(src StatsSource, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 Bot stats\n")
	if src.Version != "" {
		fmt.Fprintf(&b, "Version: %s\n", src.Version)
	}
	fmt.Fprintf(&b, "Uptime: %s\n", now.Sub(src.StartedAt).Round(time.Second))
	if src.Sessions != nil {
		fmt.Fprintf(&b, "Active sessions: %d\n", src.Sessions())
	}
	if src.Vacancies != nil {
		fmt.Fprintf(&b, "Vacancies: %d\n", src.Vacancies())
	}
	if src.Submission != nil {
		st := src.Submission()
		fmt.Fprintf(&b, "Applications: %d\n", st.Dispatched)
		names := st.FailureNames()
		if len(names) == 0 {
			b.WriteString("Delivery failures: none\n")
		} else {
			parts := make([]string, 0, len(names))
			for _, n := range names {
				parts = append(parts, fmt.Sprintf("%s=%d", n, st.Failures[n]))
			}
			fmt.Fprintf(&b, "Delivery failures: %s\n", strings.Join(parts, ", "))
		}
	}
	if src.Outbound != nil {
		sent, failed := src.Outbound()
		fmt.Fprintf(&b, "Messages sent: %d (failed %d)\n", sent, failed)
	}
	return strings.TrimRight(b.String(), "\n")
}
