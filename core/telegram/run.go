package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/recruitbot/core/config"
	"github.com/m3rciful/recruitbot/core/logger"
	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
	tgsender "github.com/m3rciful/recruitbot/core/telegram/sender"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// Service is a background task that lives as long as the bot, such as an
// HTTP side server. It must return once ctx is done.
type Service struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route
	Services    []Service

	DisableWebhookCleanup   bool
	DisableHelperDispatcher bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram builds the bot from opts and serves updates until ctx is done.
// Context cancellation is a clean stop and returns nil.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		return errors.New("telegram: nil config provided")
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}

	started := time.Now()
	poller := NewPoller(cfg)
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: NewHTTPClient(pollTimeout(cfg)),
		OnError: func(err error, c tele.Context) {
			ctx := context.Background()
			if c != nil {
				ctx = tghelpers.BuildContext(c)
			}
			logger.Error(ctx, logger.CompTG, "tg.error", logger.ErrAttr(err))
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	logPollerMode(ctx, cfg, poller, logger.Took(started))
	if !opts.DisableWebhookCleanup && isLongpoll(cfg) {
		removeWebhook(ctx, bot)
	}

	rt := Runtime{Bot: bot, Dispatcher: opts.Dispatcher, Registry: opts.Registry}
	if rt.Dispatcher == nil {
		rt.Dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	if !opts.DisableHelperDispatcher {
		tghelpers.SetDispatcher(rt.Dispatcher)
	}
	defer func() {
		rt.Dispatcher.Close()
		if !opts.DisableHelperDispatcher {
			tghelpers.SetDispatcher(nil)
		}
	}()

	mount(bot, opts)
	InitBotCommands(bot, opts.Registry)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	stopServices := startServices(ctx, opts.Services)
	runErr := serve(ctx, bot)
	stopServices()

	if opts.OnStop != nil {
		if err := opts.OnStop(context.WithoutCancel(ctx), rt); err != nil {
			return err
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// mount installs middlewares, then routes. Incomplete entries are skipped.
func mount(bot *tele.Bot, opts RunOptions) {
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			bot.Handle(r.Endpoint, r.Handler)
		}
	}
}

// serve blocks in bot.Start until ctx is done or the poller gives up.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()
	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

// startServices runs each service in its own goroutine. The returned func
// cancels them and waits for all to return.
func startServices(ctx context.Context, services []Service) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	for _, svc := range services {
		svc := svc
		if svc.Run == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Run(ctx); err != nil {
				logger.Warn(ctx, logger.CompTG, "service.stop",
					slog.String("status", "fail"),
					slog.String("service", svc.Name),
					logger.ErrAttr(err),
				)
			}
		}()
	}
	return func() {
		cancel()
		wg.Wait()
	}
}

func isLongpoll(cfg *coreconfig.Config) bool {
	return strings.EqualFold(cfg.Telegram.RunMode, coreconfig.RunModeLongpoll)
}

func logPollerMode(ctx context.Context, cfg *coreconfig.Config, poller tele.Poller, took time.Duration) {
	if wh, ok := poller.(*tele.Webhook); ok {
		logger.Info(ctx, logger.CompTG, "mode",
			slog.String("mode", "webhook"),
			slog.String("listen", wh.Listen),
			slog.String("public_url", wh.Endpoint.PublicURL),
			slog.Duration("duration", took),
		)
		return
	}
	logger.Info(ctx, logger.CompTG, "mode",
		slog.String("mode", "polling"),
		slog.Int("timeout_seconds", int(pollTimeout(cfg)/time.Second)),
		slog.Duration("duration", took),
	)
}

// removeWebhook clears a webhook left by an earlier webhook-mode deployment;
// Telegram refuses getUpdates while one is set. Pending updates are kept.
func removeWebhook(ctx context.Context, bot *tele.Bot) {
	if err := bot.RemoveWebhook(false); err != nil {
		logger.Warn(ctx, logger.CompTG, "delete_webhook",
			slog.String("status", "fail"),
			slog.String("mode", "polling"),
			logger.ErrAttr(err),
		)
		return
	}
	logger.Info(ctx, logger.CompTG, "delete_webhook",
		slog.String("status", "ok"),
		slog.String("mode", "polling"),
	)
}
