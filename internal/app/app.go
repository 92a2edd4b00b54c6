// Package app wires the recruiting bot: configuration, infrastructure, the
// dialogue handler and the delivery sinks.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/bootstrap"
	"github.com/m3rciful/recruitbot/core/buildinfo"
	corecmd "github.com/m3rciful/recruitbot/core/cmd"
	"github.com/m3rciful/recruitbot/core/logger"
	coretelegram "github.com/m3rciful/recruitbot/core/telegram"
	"github.com/m3rciful/recruitbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/recruitbot/core/telegram/helpers"
	"github.com/m3rciful/recruitbot/core/telegram/router"
	tgsender "github.com/m3rciful/recruitbot/core/telegram/sender"
	"github.com/m3rciful/recruitbot/internal/dialog"
	"github.com/m3rciful/recruitbot/internal/health"
	"github.com/m3rciful/recruitbot/internal/submission"
	"github.com/m3rciful/recruitbot/internal/vacancy"
)

// App is the bootstrapped bot.
type App struct {
	cfg       *Config
	infra     *bootstrap.Result
	vacancies *vacancy.Catalog
	store     dialog.Store
	handler   *Handler
	health    *health.Server
	startedAt time.Time

	// Set in onStart, before updates are handled.
	dispatcher *submission.Dispatcher
	outbound   *tgsender.Dispatcher
}

// Load adapts LoadConfig to the core runner.
func Load(path string) (corecmd.ConfigCarrier, error) {
	return LoadConfig(path)
}

// Bootstrap adapts New to the core runner.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	return New(cfg)
}

// New initializes logging and storage, then loads the vacancy list.
func New(cfg *Config) (*App, error) {
	infra, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	vacancies := vacancy.Load(ctx, cfg.Recruit.VacanciesPath)
	store := dialog.NewExpiringStore(cfg.Recruit.SessionTTL)

	return &App{
		cfg:       cfg,
		infra:     infra,
		vacancies: vacancies,
		store:     store,
		handler:   NewHandler(store, dialog.NewMachine(vacancies)),
		health:    health.NewServer(cfg.Health),
		startedAt: time.Now(),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.infra.Close()
}

// TelegramRunOptions assembles routes, commands and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handler.Start,
		Description: "Start / restart the application",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.stats,
		Description: "Bot statistics",
		AdminOnly:   true,
		Hidden:      true,
	})

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: a.cfg.AdminID()})
	routes = append(routes, router.TextRoutes(a.handler, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
		Services: []coretelegram.Service{
			{Name: "health", Run: a.health.Run},
		},
		OnStart: a.onStart,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	d, err := a.buildDispatcher(ctx, rt.Bot)
	if err != nil {
		return err
	}
	a.dispatcher = d
	a.outbound = rt.Dispatcher
	a.handler.SetDispatcher(d)
	logger.Info(ctx, logger.CompApp, "app.wired",
		slog.String("status", "ok"),
		slog.Int("vacancies", a.vacancies.Len()),
		slog.Duration("session_ttl", a.cfg.Recruit.SessionTTL),
		slog.String("sink", strings.Join(d.Sinks(), ",")),
	)
	return nil
}

// buildDispatcher creates the sinks in delivery order: operator chat, email, archive.
func (a *App) buildDispatcher(ctx context.Context, bot submission.Sender) (*submission.Dispatcher, error) {
	sinks := []submission.Sink{submission.NewOperatorSink(bot, a.cfg.Recruit.OperatorChatID)}

	email, err := submission.NewEmailSink(a.cfg.Email.submission())
	switch {
	case errors.Is(err, submission.ErrEmailDisabled):
		logger.Warn(ctx, logger.CompSubmission, "submission.email.disabled",
			slog.String("status", "skip"),
		)
	case err != nil:
		return nil, fmt.Errorf("app: email sink: %w", err)
	default:
		if a.cfg.Email.VerifyOnStart {
			// A failed check is logged; sends are still attempted.
			go func() { _ = email.Verify(ctx) }()
		}
		sinks = append(sinks, email)
	}

	if a.infra.DB != nil {
		sinks = append(sinks, submission.NewArchiveSink(a.infra.DB))
	}
	return submission.NewDispatcher(sinks...), nil
}

func (a *App) stats(c tele.Context) error {
	src := StatsSource{
		Sessions:  a.store.Len,
		Vacancies: a.vacancies.Len,
		StartedAt: a.startedAt,
		Version:   buildinfo.String(),
	}
	if a.dispatcher != nil {
		src.Submission = a.dispatcher.Stats
	}
	if a.outbound != nil {
		src.Outbound = func() (uint64, uint64) {
			return a.outbound.SentCount(), a.outbound.ErrorCount()
		}
	}
	return tghelpers.SendText(c, statsText(src, time.Now()))
}
