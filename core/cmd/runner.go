// Package cmd is the shared process entry point: load config, bootstrap,
// run the bot until SIGINT/SIGTERM.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/recruitbot/core/config"
	"github.com/m3rciful/recruitbot/core/logger"
	coretelegram "github.com/m3rciful/recruitbot/core/telegram"
)

const defaultConfigEnv = "CONFIG_PATH"

// ConfigCarrier exposes the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp builds the bot's run options. Apps that also implement
// io.Closer are closed after the bot stops.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Options wire the process: LoadConfig and Bootstrap are required, the rest
// default to the core implementations.
type Options struct {
	// ConfigEnvVar names the variable holding the config path (CONFIG_PATH).
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
}

func (o Options) validate() error {
	switch {
	case o.LoadConfig == nil:
		return errors.New("cmd: LoadConfig is required")
	case o.Bootstrap == nil:
		return errors.New("cmd: Bootstrap is required")
	}
	return nil
}

// configPath prefers the environment over the default. An empty result is
// allowed: the loader then reads the environment only.
func (o Options) configPath() string {
	env := o.ConfigEnvVar
	if env == "" {
		env = defaultConfigEnv
	}
	if p := os.Getenv(env); p != "" {
		return p
	}
	return o.DefaultConfigPath
}

// Run loads configuration, bootstraps the app and blocks in the bot runtime
// until the process is signalled.
func Run(opts Options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, opts)
}

func run(ctx context.Context, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	path := opts.configPath()
	log.Printf("loading config: %q", path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}
	if cfg.CoreConfig() == nil {
		return errors.New("cmd: loaded config is missing core configuration")
	}

	startedAt := time.Now()
	application, err := opts.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}
	defer shutdown(application, opts.ShutdownLogger)

	runOpts, err := application.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options build failed: %w", err)
	}
	withLifecycleLogs(&runOpts, startedAt)

	runBot := opts.RunTelegram
	if runBot == nil {
		runBot = coretelegram.RunTelegram
	}
	return runBot(ctx, runOpts)
}

// withLifecycleLogs logs "ready" after the app's OnStart succeeded and
// "shutdown" before its OnStop runs.
func withLifecycleLogs(opts *coretelegram.RunOptions, startedAt time.Time) {
	onStart, onStop := opts.OnStart, opts.OnStop

	opts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if onStart != nil {
			if err := onStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, logger.CompApp, "ready",
			slog.String("status", "ok"),
			slog.Duration("startup_duration", logger.Took(startedAt)),
		)
		return nil
	}
	opts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Info(ctx, logger.CompApp, "shutdown")
		if onStop == nil {
			return nil
		}
		return onStop(ctx, rt)
	}
}

// shutdown closes the app, then flushes the logger.
func shutdown(application TelegramApp, flush func() error) {
	if closer, ok := application.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn(context.Background(), logger.CompApp, "app.close",
				slog.String("status", "fail"),
				logger.ErrAttr(err),
			)
		}
	}
	if flush == nil {
		flush = logger.Shutdown
	}
	if err := flush(); err != nil {
		log.Printf("logger shutdown error: %v", err)
	}
}
