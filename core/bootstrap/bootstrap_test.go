package bootstrap

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/recruitbot/core/config"
	coredatabase "github.com/m3rciful/recruitbot/core/database"
	"github.com/m3rciful/recruitbot/core/logger"
)

func stubLogger(*coreconfig.Config) error {
	if logger.L == nil {
		logger.L = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return nil
}

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(Options{}); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestRunSkipsDatabaseWhenDisabled(t *testing.T) {
	connected := false
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: stubLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connected || res.DB != nil {
		t.Fatalf("database must not be touched when disabled")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRunPropagatesConnectError(t *testing.T) {
	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Host: "db"},
		LoggerInit: stubLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			return nil, errors.New("refused")
		},
	})
	if err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestRunPropagatesLoggerError(t *testing.T) {
	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return errors.New("bad dir") },
	})
	if err == nil {
		t.Fatalf("expected logger error")
	}
}
