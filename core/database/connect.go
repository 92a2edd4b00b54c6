package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/recruitbot/core/logger"
)

const (
	connectTimeout = 5 * time.Second
	readyTimeout   = 30 * time.Second
	readyInterval  = 2 * time.Second
)

// Connect opens the pool, verifies connectivity and applies pool limits.
func Connect(cfg Config) (*sqlx.DB, error) {
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("status", "fail"),
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
			slog.Duration("duration", logger.RoundMS(took)),
			logger.ErrAttr(err),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("status", "ok"),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return db, nil
}

// WaitForPostgres pings until the server answers or timeout elapses.
func WaitForPostgres(ctx context.Context, cfg Config, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer db.Close()

	ticker := time.NewTicker(readyInterval)
	defer ticker.Stop()
	for {
		pingErr := db.PingContext(ctx)
		if pingErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout reached waiting for database: %w", pingErr)
		case <-ticker.C:
		}
	}
}
