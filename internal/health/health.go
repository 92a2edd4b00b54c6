// Package health serves the liveness endpoint used by the hosting platform.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/recruitbot/core/logger"
)

// Banner is the body of GET /.
const Banner = "🤖 Bot is running..."

const shutdownTimeout = 5 * time.Second

// Config selects the listen address. Port 0 disables the server.
type Config struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
}

// Addr returns host:port for net.Listen.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Listen, fmt.Sprint(c.Port))
}

// Router returns the health routes.
func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(Banner))
	})
	return r
}

// Server is the health HTTP server.
type Server struct {
	cfg Config
	srv *http.Server
}

// NewServer prepares a server; it does not listen until Run.
func NewServer(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Enabled reports whether a port is configured.
func (s *Server) Enabled() bool {
	return s != nil && s.cfg.Port > 0
}

// Run serves until ctx is done. Listen failures are logged and returned;
// callers treat them as non-fatal.
func (s *Server) Run(ctx context.Context) error {
	if !s.Enabled() {
		logger.Info(ctx, logger.CompHealth, "health.disabled", slog.String("status", "skip"))
		return nil
	}

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		logger.Error(ctx, logger.CompHealth, "health.listen",
			slog.String("status", "fail"),
			slog.String("listen", s.srv.Addr),
			logger.ErrAttr(err),
		)
		return fmt.Errorf("health: listen: %w", err)
	}
	logger.Info(ctx, logger.CompHealth, "health.listen",
		slog.String("status", "ok"),
		slog.String("listen", ln.Addr().String()),
	)

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error(ctx, logger.CompHealth, "health.serve",
			slog.String("status", "fail"),
			logger.ErrAttr(err),
		)
		return fmt.Errorf("health: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, logger.CompHealth, "health.shutdown",
			slog.String("status", "fail"),
			logger.ErrAttr(err),
		)
		return fmt.Errorf("health: shutdown: %w", err)
	}
	logger.Info(ctx, logger.CompHealth, "health.shutdown", slog.String("status", "ok"))
	return nil
}
