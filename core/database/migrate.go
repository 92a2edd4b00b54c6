package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/recruitbot/core/logger"
)

// upFile is one "<version>_<name>.up.sql" file in the migrations directory.
type upFile struct {
	version uint64
	name    string
}

// migrationSet is the sorted list of up files found on disk.
type migrationSet []upFile

func scanMigrations(dir string) migrationSet {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var set migrationSet
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		head, _, _ := strings.Cut(e.Name(), "_")
		v, err := strconv.ParseUint(head, 10, 64)
		if err != nil {
			continue
		}
		set = append(set, upFile{version: v, name: e.Name()})
	}
	sort.Slice(set, func(i, j int) bool { return set[i].version < set[j].version })
	return set
}

// between returns the files with from < version <= to.
func (s migrationSet) between(from, to uint64) []string {
	var names []string
	for _, f := range s {
		if f.version > from && f.version <= to {
			names = append(names, f.name)
		}
	}
	return names
}

func (s migrationSet) names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.name
	}
	return out
}

// RunMigrations waits for Postgres and applies every pending up migration
// from cfg.MigrationsDir.
func RunMigrations(cfg Config) error {
	cfg = cfg.withDefaults()
	fail := func(stage string, err error) error {
		logger.MIG.Error("migrations failed",
			slog.String("event", "db.migrate"),
			slog.String("status", "fail"),
			slog.String("action", stage),
			logger.ErrAttr(err),
		)
		return fmt.Errorf("migrations: %s: %w", stage, err)
	}

	if err := WaitForPostgres(context.Background(), cfg, readyTimeout); err != nil {
		return fail("wait", err)
	}
	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fail("resolve", err)
	}
	set := scanMigrations(dir)
	resolved := []any{
		slog.String("event", "resolve"),
		slog.String("path", dir),
		slog.Int("files_total", len(set)),
	}
	if preview, truncated := logger.Preview(set.names(), 6); preview != "" {
		resolved = append(resolved, slog.String("files_preview", preview), slog.Bool("files_truncated", truncated))
	}
	logger.MIG.Debug("migrations resolved", resolved...)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.URL())
	if err != nil {
		return fail("init", err)
	}
	defer m.Close()

	from := currentVersion(m)
	start := time.Now()
	err = m.Up()
	took := logger.RoundMS(time.Since(start))
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fail("apply", err)
	}
	to := currentVersion(m)

	applied := set.between(from, to)
	status := "ok"
	if len(applied) == 0 {
		status = "noop"
	} else if preview, truncated := logger.Preview(applied, 6); preview != "" {
		logger.MIG.Debug("applied files",
			slog.String("event", "apply"),
			slog.String("files_preview", preview),
			slog.Bool("files_truncated", truncated),
		)
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.String("status", status),
		slog.Uint64("from_ver", from),
		slog.Uint64("to_ver", to),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

// currentVersion is 0 for a database that has never been migrated.
func currentVersion(m *migrate.Migrate) uint64 {
	v, _, err := m.Version()
	if err != nil {
		return 0
	}
	return uint64(v)
}
