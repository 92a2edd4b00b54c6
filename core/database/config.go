package database

import (
	"fmt"
	"net/url"
	"strings"
)

// Config holds Postgres connection settings. An empty Host disables the database.
type Config struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// MigrationsDir is relative to the working directory unless absolute.
	MigrationsDir string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// Enabled reports whether a database host is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = "5432"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 5
	}
	if c.MigrationsDir == "" {
		c.MigrationsDir = "migrations"
	}
	return c
}

// DSN returns a lib/pq keyword/value connection string.
func (c Config) DSN() string {
	c = c.withDefaults()
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		quoteDSN(c.User), quoteDSN(c.Password), c.Host, c.Port, quoteDSN(c.Name), c.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (c Config) URL() string {
	c = c.withDefaults()
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
