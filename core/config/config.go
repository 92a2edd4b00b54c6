package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings that are common for all bots.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file" envconfig:"LOG_FILE"`
	// Rotation limits for BotFile; zero values fall back to lumberjack defaults.
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadInto fills dst from an optional YAML file, a local .env file and the
// process environment, in that order of precedence (environment wins).
// A missing YAML file is not an error.
func LoadInto(path string, dst any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env file: %w", err)
	}

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, dst); err != nil {
				return fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	if err := envconfig.Process("", dst); err != nil {
		return fmt.Errorf("failed to process env: %w", err)
	}
	return nil
}

// Normalize validates cfg and fills defaults: an empty run mode, or the
// "polling" alias, becomes longpoll.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return errors.New("telegram token is required")
	}
	mode, err := parseRunMode(cfg.Telegram.RunMode)
	if err != nil {
		return err
	}
	cfg.Telegram.RunMode = mode

	if mode == RunModeWebhook {
		if err := cfg.Webhook.validate(); err != nil {
			return err
		}
	} else if cfg.Telegram.LongPollTimeoutSeconds < 0 {
		return errors.New("telegram.longpoll_timeout_seconds must be >= 0")
	}

	l := cfg.Logging
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("logging rotation limits must be >= 0")
	}
	return nil
}

func parseRunMode(raw string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(raw)); mode {
	case "", "polling", RunModeLongpoll:
		return RunModeLongpoll, nil
	case RunModeWebhook:
		return RunModeWebhook, nil
	default:
		return "", fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", raw)
	}
}

func (w WebhookConfig) validate() error {
	var missing []string
	if strings.TrimSpace(w.URL) == "" {
		missing = append(missing, "webhook.url")
	}
	if strings.TrimSpace(w.Listen) == "" {
		missing = append(missing, "webhook.listen")
	}
	if w.Port <= 0 {
		missing = append(missing, "webhook.port")
	}
	if len(missing) > 0 {
		return fmt.Errorf("webhook run mode requires %s", strings.Join(missing, ", "))
	}
	return nil
}
