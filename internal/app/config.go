package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/recruitbot/core/config"
	coredatabase "github.com/m3rciful/recruitbot/core/database"
	"github.com/m3rciful/recruitbot/internal/health"
	"github.com/m3rciful/recruitbot/internal/submission"
)

// RecruitConfig holds the questionnaire and operator settings.
type RecruitConfig struct {
	// OperatorChatID receives every submitted application.
	OperatorChatID int64  `yaml:"operator_chat_id" envconfig:"MANAGER_CHAT_ID"`
	VacanciesPath  string `yaml:"vacancies_path" envconfig:"VACANCIES_PATH"`
	// SessionTTL forgets dialogues idle for this long; zero keeps them for
	// the process lifetime.
	SessionTTL time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL"`
}

// EmailConfig holds SMTP settings. Email is off unless host, user, password
// and recipient are all set.
type EmailConfig struct {
	Host      string `yaml:"host" envconfig:"SMTP_HOST"`
	Port      int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username  string `yaml:"username" envconfig:"GMAIL_USER"`
	Password  string `yaml:"password" envconfig:"GMAIL_PASS"`
	Recipient string `yaml:"recipient" envconfig:"MANAGER_EMAIL"`
	// VerifyOnStart dials the server once at startup and logs the result.
	VerifyOnStart bool `yaml:"verify_on_start" envconfig:"SMTP_VERIFY"`
}

func (c EmailConfig) submission() submission.EmailConfig {
	return submission.EmailConfig{
		Host:      c.Host,
		Port:      c.Port,
		Username:  c.Username,
		Password:  c.Password,
		Recipient: c.Recipient,
	}
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Recruit  RecruitConfig       `yaml:"recruit"`
	Email    EmailConfig         `yaml:"email"`
	Health   health.Config       `yaml:"health"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

func defaultConfig() *Config {
	return &Config{
		Recruit: RecruitConfig{VacanciesPath: "vacancies.json"},
		Email: EmailConfig{
			Host:          "smtp.gmail.com",
			Port:          587,
			VerifyOnStart: true,
		},
		Health: health.Config{Port: 10000},
	}
}

// LoadConfig reads path (optional), .env and the environment over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if err := coreconfig.LoadInto(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize validates the core section and the bot-specific required fields.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if c.Recruit.OperatorChatID == 0 {
		return fmt.Errorf("recruit.operator_chat_id (MANAGER_CHAT_ID) is required")
	}
	if strings.TrimSpace(c.Recruit.VacanciesPath) == "" {
		c.Recruit.VacanciesPath = "vacancies.json"
	}
	if c.Recruit.SessionTTL < 0 {
		return fmt.Errorf("recruit.session_ttl must be >= 0")
	}
	if c.Health.Port < 0 {
		return fmt.Errorf("health.port must be >= 0")
	}
	if c.Telegram.RunMode == coreconfig.RunModeWebhook && c.Health.Port > 0 && c.Health.Port == c.Webhook.Port {
		return fmt.Errorf("health.port (PORT) and webhook.port (WEBHOOK_PORT) must differ, both are %d", c.Health.Port)
	}
	if c.Email.Port <= 0 {
		c.Email.Port = 587
	}
	return nil
}

// AdminID resolves who may run operator commands: the configured admin, or
// the operator chat when it is a private chat.
func (c *Config) AdminID() int64 {
	if c.Telegram.AdminID != 0 {
		return c.Telegram.AdminID
	}
	if c.Recruit.OperatorChatID > 0 {
		return c.Recruit.OperatorChatID
	}
	return 0
}
