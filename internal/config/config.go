// Package config loads runtime settings for the task board.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names:
// TASKBOARD_DATA_PATH -> data_path.
const EnvPrefix = "TASKBOARD_"

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config keeps runtime settings for the server, the watcher and the CLI.
type Config struct {
	DataDriver       string        `koanf:"data_driver"`
	DataPath         string        `koanf:"data_path"`
	DatabaseURL      string        `koanf:"database_url"`
	BindAddress      string        `koanf:"bind_address"`
	ServerURL        string        `koanf:"server_url"`
	RequestTimeout   time.Duration `koanf:"request_timeout"`
	LogLevel         string        `koanf:"log_level"`
	LogFormat        string        `koanf:"log_format"`
	ReminderInterval time.Duration `koanf:"reminder_interval"`
	DigestTime       string        `koanf:"digest_time"`
	TelegramToken    string        `koanf:"telegram_token"`
	TelegramChatID   int64         `koanf:"telegram_chat_id"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DataDriver:       DriverFile,
		DataPath:         "data/app-data.json",
		DatabaseURL:      "data/taskboard.db",
		BindAddress:      "127.0.0.1:3000",
		ServerURL:        "http://127.0.0.1:3000",
		RequestTimeout:   10 * time.Second,
		LogLevel:         "info",
		LogFormat:        "json",
		ReminderInterval: time.Minute,
	}
}

// Load reads configuration with precedence env > YAML file > defaults.
// An empty path skips the file.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DataDriver {
	case DriverFile:
		if c.DataPath == "" {
			return fmt.Errorf("data_path is required when data_driver=file")
		}
	case DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when data_driver=sqlite")
		}
	default:
		return fmt.Errorf("invalid data driver: %q", c.DataDriver)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must be >= 0")
	}
	if c.ReminderInterval < 0 {
		return fmt.Errorf("reminder interval must be >= 0")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	if c.DigestTime != "" {
		if _, err := time.Parse("15:04", c.DigestTime); err != nil {
			return fmt.Errorf("invalid digest time %q, expected HH:MM", c.DigestTime)
		}
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("telegram_chat_id is required when telegram_token is set")
	}
	return nil
}

// TelegramEnabled reports whether reminders go to Telegram.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}
