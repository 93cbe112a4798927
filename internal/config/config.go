// Package config loads settings from built-in defaults, an optional YAML
// file and GRACE_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sandeepkv93/grace/internal/model"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Assistant     AssistantConfig     `koanf:"assistant"`
	UI            UIConfig            `koanf:"ui"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Export        ExportConfig        `koanf:"export"`
	Scheduler     SchedulerConfig     `koanf:"scheduler"`
	History       HistoryConfig       `koanf:"history"`
	Log           LogConfig           `koanf:"log"`
}

type AssistantConfig struct {
	DelayMS int `koanf:"delay_ms"`
}

type UIConfig struct {
	ConfirmationMS int  `koanf:"confirmation_ms"`
	CelebrationMS  int  `koanf:"celebration_ms"`
	Compact        bool `koanf:"compact"`
	Expanded       bool `koanf:"expanded"`
	Animations     bool `koanf:"animations"`
}

type NotificationsConfig struct {
	Desktop      bool `koanf:"desktop"`
	Reminders    bool `koanf:"reminders"`
	Achievements bool `koanf:"achievements"`
}

// MetricsConfig seeds the efficiency metrics at startup.
type MetricsConfig struct {
	TasksCompleted  int `koanf:"tasks_completed"`
	TimesSaved      int `koanf:"times_saved"`
	EfficiencyScore int `koanf:"efficiency_score"`
	Streak          int `koanf:"streak"`
}

type ExportConfig struct {
	Dir string `koanf:"dir"`
}

type SchedulerConfig struct {
	Buffer int `koanf:"buffer"`
}

type HistoryConfig struct {
	DSN string `koanf:"dsn"`
}

type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// Load merges defaults, the YAML file at configPath (skipped when absent)
// and the environment. GRACE_UI__COMPACT=true sets ui.compact.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Export.Dir = expandPath(cfg.Export.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func (c *Config) Validate() error {
	if c.Assistant.DelayMS < 0 {
		return fmt.Errorf("%w: assistant.delay_ms must not be negative", ErrInvalidConfig)
	}
	if c.UI.ConfirmationMS < 0 || c.UI.CelebrationMS < 0 {
		return fmt.Errorf("%w: ui timings must not be negative", ErrInvalidConfig)
	}
	if err := c.InitialMetrics().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Scheduler.Buffer <= 0 {
		return fmt.Errorf("%w: scheduler.buffer must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.History.DSN) == "" {
		return fmt.Errorf("%w: history.dsn is required", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

func (c *Config) ResponseDelay() time.Duration {
	return time.Duration(c.Assistant.DelayMS) * time.Millisecond
}

func (c *Config) ConfirmationDelay() time.Duration {
	return time.Duration(c.UI.ConfirmationMS) * time.Millisecond
}

func (c *Config) CelebrationDelay() time.Duration {
	return time.Duration(c.UI.CelebrationMS) * time.Millisecond
}

func (c *Config) InitialMetrics() model.EfficiencyMetrics {
	return model.EfficiencyMetrics{
		TasksCompleted:  c.Metrics.TasksCompleted,
		TimesSaved:      c.Metrics.TimesSaved,
		EfficiencyScore: c.Metrics.EfficiencyScore,
		Streak:          c.Metrics.Streak,
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
