// Package config loads taskbrain configuration from YAML and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8000
	DefaultShutdownTimeout = 10 * time.Second
	DefaultStoragePath     = "taskbrain.db"
	DefaultDatabaseTitle   = "Daily Tasks"
	DefaultNotionRate      = 3.0
	DefaultNotionBaseURL   = "https://api.notion.com/v1"
	DefaultReplayLimit     = 100
	DefaultSchedulerBuffer = 64
	DefaultUserID          = "local"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Tracker.Kind == "" {
		if cfg.Tracker.NotionToken != "" {
			cfg.Tracker.Kind = TrackerNotion
		} else {
			cfg.Tracker.Kind = TrackerLocal
		}
	}
	if cfg.Tracker.DatabaseTitle == "" {
		cfg.Tracker.DatabaseTitle = DefaultDatabaseTitle
	}
	if cfg.Tracker.RatePerSecond == 0 {
		cfg.Tracker.RatePerSecond = DefaultNotionRate
	}
	if cfg.Tracker.BaseURL == "" {
		cfg.Tracker.BaseURL = DefaultNotionBaseURL
	}
	if cfg.Learner.ReplayLimit == 0 {
		cfg.Learner.ReplayLimit = DefaultReplayLimit
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.TUI.SchedulerBuffer == 0 {
		cfg.TUI.SchedulerBuffer = DefaultSchedulerBuffer
	}
	if cfg.TUI.UserID == "" {
		cfg.TUI.UserID = DefaultUserID
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	switch c.Tracker.Kind {
	case TrackerLocal:
	case TrackerNotion:
		if c.Tracker.NotionToken == "" {
			errs = append(errs, errors.New("tracker.notion_token is required for the notion tracker"))
		}
	default:
		errs = append(errs, fmt.Errorf("tracker.kind must be %q or %q, got %q", TrackerLocal, TrackerNotion, c.Tracker.Kind))
	}
	if c.Tracker.RatePerSecond < 0 {
		errs = append(errs, errors.New("tracker.rate_per_second must not be negative"))
	}
	if _, err := c.Learner.Location(); err != nil {
		errs = append(errs, fmt.Errorf("learner.timezone: %w", err))
	}
	if c.Learner.ReplayLimit < 0 {
		errs = append(errs, errors.New("learner.replay_limit must not be negative"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if c.TUI.SchedulerBuffer < 0 {
		errs = append(errs, errors.New("tui.scheduler_buffer must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
