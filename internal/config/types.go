package config

import (
	"encoding/json"
	"time"

	"github.com/sandeepkv93/taskbrain/internal/logging"
)

// Duration wraps time.Duration for text unmarshaling (YAML, env vars).
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Storage StorageConfig  `koanf:"storage"`
	Tracker TrackerConfig  `koanf:"tracker"`
	Learner LearnerConfig  `koanf:"learner"`
	Log     logging.Config `koanf:"log"`
	TUI     TUIConfig      `koanf:"tui"`
}

type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

type StorageConfig struct {
	Path string `koanf:"path"`
}

const (
	TrackerLocal  = "local"
	TrackerNotion = "notion"
)

type TrackerConfig struct {
	Kind          string  `koanf:"kind"`
	NotionToken   string  `koanf:"notion_token"`
	ParentPageID  string  `koanf:"parent_page_id"`
	DatabaseTitle string  `koanf:"database_title"`
	RatePerSecond float64 `koanf:"rate_per_second"`
	BaseURL       string  `koanf:"base_url"`
}

type LearnerConfig struct {
	// Timezone is an IANA name used to derive hour/day from capture time.
	Timezone      string `koanf:"timezone"`
	ReplayOnStart bool   `koanf:"replay_on_start"`
	ReplayLimit   int    `koanf:"replay_limit"`
}

// Location resolves Timezone, falling back to time.Local.
func (c LearnerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type TUIConfig struct {
	SchedulerBuffer int    `koanf:"scheduler_buffer"`
	UserID          string `koanf:"user_id"`
	StatePath       string `koanf:"state_path"`
}
