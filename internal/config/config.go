package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config centralises runtime configuration. Values come from an optional YAML
// file with ${VAR} expansion, overridden by environment variables; a .env in
// the working directory is loaded first.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Remote  RemoteConfig  `yaml:"remote"`
	Network NetworkConfig `yaml:"network"`
	Sync    SyncConfig    `yaml:"sync"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Log     LogConfig     `yaml:"log"`
}

// RemoteConfig holds remote document-store connection parameters. When APIKey
// or ProjectID is empty the remote client is never constructed and every
// remote-touching operation short-circuits with a "not configured" failure.
type RemoteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	ProjectID string        `yaml:"project_id"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Configured reports whether remote access is possible at all.
func (r RemoteConfig) Configured() bool {
	return r.APIKey != "" && r.ProjectID != ""
}

// NetworkConfig controls the connectivity monitor.
type NetworkConfig struct {
	ProbeURL      string        `yaml:"probe_url"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

// SyncConfig controls the per-entity auto-sync intervals.
type SyncConfig struct {
	AppointmentsInterval time.Duration `yaml:"appointments_interval"`
	ArticlesInterval     time.Duration `yaml:"articles_interval"`
	AutoStart            bool          `yaml:"auto_start"`
}

// BridgeConfig controls the UI-facing command bridge server.
type BridgeConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls slog output and optional file rotation.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load builds the Config. path may be empty, in which case only .env and
// environment variables apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CLINICSYNC_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CLINICSYNC_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("CLINICSYNC_API_KEY"); v != "" {
		c.Remote.APIKey = v
	}
	if v := os.Getenv("CLINICSYNC_PROJECT_ID"); v != "" {
		c.Remote.ProjectID = v
	}
	if v := os.Getenv("CLINICSYNC_BRIDGE_ADDR"); v != "" {
		c.Bridge.Addr = v
	}
	if v := os.Getenv("CLINICSYNC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CLINICSYNC_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("CLINICSYNC_PROBE_URL"); v != "" {
		c.Network.ProbeURL = v
	}
	if d := envDuration("CLINICSYNC_SYNC_APPOINTMENTS_INTERVAL"); d > 0 {
		c.Sync.AppointmentsInterval = d
	}
	if d := envDuration("CLINICSYNC_SYNC_ARTICLES_INTERVAL"); d > 0 {
		c.Sync.ArticlesInterval = d
	}
}

func (c *Config) setDefaults() {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			c.DataDir = filepath.Join(home, ".clinicsync")
		} else {
			c.DataDir = ".clinicsync"
		}
	}
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = "https://api.clinicdesk.dev"
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 10 * time.Second
	}
	if c.Network.ProbeURL == "" {
		c.Network.ProbeURL = "https://clients3.google.com/generate_204"
	}
	if c.Network.ProbeTimeout == 0 {
		c.Network.ProbeTimeout = 3 * time.Second
	}
	if c.Network.CheckInterval == 0 {
		c.Network.CheckInterval = 30 * time.Second
	}
	if c.Sync.AppointmentsInterval == 0 {
		c.Sync.AppointmentsInterval = 5 * time.Minute
	}
	if c.Sync.ArticlesInterval == 0 {
		c.Sync.ArticlesInterval = 10 * time.Minute
	}
	if c.Bridge.Addr == "" {
		c.Bridge.Addr = "127.0.0.1:8450"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func envDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}
