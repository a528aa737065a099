// Package config loads and validates the esgboard configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Content   ContentConfig   `yaml:"content"`
	Database  DatabaseConfig  `yaml:"database"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Events    EventsConfig    `yaml:"events"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DashboardConfig configures the mock metric datasets.
type DashboardConfig struct {
	Title string `yaml:"title"`
	Seed  int64  `yaml:"seed"`
}

// ContentConfig locates the markdown insight content.
type ContentConfig struct {
	Dir        string            `yaml:"dir"`
	Watch      bool              `yaml:"watch"`
	Repository *RepositoryConfig `yaml:"repository,omitempty"`
}

// RepositoryConfig points at a git repository holding insight content.
type RepositoryConfig struct {
	URL    string      `yaml:"url"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// Supported repository auth types.
const (
	AuthTypeNone  = "none"
	AuthTypeToken = "token"
	AuthTypeBasic = "basic"
)

// AuthConfig holds git credentials.
type AuthConfig struct {
	Type     string `yaml:"type"` // "token" or "basic"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// DatabaseConfig locates the sqlite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RefreshConfig controls the periodic content refresh.
type RefreshConfig struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration parses the refresh interval. Validate has already checked
// it, so errors here mean the config was mutated after loading.
func (r RefreshConfig) IntervalDuration() (time.Duration, error) {
	return time.ParseDuration(r.Interval)
}

// EventsConfig configures optional NATS event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads, expands, and validates the configuration at path. Environment
// variables referenced as ${VAR} in the YAML are expanded; a .env file, if
// present, is loaded first without overriding the process environment.
func Load(path string) (*Config, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load(".env", ".env.local")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Dashboard.Title == "" {
		c.Dashboard.Title = "ESG Monitoring Dashboard"
	}
	if c.Dashboard.Seed == 0 {
		c.Dashboard.Seed = 42
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "./content"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./esgboard.db"
	}
	if c.Refresh.Interval == "" {
		c.Refresh.Interval = "15m"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "esgboard.content"
	}
	if c.Events.NATSURL == "" {
		c.Events.NATSURL = "nats://127.0.0.1:4222"
	}
}
