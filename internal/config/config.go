// Package config provides YAML-based configuration loading for VisionPlan.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level VisionPlan configuration, loaded from visionplan.yaml.
type Config struct {
	Owner     string         `yaml:"owner"`
	EmpresaID string         `yaml:"empresa_id"`
	Database  DatabaseConfig `yaml:"database"`
	Fallback  FallbackConfig `yaml:"fallback"`
	Sweep     SweepConfig    `yaml:"sweep"`
	Dashboard DashConfig     `yaml:"dashboard"`
	Alertas   AlertaConfig   `yaml:"alertas"`
}

// DatabaseConfig holds connection settings for the primary MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// FallbackConfig controls the local degraded-mode store used when the
// primary database is unreachable.
type FallbackConfig struct {
	Path string `yaml:"path"`
}

// SweepConfig controls the scheduled overdue-constraint sweep.
type SweepConfig struct {
	// Cron is a standard 5-field cron expression (minute hour dom month dow).
	Cron string `yaml:"cron"`
}

// DashConfig holds dashboard HTTP server settings.
type DashConfig struct {
	Port int `yaml:"port"`
}

// AlertaConfig holds outbound alert channel settings. A channel is enabled
// when its token fields are non-empty.
type AlertaConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack bot credentials and the target channel.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord bot credentials and the target channel.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Database == "" && c.Owner != "" {
		c.Database.Database = "visionplan_" + c.Owner
	}
	if c.Fallback.Path == "" && c.Owner != "" {
		c.Fallback.Path = "visionplan_" + c.Owner + ".db"
	}
	if c.Sweep.Cron == "" {
		c.Sweep.Cron = "0 6 * * *"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Owner == "" {
		errs = append(errs, "owner is required")
	}
	if c.EmpresaID == "" {
		errs = append(errs, "empresa_id is required")
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port %d out of range", c.Database.Port))
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Sprintf("dashboard.port %d out of range", c.Dashboard.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
