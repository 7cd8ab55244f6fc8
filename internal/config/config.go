// Package config provides configuration management for blogauto.
//
// Config file locations (priority order):
//  1. $BLOGAUTO_CONFIG
//  2. ./blogauto.yaml
//  3. $XDG_CONFIG_HOME/blogauto/config.yaml
//  4. ~/.config/blogauto/config.yaml
//  5. /etc/blogauto/config.yaml
//
// Environment variables BLOGAUTO_ADDR, BLOGAUTO_DB and BLOGAUTO_LOG_LEVEL
// override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"blogauto/internal/domain"
	"blogauto/internal/presence"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvAddr     = "BLOGAUTO_ADDR"
	EnvDBPath   = "BLOGAUTO_DB"
	EnvLogLevel = "BLOGAUTO_LOG_LEVEL"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Database: DatabaseConfig{Path: "./blogauto.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()

	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if err := c.Presence.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (p PresenceConfig) validate() error {
	var errs []error

	if p.Color != "" {
		if _, err := domain.ParseHSL(p.Color); err != nil {
			errs = append(errs, fmt.Errorf("presence.color: %w", err))
		}
	}
	if p.SpawnProbability != nil && (*p.SpawnProbability < 0 || *p.SpawnProbability > 1) {
		errs = append(errs, fmt.Errorf("presence.spawn_probability must be within [0, 1], got %v", *p.SpawnProbability))
	}

	durations := map[string]*Duration{
		"sync_interval":     p.SyncInterval,
		"peer_lifetime_min": p.PeerLifetimeMin,
		"peer_lifetime_max": p.PeerLifetimeMax,
		"saved_after":       p.SavedAfter,
		"badge_duration":    p.BadgeDuration,
		"badge_fade":        p.BadgeFade,
		"notify_delay":      p.NotifyDelay,
	}
	for name, d := range durations {
		if d != nil && d.Duration() <= 0 {
			errs = append(errs, fmt.Errorf("presence.%s must be positive", name))
		}
	}
	if p.PeerLifetimeMin != nil && p.PeerLifetimeMax != nil && *p.PeerLifetimeMax < *p.PeerLifetimeMin {
		errs = append(errs, errors.New("presence.peer_lifetime_max must not be below peer_lifetime_min"))
	}

	return errors.Join(errs...)
}

// Simulator returns the presence simulator settings with overrides applied
func (p PresenceConfig) Simulator() (presence.Config, error) {
	cfg := presence.DefaultConfig()

	if p.SyncInterval != nil {
		cfg.SyncInterval = p.SyncInterval.Duration()
	}
	if p.DisplayName != "" {
		cfg.DisplayName = p.DisplayName
	}
	if p.Color != "" {
		color, err := domain.ParseHSL(p.Color)
		if err != nil {
			return presence.Config{}, fmt.Errorf("presence.color: %w", err)
		}
		cfg.Color = color
	}
	if p.SelfID != "" {
		cfg.SelfID = p.SelfID
	}
	if len(p.Roster) > 0 {
		cfg.Roster = append([]string(nil), p.Roster...)
	}
	if p.SpawnProbability != nil {
		cfg = cfg.WithSpawnProbability(*p.SpawnProbability)
	}
	if p.PeerLifetimeMin != nil {
		cfg.PeerLifetimeMin = p.PeerLifetimeMin.Duration()
	}
	if p.PeerLifetimeMax != nil {
		cfg.PeerLifetimeMax = p.PeerLifetimeMax.Duration()
	}
	if p.SavedAfter != nil {
		cfg.SavedAfter = p.SavedAfter.Duration()
	}
	if p.BadgeDuration != nil {
		cfg.BadgeDuration = p.BadgeDuration.Duration()
	}
	if p.BadgeFade != nil {
		cfg.BadgeFade = p.BadgeFade.Duration()
	}
	if p.NotifyDelay != nil {
		cfg.NotifyDelay = p.NotifyDelay.Duration()
	}

	return cfg, nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	sim, err := c.Presence.Simulator()
	if err != nil {
		return fmt.Sprintf("Listen: %s, DB: %s, presence config invalid: %v", c.Server.Addr, c.Database.Path, err)
	}
	return fmt.Sprintf("Listen: %s, DB: %s, Log: %s\nPresence: sync every %s, %d names, spawn %.0f%%, peers live %s-%s",
		c.Server.Addr, c.Database.Path, c.Logging.Level,
		sim.SyncInterval, len(sim.Roster), sim.SpawnProbability*100, sim.PeerLifetimeMin, sim.PeerLifetimeMax)
}
