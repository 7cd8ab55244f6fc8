package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Presence PresenceConfig `yaml:"presence"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	ReadTimeout    Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout   Duration `yaml:"write_timeout,omitempty"`
	IdleTimeout    Duration `yaml:"idle_timeout,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"` // empty = any origin
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	// Level is one of error, warn, info, debug, trace
	Level string `yaml:"level"`
}

// PresenceConfig overrides the presence simulator defaults.
// Unset fields keep the built-in values.
type PresenceConfig struct {
	SyncInterval     *Duration `yaml:"sync_interval,omitempty"`
	DisplayName      string    `yaml:"display_name,omitempty"`
	Color            string    `yaml:"color,omitempty"` // hsl(h, s%, l%); random when empty
	SelfID           string    `yaml:"self_id,omitempty"`
	Roster           []string  `yaml:"roster,omitempty"`
	SpawnProbability *float64  `yaml:"spawn_probability,omitempty"`
	PeerLifetimeMin  *Duration `yaml:"peer_lifetime_min,omitempty"`
	PeerLifetimeMax  *Duration `yaml:"peer_lifetime_max,omitempty"`
	SavedAfter       *Duration `yaml:"saved_after,omitempty"`
	BadgeDuration    *Duration `yaml:"badge_duration,omitempty"`
	BadgeFade        *Duration `yaml:"badge_fade,omitempty"`
	NotifyDelay      *Duration `yaml:"notify_delay,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DurationOf is a convenience for building optional durations
func DurationOf(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}
