package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// WatchConfig holds configuration for the watch-item policy store.
type WatchConfig struct {
	// RulesPath points to the watch rules document (.yml, .yaml, .toml or .json).
	RulesPath string `yaml:"rules_path,omitempty" toml:"rules_path,omitempty" jsonschema:"description=Path to the watch rules document"`

	// Rules embeds the rules document directly in warden.yml. Mutually
	// exclusive with RulesPath.
	Rules map[string]interface{} `yaml:"rules,omitempty" toml:"rules,omitempty" jsonschema:"description=Inline watch rules document (mutually exclusive with rules_path)"`

	// ReloadInterval is how often the rules source is re-read and reapplied
	// (default: 10m, minimum: 15s).
	ReloadInterval string `yaml:"reload_interval,omitempty" toml:"reload_interval,omitempty" jsonschema:"description=How often to reapply the rules source (default: 10m)"`

	// Watch enables reloading on rules-file changes in addition to the
	// periodic schedule (default: true).
	Watch *bool `yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Reload when the rules file changes (default: true)"`

	// DebounceMs is the settle window for rapid rules-file changes in
	// milliseconds (default: 100).
	DebounceMs int `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty" jsonschema:"description=Debounce window for rapid rules file changes in milliseconds (default: 100)"`

	// ExcludePaths filters the monitored-path set published to event
	// interceptors. Patterns use .gitignore-style matching.
	ExcludePaths []string `yaml:"exclude_paths,omitempty" toml:"exclude_paths,omitempty" jsonschema:"description=Patterns removed from the published monitored-path set"`
}

// DaemonConfig holds configuration for the warden agent daemon (wardend).
type DaemonConfig struct {
	SocketPath string `yaml:"socket_path,omitempty" toml:"socket_path,omitempty" jsonschema:"description=Unix socket path for the agent API"`
	PidPath    string `yaml:"pid_path,omitempty" toml:"pid_path,omitempty" jsonschema:"description=PID file path for the agent"`
}

// TUIConfig holds appearance settings for CLI output.
type TUIConfig struct {
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty" jsonschema:"description=Color theme for terminal output,enum=kanagawa,enum=terminal"`
	Icons string `yaml:"icons,omitempty" toml:"icons,omitempty" jsonschema:"description=Icon set for terminal output,enum=nerd,enum=ascii"`
}

// Config represents the warden.yml configuration
type Config struct {
	Version string        `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Watch   WatchConfig   `yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Watch-item policy store settings"`
	Daemon  *DaemonConfig `yaml:"daemon,omitempty" toml:"daemon,omitempty" jsonschema:"description=Agent daemon settings"`
	TUI     *TUIConfig    `yaml:"tui,omitempty" toml:"tui,omitempty" jsonschema:"description=CLI appearance settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

const (
	// DefaultReloadInterval is applied when watch.reload_interval is unset.
	DefaultReloadInterval = 10 * time.Minute

	// MinReloadInterval is the lowest accepted reload interval. Reapplying
	// more often than this buys nothing and keeps the source file hot.
	MinReloadInterval = 15 * time.Second

	// DefaultDebounce is applied when watch.debounce_ms is unset.
	DefaultDebounce = 100 * time.Millisecond
)

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}

	if c.Watch.ReloadInterval == "" {
		c.Watch.ReloadInterval = DefaultReloadInterval.String()
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = int(DefaultDebounce / time.Millisecond)
	}

	if c.Daemon == nil {
		c.Daemon = &DaemonConfig{}
	}
}

// Interval returns the parsed reload interval, falling back to the default
// when the field is unset or unparseable. Validate reports the parse error;
// callers past validation can rely on this value.
func (w *WatchConfig) Interval() time.Duration {
	if w.ReloadInterval == "" {
		return DefaultReloadInterval
	}
	d, err := time.ParseDuration(w.ReloadInterval)
	if err != nil || d <= 0 {
		return DefaultReloadInterval
	}
	return d
}

// Debounce returns the watcher settle window.
func (w *WatchConfig) Debounce() time.Duration {
	if w.DebounceMs <= 0 {
		return DefaultDebounce
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// WatchEnabled reports whether file-change triggered reloads are on.
func (w *WatchConfig) WatchEnabled() bool {
	return w.Watch == nil || *w.Watch
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded warden.yml into the provided target struct. The target must be a
// pointer. This provides a type-safe way for extensions to access their
// custom configuration sections.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
