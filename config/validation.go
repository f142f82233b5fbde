package config

import (
	"fmt"
	"time"

	"github.com/wardentools/core/errors"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Watch.RulesPath != "" && len(c.Watch.Rules) > 0 {
		return errors.New(errors.ErrCodeConfigValidation,
			"watch.rules_path and watch.rules are mutually exclusive")
	}

	if c.Watch.ReloadInterval != "" {
		d, err := time.ParseDuration(c.Watch.ReloadInterval)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation,
				fmt.Sprintf("invalid watch.reload_interval '%s'", c.Watch.ReloadInterval)).
				WithDetail("reload_interval", c.Watch.ReloadInterval)
		}
		if d < MinReloadInterval {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("watch.reload_interval %s is below the minimum of %s", d, MinReloadInterval)).
				WithDetail("reload_interval", c.Watch.ReloadInterval)
		}
	}

	if c.Watch.DebounceMs < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "watch.debounce_ms cannot be negative").
			WithDetail("debounce_ms", c.Watch.DebounceMs)
	}

	for _, pattern := range c.Watch.ExcludePaths {
		if pattern == "" {
			return errors.New(errors.ErrCodeConfigValidation, "watch.exclude_paths entries cannot be empty")
		}
	}

	return nil
}
