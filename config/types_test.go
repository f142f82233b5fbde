package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	tests := []struct {
		name             string
		config           Config
		expectedVersion  string
		expectedInterval string
		expectedDebounce int
	}{
		{
			name:             "empty config",
			config:           Config{},
			expectedVersion:  "1.0",
			expectedInterval: "10m0s",
			expectedDebounce: 100,
		},
		{
			name: "explicit values preserved",
			config: Config{
				Version: "2.0",
				Watch: WatchConfig{
					ReloadInterval: "30s",
					DebounceMs:     250,
				},
			},
			expectedVersion:  "2.0",
			expectedInterval: "30s",
			expectedDebounce: 250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			cfg.SetDefaults()
			assert.Equal(t, tt.expectedVersion, cfg.Version)
			assert.Equal(t, tt.expectedInterval, cfg.Watch.ReloadInterval)
			assert.Equal(t, tt.expectedDebounce, cfg.Watch.DebounceMs)
			assert.NotNil(t, cfg.Daemon)
		})
	}
}

func TestWatchConfigHelpers(t *testing.T) {
	w := WatchConfig{}
	assert.Equal(t, DefaultReloadInterval, w.Interval())
	assert.Equal(t, DefaultDebounce, w.Debounce())
	assert.True(t, w.WatchEnabled())

	w = WatchConfig{ReloadInterval: "45s", DebounceMs: 300}
	assert.Equal(t, 45*time.Second, w.Interval())
	assert.Equal(t, 300*time.Millisecond, w.Debounce())

	// Unparseable intervals fall back to the default
	w = WatchConfig{ReloadInterval: "often"}
	assert.Equal(t, DefaultReloadInterval, w.Interval())

	disabled := false
	w = WatchConfig{Watch: &disabled}
	assert.False(t, w.WatchEnabled())
}

func TestUnmarshalExtensionTypeError(t *testing.T) {
	cfg := Config{
		Extensions: map[string]interface{}{
			"logging": map[string]interface{}{
				"level":         "info",
				"report_caller": "definitely", // not a bool
			},
		},
	}

	var target struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	err := cfg.UnmarshalExtension("logging", &target)
	assert.Error(t, err)
}
