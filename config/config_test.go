package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestExtensions verifies that custom extensions in warden.yml are properly loaded
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
watch:
  rules_path: /etc/warden/rules.yml

# Extension fields consumed by the logging package
logging:
  level: debug
  report_caller: true

# Extension fields from a hypothetical forwarder
forwarder:
  enabled: true
  interval: 30
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify extensions were captured
	if cfg.Extensions == nil {
		t.Fatal("Extensions map should not be nil")
	}

	if _, ok := cfg.Extensions["logging"]; !ok {
		t.Fatal("Expected 'logging' extension to be present")
	}

	type LogConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}

	var logCfg LogConfig
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		t.Fatalf("Failed to unmarshal logging extension: %v", err)
	}

	if logCfg.Level != "debug" {
		t.Errorf("Expected level to be 'debug', got '%s'", logCfg.Level)
	}
	if !logCfg.ReportCaller {
		t.Error("Expected report_caller to be true")
	}

	type ForwarderConfig struct {
		Enabled  bool `yaml:"enabled"`
		Interval int  `yaml:"interval"`
	}

	var fwdCfg ForwarderConfig
	if err := cfg.UnmarshalExtension("forwarder", &fwdCfg); err != nil {
		t.Fatalf("Failed to unmarshal forwarder extension: %v", err)
	}
	if !fwdCfg.Enabled {
		t.Error("Expected forwarder to be enabled")
	}
	if fwdCfg.Interval != 30 {
		t.Errorf("Expected interval to be 30, got %d", fwdCfg.Interval)
	}

	// Test non-existent extension (should not error)
	type UnknownConfig struct {
		SomeField string `yaml:"some_field"`
	}

	var unknownCfg UnknownConfig
	if err := cfg.UnmarshalExtension("unknown", &unknownCfg); err != nil {
		t.Fatalf("UnmarshalExtension should not error for non-existent keys: %v", err)
	}
	if unknownCfg.SomeField != "" {
		t.Errorf("Expected SomeField to be empty for non-existent extension")
	}

	// Core fields must not leak into the extensions map
	if _, ok := cfg.Extensions["watch"]; ok {
		t.Error("'watch' is a core section and should not appear in Extensions")
	}
}

// TestEnvVarExpansion verifies ${VAR} and ${VAR:-default} expansion
func TestEnvVarExpansion(t *testing.T) {
	t.Setenv("WARDEN_TEST_RULES", "/opt/warden/rules.yml")

	yamlContent := []byte(`
version: "1.0"
watch:
  rules_path: ${WARDEN_TEST_RULES}
  reload_interval: ${WARDEN_TEST_INTERVAL:-5m}
`)

	cfg, err := LoadFromBytes(yamlContent)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Watch.RulesPath != "/opt/warden/rules.yml" {
		t.Errorf("Expected rules_path to be expanded, got '%s'", cfg.Watch.RulesPath)
	}
	if cfg.Watch.ReloadInterval != "5m" {
		t.Errorf("Expected reload_interval default '5m', got '%s'", cfg.Watch.ReloadInterval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestFindConfigFile verifies the WARDEN_CONFIG > XDG > /etc precedence
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	explicit := filepath.Join(tmpDir, "explicit.yml")
	if err := os.WriteFile(explicit, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WARDEN_CONFIG", explicit)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if path != explicit {
		t.Errorf("Expected WARDEN_CONFIG to win, got '%s'", path)
	}

	// An explicit path that does not exist is an error, not a fallthrough
	t.Setenv("WARDEN_CONFIG", filepath.Join(tmpDir, "missing.yml"))
	if _, err := FindConfigFile(); err == nil {
		t.Error("Expected error for missing WARDEN_CONFIG path")
	}

	// XDG config dir is used when WARDEN_CONFIG is unset
	t.Setenv("WARDEN_CONFIG", "")
	os.Unsetenv("WARDEN_CONFIG")
	xdgDir := filepath.Join(tmpDir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdgDir)
	t.Setenv("WARDEN_HOME", "")
	os.Unsetenv("WARDEN_HOME")
	wardenDir := filepath.Join(xdgDir, "warden")
	if err := os.MkdirAll(wardenDir, 0755); err != nil {
		t.Fatal(err)
	}
	xdgConfig := filepath.Join(wardenDir, "warden.yml")
	if err := os.WriteFile(xdgConfig, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err = FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if path != xdgConfig {
		t.Errorf("Expected XDG config path, got '%s'", path)
	}
}
