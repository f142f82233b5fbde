package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/pkg/paths"
	"github.com/wardentools/core/schema"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a warden configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	return LoadFromBytes(data)
}

// LoadDefault finds and loads the agent configuration. The search order is
// WARDEN_CONFIG, the user config directory, then /etc/warden. A
// warden.override.yml next to the selected file is merged on top of it.
func LoadDefault() (*Config, error) {
	return LoadDefaultWithLogger(logrus.New())
}

// LoadDefaultWithLogger is LoadDefault with debug logging of the layers.
func LoadDefaultWithLogger(logger *logrus.Logger) (*Config, error) {
	path, err := FindConfigFile()
	if err != nil {
		// A missing config is not fatal for the agent: everything has a
		// default except the rules source, which Validate reports later.
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg, nil
	}

	logger.WithField("path", path).Debug("Loading agent configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	expanded := expandEnvVars(string(data))
	cfg, err := parseConfig([]byte(expanded))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config").
			WithDetail("path", path)
	}

	// Merge a local override file if one sits next to the main config.
	for _, name := range []string{"warden.override.yml", "warden.override.yaml"} {
		overridePath := filepath.Join(filepath.Dir(path), name)
		if _, err := os.Stat(overridePath); err != nil {
			continue
		}
		logger.WithField("path", overridePath).Debug("Loading local override configuration")

		overrideData, err := os.ReadFile(overridePath)
		if err != nil {
			logger.WithError(err).Warn("Failed to read override file, skipping")
			continue
		}
		override, err := parseConfig([]byte(expandEnvVars(string(overrideData))))
		if err != nil {
			logger.WithError(err).Warn("Failed to parse override file, skipping")
			continue
		}
		cfg = mergeConfigs(cfg, override)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromBytes parses configuration from byte array
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	// Validate the raw document against the embedded schema before decoding,
	// so violations refer to the keys the user actually wrote.
	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	config, err := parseConfig([]byte(expanded))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	// Set defaults
	config.SetDefaults()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err // Already returns structured error from validation
	}

	return config, nil
}

func parseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// FindConfigFile locates the agent configuration file with the following
// precedence:
// 1. WARDEN_CONFIG environment variable
// 2. User config directory (~/.config/warden/warden.yml)
// 3. System config (/etc/warden/warden.yml)
func FindConfigFile() (string, error) {
	if explicit := os.Getenv("WARDEN_CONFIG"); explicit != "" {
		if info, err := os.Stat(explicit); err == nil && !info.IsDir() {
			return explicit, nil
		}
		return "", errors.ConfigNotFound(explicit)
	}

	candidates := []string{}
	if dir := paths.ConfigDir(); dir != "" {
		candidates = append(candidates,
			filepath.Join(dir, "warden.yml"),
			filepath.Join(dir, "warden.yaml"),
		)
	}
	candidates = append(candidates,
		"/etc/warden/warden.yml",
		"/etc/warden/warden.yaml",
	)

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", errors.ConfigNotFound("warden.yml").
		WithDetail("searched", strings.Join(candidates, ", "))
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
