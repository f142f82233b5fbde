package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the base JSON Schema for the warden.yml
// configuration. It reflects a trimmed copy of Config that omits the
// 'Extensions' field; unknown top-level keys stay legal because extension
// sections (logging, tui plugins) live inline.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extension sections are arbitrary top-level keys, so additional
		// properties must remain allowed.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// Create a temporary struct that omits the Extensions field
	// so it's not included in the base schema.
	type BaseConfig struct {
		Version string        `yaml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
		Watch   WatchConfig   `yaml:"watch,omitempty" jsonschema:"description=Watch-item policy store settings"`
		Daemon  *DaemonConfig `yaml:"daemon,omitempty" jsonschema:"description=Agent daemon settings"`
		TUI     *TUIConfig    `yaml:"tui,omitempty" jsonschema:"description=CLI appearance settings"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Warden Agent Configuration"
	schema.Description = "Base schema for core warden.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
