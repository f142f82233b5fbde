package watch

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// RulesDocument is the wire form of a watch rules document. The parser
// decodes the generic mapping produced by a rules source into these types;
// the schema generator reflects them into schema/definitions.
type RulesDocument struct {
	Version    string      `yaml:"version" toml:"version" jsonschema:"minLength=1,description=Rules document version"`
	WatchItems []WatchItem `yaml:"watch_items,omitempty" toml:"watch_items,omitempty" jsonschema:"description=Ordered list of watch rules"`
}

// WatchItem is the wire form of a single rule.
type WatchItem struct {
	Name                      string   `yaml:"name" toml:"name" jsonschema:"minLength=1,description=Unique rule name"`
	Path                      string   `yaml:"path" toml:"path" jsonschema:"minLength=1,description=Absolute filesystem path or prefix this rule governs"`
	WriteOnly                 bool     `yaml:"write_only,omitempty" toml:"write_only,omitempty" jsonschema:"description=Apply the rule to write operations only,default=false"`
	IsPrefix                  bool     `yaml:"is_prefix,omitempty" toml:"is_prefix,omitempty" jsonschema:"description=Match every path beginning with path instead of the exact path,default=false"`
	AuditOnly                 bool     `yaml:"audit_only,omitempty" toml:"audit_only,omitempty" jsonschema:"description=Log violations without blocking,default=true"`
	AllowedBinaryPaths        []string `yaml:"allowed_binary_paths,omitempty" toml:"allowed_binary_paths,omitempty" jsonschema:"description=Executable paths exempt from this rule"`
	AllowedCertificatesSha256 []string `yaml:"allowed_certificates_sha256,omitempty" toml:"allowed_certificates_sha256,omitempty" jsonschema:"description=Signing certificate SHA-256 hashes exempt from this rule"`
	AllowedTeamIDs            []string `yaml:"allowed_team_ids,omitempty" toml:"allowed_team_ids,omitempty" jsonschema:"description=Code-signing team identifiers exempt from this rule"`
	AllowedCDHashes           []string `yaml:"allowed_cdhashes,omitempty" toml:"allowed_cdhashes,omitempty" jsonschema:"description=Code directory hashes exempt from this rule"`
}

// GenerateRulesSchema generates the JSON Schema for the watch rules
// document. Unknown keys are rejected: a typo in a rules file must fail the
// reload rather than silently weaken a policy.
func GenerateRulesSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for the root.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	schema := r.Reflect(&RulesDocument{})
	schema.Title = "Warden Watch Rules"
	schema.Description = "Schema for the watch rules document applied by the warden agent."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
