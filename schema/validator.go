package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed definitions/base.schema.json
var baseSchemaData []byte

//go:embed definitions/rules.schema.json
var rulesSchemaData []byte

// Violation is a single schema violation. Location is a JSON pointer into
// the validated document ("" for the document root).
type Violation struct {
	Location string
	Message  string
}

// Validator validates a document against an embedded JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a validator for the agent configuration file,
// loading the embedded schema.
func NewValidator() (*Validator, error) {
	return newValidator("warden.json", baseSchemaData)
}

// NewRulesValidator creates a validator for watch rules documents.
func NewRulesValidator() (*Validator, error) {
	return newValidator("rules.json", rulesSchemaData)
}

func newValidator(name string, data []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate validates a document against the schema and returns a single
// error listing every violation. The document may be any value that
// marshals to JSON.
func (v *Validator) Validate(doc interface{}) error {
	violations, err := v.Check(doc)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}

	messages := make([]string, 0, len(violations))
	for _, viol := range violations {
		loc := viol.Location
		if loc == "" {
			loc = "/"
		}
		messages = append(messages, fmt.Sprintf("- %s: %s", loc, viol.Message))
	}
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
}

// Check validates a document and returns the individual violations so
// callers can attribute them to parts of the document. A nil slice means
// the document is valid.
func (v *Validator) Check(doc interface{}) ([]Violation, error) {
	// Round-trip through JSON so the validator sees plain JSON-like values
	// regardless of what the YAML or TOML decoder produced.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document for validation: %w", err)
	}

	var instance interface{}
	if err := json.Unmarshal(jsonData, &instance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document for validation: %w", err)
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return nil, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var violations []Violation
	collectViolations(validationErr, &violations)
	return violations, nil
}

// collectViolations walks the validation error tree and keeps the leaf
// causes. Interior nodes only restate which subschema failed; the leaves
// carry the actionable message.
func collectViolations(err *jsonschema.ValidationError, violations *[]Violation) {
	if len(err.Causes) == 0 {
		*violations = append(*violations, Violation{
			Location: err.InstanceLocation,
			Message:  err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, violations)
	}
}
