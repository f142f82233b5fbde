package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		t.Fatalf("GenerateSchema failed: %v", err)
	}

	var schema map[string]interface{}
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		t.Fatalf("generated schema is not valid JSON: %v", err)
	}

	// Test basic structure
	if schema["$schema"] != "http://json-schema.org/draft-07/schema#" {
		t.Errorf("expected JSON Schema draft-07, got %v", schema["$schema"])
	}

	if schema["type"] != "object" {
		t.Errorf("expected root type to be object, got %v", schema["type"])
	}

	// Test properties exist
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("expected properties to be defined")
	}

	for _, key := range []string{"version", "watch", "daemon", "tui"} {
		if _, ok := props[key]; !ok {
			t.Errorf("expected '%s' property in base schema", key)
		}
	}

	// Extensions are inline keys, so the root must tolerate extra properties
	if v, ok := schema["additionalProperties"]; ok && v == false {
		t.Error("expected additionalProperties to remain allowed at the root")
	}
}
