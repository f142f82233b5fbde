// Package testutil provides shared scaffolding for warden tests.
package testutil

import (
	"os"
	"testing"
)

// Main runs a package's tests inside a throwaway WARDEN_HOME so component
// loggers and state files stay out of the real one. Call it from TestMain:
//
//	func TestMain(m *testing.M) { testutil.Main(m) }
func Main(m *testing.M) {
	dir, err := os.MkdirTemp("", "warden-test")
	if err != nil {
		panic(err)
	}
	os.Setenv("WARDEN_HOME", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// RulesDoc builds a raw rules document around the given watch items, shaped
// the way a parsed rules file arrives.
func RulesDoc(items ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, len(items))
	for i, item := range items {
		list[i] = item
	}
	return map[string]interface{}{
		"version":     "1.0",
		"watch_items": list,
	}
}

// Item builds one watch item for RulesDoc. Optional fields follow as
// key/value pairs:
//
//	testutil.Item("bin", "/usr/bin", "is_prefix", true)
func Item(name, path string, extra ...interface{}) map[string]interface{} {
	item := map[string]interface{}{"name": name, "path": path}
	for i := 0; i+1 < len(extra); i += 2 {
		key, ok := extra[i].(string)
		if !ok {
			panic("testutil.Item: option keys must be strings")
		}
		item[key] = extra[i+1]
	}
	return item
}
