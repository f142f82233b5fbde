package watch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/util/pathutil"
	"gopkg.in/yaml.v3"
)

// RulesSource supplies raw rules documents to the store. Implementations
// must be safe for repeated Load calls; the store calls Load on every
// reload cycle.
type RulesSource interface {
	// Load materializes the current rules document as a generic mapping.
	Load() (map[string]interface{}, error)

	// Locator identifies the source in logs and errors, typically a file
	// path or "inline".
	Locator() string
}

// FileSource reads rules from a YAML, TOML or JSON document on disk. The
// format is chosen by file extension, defaulting to YAML.
type FileSource struct {
	path string
}

// NewFileSource expands the given path (~, environment variables) and
// returns a source reading from it. The file does not need to exist yet;
// missing files surface as load errors on each reload attempt.
func NewFileSource(path string) (*FileSource, error) {
	expanded, err := pathutil.Expand(path)
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	return &FileSource{path: expanded}, nil
}

// Locator returns the expanded rules file path.
func (s *FileSource) Locator() string {
	return s.path
}

// Load reads and decodes the rules file.
func (s *FileSource) Load() (map[string]interface{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.ConfigLoadFailed(s.path, err)
	}

	raw := make(map[string]interface{})
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.ConfigLoadFailed(s.path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.ConfigLoadFailed(s.path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.ConfigLoadFailed(s.path, err)
		}
	}
	return raw, nil
}

// StaticSource serves a fixed in-memory rules document. The agent uses it
// for rules embedded directly under the watch section of warden.yml.
type StaticSource struct {
	raw map[string]interface{}
}

// NewStaticSource wraps an inline rules document. The document is shared,
// not copied; callers must not mutate it afterwards.
func NewStaticSource(raw map[string]interface{}) *StaticSource {
	return &StaticSource{raw: raw}
}

// Locator identifies inline documents in logs.
func (s *StaticSource) Locator() string {
	return "inline"
}

// Load returns the wrapped document.
func (s *StaticSource) Load() (map[string]interface{}, error) {
	if s.raw == nil {
		return nil, errors.ConfigLoadFailed("inline", fmt.Errorf("no rules configured"))
	}
	return s.raw, nil
}
