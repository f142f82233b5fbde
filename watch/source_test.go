package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardentools/core/errors"
)

func TestFileSourceFormats(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{
			"yaml",
			"rules.yml",
			"version: \"1.0\"\nwatch_items:\n  - name: hosts\n    path: /etc/hosts\n",
		},
		{
			"toml",
			"rules.toml",
			"version = \"1.0\"\n\n[[watch_items]]\nname = \"hosts\"\npath = \"/etc/hosts\"\n",
		},
		{
			"json",
			"rules.json",
			`{"version": "1.0", "watch_items": [{"name": "hosts", "path": "/etc/hosts"}]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			source, err := NewFileSource(path)
			require.NoError(t, err)
			assert.Equal(t, path, source.Locator())

			raw, err := source.Load()
			require.NoError(t, err)

			policies, err := ParseConfig(raw)
			require.NoError(t, err)
			require.Len(t, policies, 1)
			assert.Equal(t, "hosts", policies[0].Name)
			assert.Equal(t, "/etc/hosts", policies[0].Path)
		})
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	source, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err, "a missing file is a load-time failure, not a construction one")

	_, err = source.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigLoadFailed))
}

func TestFileSourceInvalidSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0o644))

	source, err := NewFileSource(path)
	require.NoError(t, err)

	_, err = source.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigLoadFailed))
}

func TestStaticSource(t *testing.T) {
	source := NewStaticSource(passwdDoc())
	assert.Equal(t, "inline", source.Locator())

	raw, err := source.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.0", raw["version"])

	empty := NewStaticSource(nil)
	_, err = empty.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigLoadFailed))
}
