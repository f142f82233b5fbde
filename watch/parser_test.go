package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardentools/core/errors"
)

func validDoc() map[string]interface{} {
	return map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{
				"name":       "etc-shadow",
				"path":       "/etc/shadow",
				"write_only": true,
				"audit_only": false,
			},
			map[string]interface{}{
				"name":             "usr-bin",
				"path":             "/usr/bin/",
				"is_prefix":        true,
				"allowed_team_ids": []interface{}{"EQHXZ8M8AV", "43AQ936H96", "EQHXZ8M8AV"},
			},
		},
	}
}

func TestParseConfigValidDocument(t *testing.T) {
	policies, err := ParseConfig(validDoc())
	require.NoError(t, err)
	require.Len(t, policies, 2)

	shadow := policies[0]
	assert.Equal(t, "etc-shadow", shadow.Name)
	assert.Equal(t, "/etc/shadow", shadow.Path)
	assert.True(t, shadow.WriteOnly)
	assert.False(t, shadow.AuditOnly)
	assert.False(t, shadow.IsPrefix)

	bin := policies[1]
	assert.Equal(t, "/usr/bin", bin.Path, "trailing slash should be cleaned away")
	assert.True(t, bin.IsPrefix)
	assert.True(t, bin.AuditOnly, "audit_only should default to true")
	assert.False(t, bin.WriteOnly)
	assert.Equal(t, []string{"43AQ936H96", "EQHXZ8M8AV"}, bin.AllowedTeamIDs,
		"allow-lists should come out sorted and deduplicated")
}

func TestParseConfigEmptyRuleList(t *testing.T) {
	policies, err := ParseConfig(map[string]interface{}{"version": "1.0"})
	require.NoError(t, err)
	assert.Empty(t, policies)
}

func TestParseConfigNilDocument(t *testing.T) {
	_, err := ParseConfig(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestParseConfigMissingVersion(t *testing.T) {
	doc := validDoc()
	delete(doc, "version")

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestParseConfigMissingPath(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "good", "path": "/etc/hosts"},
			map[string]interface{}{"name": "broken"},
		},
	}

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleMalformed))
	assert.Contains(t, err.Error(), "index 1")
}

func TestParseConfigWrongPathType(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "bad", "path": 42},
		},
	}

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleMalformed))
}

func TestParseConfigUnknownRuleKey(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "typo", "path": "/etc/hosts", "audit_onli": true},
		},
	}

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleMalformed))
}

func TestParseConfigRelativePath(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "rel", "path": "etc/shadow"},
		},
	}

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleMalformed))
	assert.Contains(t, err.Error(), "absolute")
}

func TestParseConfigDuplicateName(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "same", "path": "/etc/hosts"},
			map[string]interface{}{"name": "same", "path": "/etc/passwd"},
		},
	}

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleDuplicateName))
	assert.Contains(t, err.Error(), "same")
}

func TestParseConfigBlankName(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "   ", "path": "/etc/hosts"},
		},
	}

	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleMalformed))
}

func TestParseConfigCleansDotSegments(t *testing.T) {
	doc := map[string]interface{}{
		"version": "1.0",
		"watch_items": []interface{}{
			map[string]interface{}{"name": "dots", "path": "/var/../etc//hosts"},
		},
	}

	policies, err := ParseConfig(doc)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, "/etc/hosts", policies[0].Path)
}
