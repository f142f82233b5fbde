package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicyDefaults(t *testing.T) {
	p, err := NewPolicy("shadow", "/etc/shadow")
	require.NoError(t, err)
	assert.True(t, p.AuditOnly)
	assert.False(t, p.WriteOnly)
	assert.False(t, p.IsPrefix)

	_, err = NewPolicy("", "/etc/shadow")
	assert.Error(t, err)
	_, err = NewPolicy("shadow", "")
	assert.Error(t, err)
}

func TestPolicyEqual(t *testing.T) {
	a, err := NewPolicy("shadow", "/etc/shadow")
	require.NoError(t, err)
	a.AllowedTeamIDs = []string{"EQHXZ8M8AV"}

	b, err := NewPolicy("shadow", "/etc/shadow")
	require.NoError(t, err)
	b.AllowedTeamIDs = []string{"EQHXZ8M8AV"}

	assert.True(t, a.Equal(b))

	b.AllowedTeamIDs = []string{"43AQ936H96"}
	assert.False(t, a.Equal(b))

	var nilPolicy *Policy
	assert.False(t, a.Equal(nilPolicy))
	assert.True(t, nilPolicy.Equal(nil))
}

func TestConfigsEqual(t *testing.T) {
	assert.True(t, ConfigsEqual(validDoc(), validDoc()))

	changed := validDoc()
	changed["version"] = "2.0"
	assert.False(t, ConfigsEqual(validDoc(), changed))
}

func TestNormalizeSet(t *testing.T) {
	testCases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"empty strings dropped", []string{"", ""}, nil},
		{"sorted", []string{"b", "a"}, []string{"a", "b"}},
		{"deduplicated", []string{"a", "b", "a"}, []string{"a", "b"}},
		{"mixed", []string{"c", "", "a", "c"}, []string{"a", "c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeSet(tc.in))
		})
	}
}
