package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardentools/core/errors"
)

func mustPolicy(t *testing.T, name, path string, prefix bool) *Policy {
	t.Helper()
	p, err := NewPolicy(name, path)
	require.NoError(t, err)
	p.IsPrefix = prefix
	return p
}

func TestBuildIndexLookup(t *testing.T) {
	exact := mustPolicy(t, "ls", "/usr/bin/ls", false)
	tree := mustPolicy(t, "bin", "/usr/bin", true)

	index, monitored, err := BuildIndex([]*Policy{exact, tree})
	require.NoError(t, err)
	assert.Equal(t, 2, index.Len())
	assert.Equal(t, []string{"/usr/bin", "/usr/bin/ls"}, monitored)

	got, ok := index.Find("/usr/bin/ls")
	require.True(t, ok)
	assert.Same(t, exact, got, "exact rule should beat the covering prefix")

	got, ok = index.Find("/usr/bin/cat")
	require.True(t, ok)
	assert.Same(t, tree, got)

	_, ok = index.Find("/etc/passwd")
	assert.False(t, ok)
}

func TestBuildIndexConflictingExactPaths(t *testing.T) {
	first := mustPolicy(t, "first", "/tmp/f", false)
	second := mustPolicy(t, "second", "/tmp/f", false)

	_, _, err := BuildIndex([]*Policy{first, second})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuleConflictingPaths))
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestBuildIndexDuplicatePrefixFirstWins(t *testing.T) {
	first := mustPolicy(t, "first", "/srv/data", true)
	second := mustPolicy(t, "second", "/srv/data", true)

	index, _, err := BuildIndex([]*Policy{first, second})
	require.NoError(t, err)

	got, ok := index.Find("/srv/data/db")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestBuildIndexExactAndPrefixShareAPath(t *testing.T) {
	exact := mustPolicy(t, "dir-itself", "/srv/data", false)
	tree := mustPolicy(t, "dir-contents", "/srv/data", true)

	index, monitored, err := BuildIndex([]*Policy{exact, tree})
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/data"}, monitored, "shared path should be deduplicated")

	got, ok := index.Find("/srv/data")
	require.True(t, ok)
	assert.Same(t, exact, got)

	got, ok = index.Find("/srv/data/db")
	require.True(t, ok)
	assert.Same(t, tree, got)
}

func TestBuildIndexMonitoredSorted(t *testing.T) {
	policies := []*Policy{
		mustPolicy(t, "c", "/c", false),
		mustPolicy(t, "a", "/a", true),
		mustPolicy(t, "b", "/b", false),
	}

	_, monitored, err := BuildIndex(policies)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/c"}, monitored)
}

func TestNilIndex(t *testing.T) {
	var index *Index
	_, ok := index.Find("/anything")
	assert.False(t, ok)
	assert.Equal(t, 0, index.Len())
}
