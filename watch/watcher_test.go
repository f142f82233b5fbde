package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, path, ruleName string) {
	t.Helper()
	doc := fmt.Sprintf("version: \"1.0\"\nwatch_items:\n  - name: %s\n    path: /etc/passwd\n", ruleName)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func startWatchedStore(t *testing.T, rulesPath string) (*Store, *Watcher) {
	t.Helper()

	source, err := NewFileSource(rulesPath)
	require.NoError(t, err)

	store := New(source, time.Hour)
	require.NoError(t, store.Reload())

	w, err := NewWatcher(store, source.Locator(), 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	go w.Start(ctx)
	return store, w
}

func TestWatcherReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	writeRulesFile(t, rulesPath, "first")

	store, _ := startWatchedStore(t, rulesPath)
	require.Equal(t, uint64(1), store.Rebuilds())

	writeRulesFile(t, rulesPath, "second")

	require.Eventually(t, func() bool {
		return store.Rebuilds() == 2
	}, 3*time.Second, 20*time.Millisecond)

	p, ok := store.FindPolicyForPath("/etc/passwd")
	require.True(t, ok)
	assert.Equal(t, "second", p.Name)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	writeRulesFile(t, rulesPath, "only")

	store, _ := startWatchedStore(t, rulesPath)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, uint64(1), store.Rebuilds())
}

func TestWatcherSurvivesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	writeRulesFile(t, rulesPath, "first")

	store, _ := startWatchedStore(t, rulesPath)

	// Editors often write a temp file and rename it over the original.
	tmpPath := filepath.Join(dir, "rules.yml.tmp")
	writeRulesFile(t, tmpPath, "replaced")
	require.NoError(t, os.Rename(tmpPath, rulesPath))

	require.Eventually(t, func() bool {
		p, ok := store.FindPolicyForPath("/etc/passwd")
		return ok && p.Name == "replaced"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsLastGoodOnMalformedWrite(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	writeRulesFile(t, rulesPath, "good")

	store, _ := startWatchedStore(t, rulesPath)

	require.NoError(t, os.WriteFile(rulesPath, []byte("version: \"1.0\"\nwatch_items:\n  - name: broken\n"), 0o644))

	require.Eventually(t, func() bool {
		return store.LastError() != nil
	}, 3*time.Second, 20*time.Millisecond)

	p, ok := store.FindPolicyForPath("/etc/passwd")
	require.True(t, ok)
	assert.Equal(t, "good", p.Name)
	assert.Equal(t, uint64(1), store.Rebuilds())

	writeRulesFile(t, rulesPath, "fixed")
	require.Eventually(t, func() bool {
		return store.Rebuilds() == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yml")
	writeRulesFile(t, rulesPath, "only")

	source, err := NewFileSource(rulesPath)
	require.NoError(t, err)
	store := New(source, time.Hour)

	w, err := NewWatcher(store, source.Locator(), 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
