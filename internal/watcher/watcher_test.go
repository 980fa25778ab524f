package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-abbreviator/internal/watcher"
)

const testDebounce = 50 * time.Millisecond

func start(t *testing.T, cfg watcher.Config) <-chan []string {
	t.Helper()
	if cfg.Debounce == 0 {
		cfg.Debounce = testDebounce
	}
	w, err := watcher.New(cfg)
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return changes
}

func receive(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-changes:
		return paths
	case <-time.After(2 * time.Second):
		t.Fatal("expected notification but got timeout")
		return nil
	}
}

func absPath(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}

func TestNew_NothingToWatch(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	assert.ErrorIs(t, err, watcher.ErrNothingToWatch)
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "abbreviator.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("abbreviations: []"), 0o644))

	changes := start(t, watcher.Config{Files: []string{cfgPath}})

	// Rapid writes should coalesce into a single notification
	for i := range 10 {
		require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("# %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	paths := receive(t, changes)
	assert.Equal(t, []string{absPath(t, cfgPath)}, paths)

	select {
	case <-changes:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblingsOfWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "abbreviator.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(cfgPath, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	changes := start(t, watcher.Config{Files: []string{cfgPath}})

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case paths := <-changes:
		t.Fatalf("unexpected notification for %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_FileCreatedLater(t *testing.T) {
	dir := t.TempDir()
	glossary := filepath.Join(dir, "glossary.yaml")

	changes := start(t, watcher.Config{Files: []string{glossary}})

	require.NoError(t, os.WriteFile(glossary, []byte("new"), 0o644))
	assert.Contains(t, receive(t, changes), absPath(t, glossary))
}

func TestWatcher_DirectoryTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts"), 0o755))

	changes := start(t, watcher.Config{
		Dirs:  []string{root},
		Match: func(p string) bool { return strings.HasSuffix(p, ".html") },
	})

	// Ignored by Match.
	require.NoError(t, os.WriteFile(filepath.Join(root, "posts", "draft.txt"), []byte("x"), 0o644))
	page := filepath.Join(root, "posts", "a.html")
	require.NoError(t, os.WriteFile(page, []byte("<p>FUBAR</p>"), 0o644))

	paths := receive(t, changes)
	assert.Equal(t, []string{absPath(t, page)}, paths)
}

func TestWatcher_NewSubdirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	changes := start(t, watcher.Config{Dirs: []string{root}})

	sub := filepath.Join(root, "2026")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher time to add the new directory.
	time.Sleep(100 * time.Millisecond)

	page := filepath.Join(sub, "post.md")
	require.NoError(t, os.WriteFile(page, []byte("SNAFU"), 0o644))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changes:
			if assert.NotEmpty(t, paths) && contains(paths, absPath(t, page)) {
				return
			}
		case <-deadline:
			t.Fatal("no notification for file in new subdirectory")
		}
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	dir := t.TempDir()
	w, err := watcher.New(watcher.Config{Dirs: []string{dir}})
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := watcher.New(watcher.Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	assert.Error(t, err)
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}
