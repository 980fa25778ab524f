package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWatchSession builds a session over dir/site with the test config.
func newWatchSession(t *testing.T, env *testEnv, exclude ...string) (s *session, src, cfgPath string) {
	t.Helper()

	dir, cfgPath := setupProject(t)
	src = filepath.Join(dir, "site")
	writeFile(t, filepath.Join(src, "page.html"), "<p>FUBAR</p>")

	s, err := newSession(context.Background(), sessionFlags{
		common: commonFlags{config: cfgPath, quiet: true},
		source: sourceFlags{exclude: exclude},
		style:  styleFlags{noStyle: true},
	}, []string{src}, env.Environment)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, src, cfgPath
}

func TestSession_FileFor(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	s, src, cfgPath := newWatchSession(t, env, "drafts/**")
	writeFile(t, filepath.Join(src, "drafts", "wip.md"), "FUBAR")
	writeFile(t, filepath.Join(src, "posts", "a.md"), "FUBAR")
	writeFile(t, filepath.Join(src, "page.abbr.html"), "FUBAR")
	writeFile(t, filepath.Join(src, "notes.txt"), "FUBAR")

	file, ok := s.fileFor(filepath.Join(src, "posts", "a.md"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(src, "posts", "a.abbr.html"), file.OutputPath)

	for _, path := range []string{
		filepath.Join(src, "drafts", "wip.md"),
		filepath.Join(src, "page.abbr.html"),
		filepath.Join(src, "notes.txt"),
		filepath.Join(src, "missing.html"),
		filepath.Join(src, "posts"),
		cfgPath,
	} {
		_, ok := s.fileFor(path)
		assert.False(t, ok, "fileFor(%s)", path)
	}
}

func TestSession_HandleChanges(t *testing.T) {
	t.Parallel()

	t.Run("changed source is processed", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		s, src, _ := newWatchSession(t, env)
		added := writeFile(t, filepath.Join(src, "new.html"), "<p>SNAFU</p>")

		s.handleChanges(context.Background(), []string{added}, commonFlags{quiet: true}, env.Environment)

		assert.Equal(t, "<p>"+snafuTag+"</p>", readFile(t, filepath.Join(src, "new.abbr.html")))
		_, err := os.Stat(filepath.Join(src, "page.abbr.html"))
		assert.True(t, os.IsNotExist(err), "unchanged source should not be reprocessed")
	})

	t.Run("config change reloads and reprocesses everything", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		s, src, cfgPath := newWatchSession(t, env)
		writeFile(t, cfgPath, `abbreviations:
  - abbreviation: FUBAR
    meaning: Fixed Up Better
`)

		s.handleChanges(context.Background(), []string{cfgPath}, commonFlags{quiet: true}, env.Environment)

		assert.Equal(t, `<p><abbr title="Fixed Up Better">FUBAR</abbr></p>`, readFile(t, filepath.Join(src, "page.abbr.html")))
		assert.Equal(t, 1, s.processor.Registry().Len())
	})

	t.Run("invalid config keeps previous abbreviations", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		s, src, cfgPath := newWatchSession(t, env)
		writeFile(t, cfgPath, `abbreviations:
  - abbreviation: FUBAR
    meaning: one
  - abbreviation: FUBAR
    meaning: two
`)

		s.handleChanges(context.Background(), []string{cfgPath}, commonFlags{quiet: true}, env.Environment)

		assert.Contains(t, env.stderr.String(), "keeping previous abbreviations")
		assert.Equal(t, "<p>"+fubarTag+"</p>", readFile(t, filepath.Join(src, "page.abbr.html")))
	})
}

func TestRunWatch(t *testing.T) {
	t.Parallel()

	dir, cfgPath := setupProject(t)
	src := filepath.Join(dir, "site")
	writeFile(t, filepath.Join(src, "page.html"), "<p>FUBAR</p>")

	ctx, cancel := context.WithCancel(context.Background())
	env := newTestEnv()
	done := make(chan int, 1)
	go func() {
		done <- runMain(ctx, []string{"abbreviator", "watch", "-q", "-c", cfgPath, "--no-style", "--debounce", "10ms", src}, env.Environment)
	}()

	// The initial apply runs before the watcher starts.
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(src, "page.abbr.html"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	// Keep touching the source until the watcher has seen it.
	added := filepath.Join(src, "added.html")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(added, []byte("<p>SNAFU</p>"), 0o644)
		data, err := os.ReadFile(filepath.Join(src, "added.abbr.html"))
		return err == nil && strings.Contains(string(data), snafuTag)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitSuccess, code, "stderr: %s", env.stderr)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestRunWatch_InvalidDebounce(t *testing.T) {
	t.Parallel()

	dir, cfgPath := setupProject(t)
	writeFile(t, filepath.Join(dir, "page.html"), "FUBAR")

	env := newTestEnv()
	assert.Equal(t, ExitUsage, env.run(t, "watch", "-c", cfgPath, "--debounce", "soon", dir))
}
