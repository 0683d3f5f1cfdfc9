package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o644))

	w, err := New(path, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))

	select {
	case <-w.Events:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload event after writing the watched file")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o644))

	w, err := New(path, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	select {
	case <-w.Events:
		t.Fatal("unrelated file must not trigger a reload event")
	case <-time.After(300 * time.Millisecond):
	}
}
