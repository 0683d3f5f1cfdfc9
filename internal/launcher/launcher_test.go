package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenURLUsesXDGOpenWhenOnPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("xdg-open is a Linux desktop convention")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "xdg-open")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	t.Setenv("PATH", dir)
	err := OS{}.OpenURL("https://example.com")
	assert.NoError(t, err)
}

func TestOpenURLFallsBackToBrowserEnv(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "my-browser")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	t.Setenv("PATH", dir) // no xdg-open here
	t.Setenv("BROWSER", stub)
	err := OS{}.OpenURL("https://example.com")
	assert.NoError(t, err)
}

func TestRunCommandUsesShellEnv(t *testing.T) {
	t.Setenv("SHELL", "/bin/sh")
	err := OS{}.RunCommand("exit 0")
	assert.NoError(t, err)
}
