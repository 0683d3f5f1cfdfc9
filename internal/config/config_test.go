package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/surface"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTemp(t, `
[panel]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, cfg.Panel.Width)
	assert.Equal(t, DefaultHeight, cfg.Panel.Height)
	assert.Equal(t, surface.PositionTopRight, cfg.Panel.Position)
	assert.Equal(t, "cosmic_dark", cfg.Panel.ThemeName)
}

func TestLoadWidgetsDefaultToEnabled(t *testing.T) {
	path := writeTemp(t, `
[panel]
width = 300
height = 120

[[widgets]]
type = "clock"

[[widgets]]
type = "weather"
enabled = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Widgets, 2)
	assert.True(t, cfg.Widgets[0].Enabled)
	assert.False(t, cfg.Widgets[1].Enabled)
}

func TestLoadRejectsOutOfRangeWidth(t *testing.T) {
	path := writeTemp(t, `
[panel]
width = 99999
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownPosition(t *testing.T) {
	path := writeTemp(t, `
[panel]
position = "north-by-northwest"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	path := writeTemp(t, `
[panel]
theme = "nonexistent"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadCustomTheme(t *testing.T) {
	path := writeTemp(t, `
[panel]
theme = "custom"

[panel.custom_theme]
background = "#112233"
border = "#445566"
text_primary = "#ffffff"
text_secondary = "#cccccc"
accent = "#ff0000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Panel.CustomTheme)
	assert.Equal(t, 1.0, cfg.Panel.CustomTheme.Opacity)
}

func TestLoadInvalidBackgroundOpacity(t *testing.T) {
	path := writeTemp(t, `
[panel]
background_opacity = 1.5
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadParseFailure(t *testing.T) {
	path := writeTemp(t, "this is not [valid toml")
	_, err := Load(path)
	assert.Error(t, err)
}
