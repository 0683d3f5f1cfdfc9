// Package config implements the ConfigSource collaborator (§6, §4.11):
// loads and validates the TOML config file describing the panel, theme,
// and widget list.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/surface"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/theme"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/wderr"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 150
	maxDimension  = 10000
)

// Panel is the validated [panel] section.
type Panel struct {
	Width              int
	Height             int
	Position           surface.Position
	ThemeName          string
	CustomTheme        *theme.Theme // populated only when ThemeName == "custom"
	Padding            float64
	Spacing            float64
	BackgroundOpacity  *float64
	Margin             surface.Margin
}

// WidgetEntry is one validated [[widgets]] block.
type WidgetEntry struct {
	Type    string
	Enabled bool
	Config  widget.RawConfig
}

// Config is the fully parsed and validated configuration file.
type Config struct {
	Panel   Panel
	Widgets []WidgetEntry
}

// rawFile mirrors the TOML file shape in §6 before validation.
type rawFile struct {
	Panel struct {
		Width              int      `toml:"width"`
		Height             int      `toml:"height"`
		Position           string   `toml:"position"`
		Theme              string   `toml:"theme"`
		Padding            float64  `toml:"padding"`
		Spacing            float64  `toml:"spacing"`
		BackgroundOpacity  *float64 `toml:"background_opacity"`
		Margin             struct {
			Top    int `toml:"top"`
			Right  int `toml:"right"`
			Bottom int `toml:"bottom"`
			Left   int `toml:"left"`
		} `toml:"margin"`
		Custom struct {
			Background    string `toml:"background"`
			Border        string `toml:"border"`
			TextPrimary   string `toml:"text_primary"`
			TextSecondary string `toml:"text_secondary"`
			Accent        string `toml:"accent"`
			Opacity       float64 `toml:"opacity"`
			CornerRadius  float64 `toml:"corner_radius"`
			BorderWidth   float64 `toml:"border_width"`
		} `toml:"custom_theme"`
	} `toml:"panel"`
	Widgets []struct {
		Type    string         `toml:"type"`
		Enabled *bool          `toml:"enabled"`
		Config  map[string]any `toml:"config"`
	} `toml:"widgets"`
}

// DefaultPath returns $XDG_CONFIG_HOME/cosmic-desktop-widget/config.toml,
// falling back to $HOME/.config/cosmic-desktop-widget/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cosmic-desktop-widget", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cosmic-desktop-widget", "config.toml"), nil
}

// Source implements the ConfigSource collaborator interface.
type Source struct{}

// Load parses and validates the TOML file at path.
func (Source) Load(path string) (Config, error) {
	return Load(path)
}

// Load parses and validates the TOML file at path, per §6/§7. Parse
// failures are KindConfigParse; validation failures are KindConfigValidate
// and name the offending field.
func Load(path string) (Config, error) {
	var raw rawFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, wderr.New(wderr.KindConfigParse, err)
	}
	return validate(raw)
}

func validate(raw rawFile) (Config, error) {
	var cfg Config

	width := raw.Panel.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width < 1 || width > maxDimension {
		return Config{}, wderr.NewField(wderr.KindConfigValidate, "panel.width", fmt.Errorf("must be in 1..=%d, got %d", maxDimension, width))
	}

	height := raw.Panel.Height
	if height == 0 {
		height = DefaultHeight
	}
	if height < 1 || height > maxDimension {
		return Config{}, wderr.NewField(wderr.KindConfigValidate, "panel.height", fmt.Errorf("must be in 1..=%d, got %d", maxDimension, height))
	}

	posStr := raw.Panel.Position
	if posStr == "" {
		posStr = "top-right"
	}
	pos, err := surface.ParsePosition(posStr)
	if err != nil {
		return Config{}, wderr.NewField(wderr.KindConfigValidate, "panel.position", err)
	}

	themeName := raw.Panel.Theme
	if themeName == "" {
		themeName = theme.CosmicDark.Name
	}
	var customTheme *theme.Theme
	if themeName == "custom" {
		t, err := parseCustomTheme(raw)
		if err != nil {
			return Config{}, err
		}
		customTheme = &t
	} else if _, ok := theme.Lookup(themeName); !ok {
		return Config{}, wderr.NewField(wderr.KindConfigValidate, "panel.theme", fmt.Errorf("unknown theme %q", themeName))
	}

	if raw.Panel.BackgroundOpacity != nil {
		o := *raw.Panel.BackgroundOpacity
		if o < 0 || o > 1 {
			return Config{}, wderr.NewField(wderr.KindConfigValidate, "panel.background_opacity", fmt.Errorf("must be in [0,1], got %v", o))
		}
	}

	cfg.Panel = Panel{
		Width:             width,
		Height:            height,
		Position:          pos,
		ThemeName:         themeName,
		CustomTheme:       customTheme,
		Padding:           raw.Panel.Padding,
		Spacing:           raw.Panel.Spacing,
		BackgroundOpacity: raw.Panel.BackgroundOpacity,
		Margin: surface.Margin{
			Top:    int32(raw.Panel.Margin.Top),
			Right:  int32(raw.Panel.Margin.Right),
			Bottom: int32(raw.Panel.Margin.Bottom),
			Left:   int32(raw.Panel.Margin.Left),
		},
	}

	for _, w := range raw.Widgets {
		enabled := true
		if w.Enabled != nil {
			enabled = *w.Enabled
		}
		cfg.Widgets = append(cfg.Widgets, WidgetEntry{
			Type:    w.Type,
			Enabled: enabled,
			Config:  widget.RawConfig(w.Config),
		})
	}

	return cfg, nil
}

func parseCustomTheme(raw rawFile) (theme.Theme, error) {
	c := raw.Panel.Custom
	bg, err := parseHexColor(c.Background)
	if err != nil {
		return theme.Theme{}, wderr.NewField(wderr.KindConfigValidate, "panel.custom_theme.background", err)
	}
	border, err := parseHexColor(c.Border)
	if err != nil {
		return theme.Theme{}, wderr.NewField(wderr.KindConfigValidate, "panel.custom_theme.border", err)
	}
	primary, err := parseHexColor(c.TextPrimary)
	if err != nil {
		return theme.Theme{}, wderr.NewField(wderr.KindConfigValidate, "panel.custom_theme.text_primary", err)
	}
	secondary, err := parseHexColor(c.TextSecondary)
	if err != nil {
		return theme.Theme{}, wderr.NewField(wderr.KindConfigValidate, "panel.custom_theme.text_secondary", err)
	}
	accent, err := parseHexColor(c.Accent)
	if err != nil {
		return theme.Theme{}, wderr.NewField(wderr.KindConfigValidate, "panel.custom_theme.accent", err)
	}
	opacity := c.Opacity
	if opacity == 0 {
		opacity = 1
	}
	return theme.Theme{
		Name:          "custom",
		Background:    bg,
		Border:        border,
		TextPrimary:   primary,
		TextSecondary: secondary,
		Accent:        accent,
		Opacity:       opacity,
		BorderWidth:   c.BorderWidth,
		CornerRadius:  c.CornerRadius,
	}, nil
}

func parseHexColor(s string) (theme.ARGB, error) {
	if s == "" {
		return 0xFF000000, nil
	}
	var a, r, g, b uint32 = 0xFF, 0, 0, 0
	hex := s
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	n, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	if err != nil || n != 3 {
		return 0, fmt.Errorf("invalid hex color %q", s)
	}
	return theme.ARGB((a << 24) | (r << 16) | (g << 8) | b), nil
}
