// Package theme holds the fixed set of built-in visual themes and the
// color/geometry values a rendered panel draws with.
package theme

// ARGB is a straight-alpha 32-bit color in 0xAARRGGBB form. internal/raster
// premultiplies it when drawing and writes it in byte order B,G,R,A.
type ARGB uint32

// Theme is an immutable set of visual parameters. Changing themes means
// swapping the reference, never mutating one in place.
type Theme struct {
	Name         string
	Background   ARGB
	Border       ARGB
	TextPrimary  ARGB
	TextSecondary ARGB
	Accent       ARGB
	Opacity      float64
	BorderWidth  float64
	CornerRadius float64
	BlurHint     bool
}

// Built-in themes, values fixed by the specification.
var (
	CosmicDark = Theme{
		Name:          "cosmic_dark",
		Background:    0xFF0D0D0F,
		Border:        0xFF3A3A3F,
		TextPrimary:   0xFFF5F5F5,
		TextSecondary: 0xFFB5B5B8,
		Accent:        0xFF3D8BFD,
		Opacity:       0.90,
		BorderWidth:   1,
		CornerRadius:  8,
	}

	Light = Theme{
		Name:          "light",
		Background:    0xFFF7F7F7,
		Border:        0xFFD8D8D8,
		TextPrimary:   0xFF151515,
		TextSecondary: 0xFF6A6A6A,
		Accent:        0xFF2E7BFA,
		Opacity:       0.95,
		BorderWidth:   1,
		CornerRadius:  8,
	}

	TransparentDark = Theme{
		Name:          "transparent_dark",
		Background:    0xFF0D0D0F,
		Border:        0x00000000,
		TextPrimary:   0xFFF5F5F5,
		TextSecondary: 0xFFB5B5B8,
		Accent:        0xFF3D8BFD,
		Opacity:       0.50,
		BorderWidth:   0,
		CornerRadius:  8,
	}

	TransparentLight = Theme{
		Name:          "transparent_light",
		Background:    0xFFF7F7F7,
		Border:        0x00000000,
		TextPrimary:   0xFF151515,
		TextSecondary: 0xFF6A6A6A,
		Accent:        0xFF2E7BFA,
		Opacity:       0.50,
		BorderWidth:   0,
		CornerRadius:  8,
	}

	Glass = Theme{
		Name:          "glass",
		Background:    0xFF0D0D0F,
		Border:        0xFF2A2A2E,
		TextPrimary:   0xFFF5F5F5,
		TextSecondary: 0xFFB5B5B8,
		Accent:        0xFF3D8BFD,
		Opacity:       0.70,
		BorderWidth:   1,
		CornerRadius:  12,
		BlurHint:      true,
	}
)

// builtins maps the config-file theme name to its value. "custom" is not
// included: it is resolved by the config package from explicit fields.
var builtins = map[string]Theme{
	CosmicDark.Name:       CosmicDark,
	Light.Name:            Light,
	TransparentDark.Name:  TransparentDark,
	TransparentLight.Name: TransparentLight,
	Glass.Name:            Glass,
}

// Lookup returns the built-in theme for name, and whether it was found.
func Lookup(name string) (Theme, bool) {
	t, ok := builtins[name]
	return t, ok
}

// EffectiveOpacity returns the override if set (in [0,1]), else the
// theme's own opacity.
func EffectiveOpacity(t Theme, override *float64) float64 {
	if override != nil {
		return *override
	}
	return t.Opacity
}
