package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKnownThemes(t *testing.T) {
	for _, name := range []string{"cosmic_dark", "light", "transparent_dark", "transparent_light", "glass"} {
		th, ok := Lookup(name)
		assert.True(t, ok, "theme %q should be known", name)
		assert.Equal(t, name, th.Name)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("nonexistent")
	assert.False(t, ok)
}

func TestEffectiveOpacityOverride(t *testing.T) {
	override := 0.25
	assert.Equal(t, 0.25, EffectiveOpacity(CosmicDark, &override))
}

func TestEffectiveOpacityDefaultsToTheme(t *testing.T) {
	assert.Equal(t, CosmicDark.Opacity, EffectiveOpacity(CosmicDark, nil))
}
