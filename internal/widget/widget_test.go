package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentEqual(t *testing.T) {
	a := TextContent("12:00", SizeLarge)
	b := TextContent("12:00", SizeLarge)
	c := TextContent("12:01", SizeLarge)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(EmptyContent()))
}

func TestContentEqualMultiLine(t *testing.T) {
	a := MultiLineContent([]Line{{Text: "x", Size: SizeMedium}})
	b := MultiLineContent([]Line{{Text: "x", Size: SizeMedium}})
	c := MultiLineContent([]Line{{Text: "x", Size: SizeMedium}, {Text: "y", Size: SizeSmall}})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestProgressContentClamps(t *testing.T) {
	assert.Equal(t, 1.0, ProgressContent(1.5, "").Value)
	assert.Equal(t, 0.0, ProgressContent(-0.5, "").Value)
}

func TestRegistryKnownAndUnknown(t *testing.T) {
	assert.True(t, Known("clock"))
	assert.False(t, Known("bogus"))
	_, err := New("bogus", RawConfig{}, Deps{})
	assert.Error(t, err)
}

func TestClockFormats(t *testing.T) {
	fixed := time.Date(2026, 7, 31, 13, 5, 9, 0, time.UTC)
	w, err := New("clock", RawConfig{"format": "24h", "show_seconds": true}, Deps{Now: func() time.Time { return fixed }})
	require.NoError(t, err)
	w.Tick()
	assert.Equal(t, TextContent("13:05:09", SizeLarge), w.Content())
	assert.Equal(t, time.Second, w.UpdateInterval())
}

func TestClockRejectsUnknownFormat(t *testing.T) {
	_, err := New("clock", RawConfig{"format": "banana"}, Deps{})
	assert.Error(t, err)
}

func TestQuotesClickAdvances(t *testing.T) {
	w, err := New("quotes", RawConfig{}, Deps{})
	require.NoError(t, err)
	first := w.Content()

	action := w.OnClick(MouseLeft, 0, 0)
	assert.Equal(t, NextItem(), action)
	assert.NotEqual(t, first, w.Content())
}

func TestQuotesScrollDirection(t *testing.T) {
	w, err := New("quotes", RawConfig{}, Deps{})
	require.NoError(t, err)

	down := w.OnScroll(ScrollDown, 0, 0)
	assert.Equal(t, ActionNextItem, down.Kind)

	up := w.OnScroll(ScrollUp, 0, 0)
	assert.Equal(t, ActionPreviousItem, up.Kind)
}

func TestQuotesRightClickIsNoOp(t *testing.T) {
	w, err := New("quotes", RawConfig{}, Deps{})
	require.NoError(t, err)
	before := w.Content()
	action := w.OnClick(MouseRight, 0, 0)
	assert.Equal(t, NoAction(), action)
	assert.Equal(t, before, w.Content())
}

func TestCountdownParsesDateOnlyLayout(t *testing.T) {
	w, err := New("countdown", RawConfig{"label": "Launch", "target_date": "2099-01-01"}, Deps{})
	require.NoError(t, err)
	assert.NotEqual(t, EmptyContent(), w.Content())
}

func TestCountdownRejectsBadDate(t *testing.T) {
	_, err := New("countdown", RawConfig{"label": "x", "target_date": "not-a-date"}, Deps{})
	assert.Error(t, err)
}

func TestWeatherNoAPIKey(t *testing.T) {
	w, err := New("weather", RawConfig{"city": "Oslo"}, Deps{})
	require.NoError(t, err)
	w.Tick()
	content := w.Content()
	require.Equal(t, KindText, content.Kind)
	assert.Contains(t, content.Text.Text, "no api key")
}

func TestSystemMonitorFloorsUpdateInterval(t *testing.T) {
	w, err := New("system_monitor", RawConfig{"update_interval": 0}, Deps{})
	require.NoError(t, err)
	assert.Equal(t, time.Second, w.UpdateInterval())
}
