package wderr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalKinds(t *testing.T) {
	assert.True(t, KindStartupMissingGlobal.Fatal())
	assert.True(t, KindProtocolLost.Fatal())
	assert.False(t, KindConfigValidate.Fatal())
	assert.False(t, KindFileWatch.Fatal())
}

func TestKindOfRoundTrip(t *testing.T) {
	err := New(KindBufferAlloc, errors.New("mmap failed"))
	assert.Equal(t, KindBufferAlloc, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain error")))
}

func TestNewFieldMessage(t *testing.T) {
	err := NewField(KindConfigValidate, "panel.width", errors.New("out of range"))
	assert.Contains(t, err.Error(), "panel.width")
	assert.Contains(t, err.Error(), "out of range")
	assert.True(t, errors.Is(err, err))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(KindWidgetTick, cause)
	assert.Same(t, cause, errors.Unwrap(err))
}
