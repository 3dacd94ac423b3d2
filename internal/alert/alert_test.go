package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink_DeduplicatesByMessage(t *testing.T) {
	sink := NewSink()

	assert.True(t, sink.Warnf("storage unavailable: %s", "disk full"))
	assert.False(t, sink.Warnf("storage unavailable: %s", "disk full"), "identical message is suppressed")
	assert.True(t, sink.Warnf("storage unavailable: %s", "permission denied"), "different message still emits")
}

func TestSink_Reset(t *testing.T) {
	sink := NewSink()

	assert.True(t, sink.Warnf("dropped invalid card"))
	assert.False(t, sink.Warnf("dropped invalid card"))

	sink.Reset()
	assert.True(t, sink.Warnf("dropped invalid card"), "reset forgets past messages")
}
