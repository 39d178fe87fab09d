package realtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamHappyPath(t *testing.T) {
	s := NewStream()
	assert.Equal(t, Disconnected, s.State())

	assert.True(t, s.BeginSubscribe())
	assert.Equal(t, Subscribing, s.State())

	assert.True(t, s.Deliver())
	assert.Equal(t, Live, s.State())

	// Later deliveries keep the stream live.
	assert.True(t, s.Deliver())
	assert.Equal(t, Live, s.State())
	assert.NoError(t, s.Err())
}

func TestStreamBeginSubscribeOnlyFromDisconnected(t *testing.T) {
	s := NewStream()
	assert.True(t, s.BeginSubscribe())
	assert.False(t, s.BeginSubscribe())

	s.Deliver()
	assert.False(t, s.BeginSubscribe())
}

func TestStreamDeliverBeforeSubscribeIgnored(t *testing.T) {
	s := NewStream()
	assert.False(t, s.Deliver())
	assert.Equal(t, Disconnected, s.State())
}

func TestStreamFailureIsTerminal(t *testing.T) {
	s := NewStream()
	s.BeginSubscribe()
	s.Deliver()

	first := errors.New("permission denied")
	s.Fail(first)
	assert.Equal(t, Failed, s.State())
	assert.Equal(t, first, s.Err())

	// No automatic retry: deliveries after failure are dropped and the
	// first error is kept.
	assert.False(t, s.Deliver())
	s.Fail(errors.New("second"))
	assert.Equal(t, first, s.Err())
	assert.False(t, s.BeginSubscribe())
}

func TestStreamStateStrings(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "subscribing", Subscribing.String())
	assert.Equal(t, "live", Live.String())
	assert.Equal(t, "error", Failed.String())
}
