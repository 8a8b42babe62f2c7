package headless

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gb-emu/host"
)

func TestClosesAfterFrames(t *testing.T) {
	w := New(host.Config{Width: 160, Height: 144}, 2)
	assert.Equal(t, 160, w.ScreenWidth())

	assert.Equal(t, host.EventNone, w.PollEvent().Type)
	assert.NoError(t, w.SwapBuffers())
	assert.Equal(t, host.EventNone, w.PollEvent().Type)
	assert.NoError(t, w.SwapBuffers())
	assert.Equal(t, host.EventClose, w.PollEvent().Type)
	assert.Equal(t, 2, w.Frames())
}

func TestQueuedEventsTrackHeldKeys(t *testing.T) {
	w := New(host.Config{Width: 160, Height: 144}, 10)
	w.Queue(
		host.Event{Type: host.EventKeyPressed, Key: host.KeyEnter},
		host.Event{Type: host.EventKeyReleased, Key: host.KeyEnter},
	)

	ev := w.PollEvent()
	assert.Equal(t, host.EventKeyPressed, ev.Type)
	assert.True(t, w.IsPressed(host.KeyEnter))

	w.PollEvent()
	assert.False(t, w.IsPressed(host.KeyEnter))
	assert.Equal(t, host.EventNone, w.PollEvent().Type)
}

func TestRun(t *testing.T) {
	w := New(host.Config{Width: 160, Height: 144}, 1)
	steps := 0
	err := w.Run(func() (bool, error) {
		steps++
		return steps == 3, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, steps)

	boom := errors.New("boom")
	err = w.Run(func() (bool, error) { return true, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCloseReportsClose(t *testing.T) {
	w := New(host.Config{Width: 160, Height: 144}, 100)
	assert.NoError(t, w.Close())
	assert.True(t, w.Closed())
	assert.Equal(t, host.EventClose, w.PollEvent().Type)
}
