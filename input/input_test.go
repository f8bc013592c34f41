package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

func TestReplay(t *testing.T) {
	r := &Replay{Frames: []Frame{
		{MoveY: 1, Jump: Press()},
		{MoveY: 1, Jump: Hold()},
	}}
	assert.True(t, r.Poll().Jump.Down)
	assert.True(t, r.Poll().Jump.Held)
	assert.Equal(t, Frame{}, r.Poll())
}

func TestCaptureLocksOnce(t *testing.T) {
	var modes []ebiten.CursorModeType
	c := &Capture{setter: func(m ebiten.CursorModeType) { modes = append(modes, m) }}

	c.Relock()
	assert.Empty(t, modes)

	c.Lock()
	c.Lock()
	assert.Equal(t, []ebiten.CursorModeType{ebiten.CursorModeCaptured}, modes)
	assert.True(t, c.Locked())

	c.Release()
	c.Release()
	c.Relock()
	assert.Equal(t, []ebiten.CursorModeType{
		ebiten.CursorModeCaptured,
		ebiten.CursorModeVisible,
		ebiten.CursorModeCaptured,
	}, modes)
}
