// Package input samples devices into per-frame snapshots.
package input

// ButtonState is one button's edge and level for a frame.
type ButtonState struct {
	Down bool
	Up   bool
	Held bool
}

// Frame is everything the controllers read from input for one frame.
type Frame struct {
	MoveX float64
	MoveY float64
	LookX float64
	LookY float64
	// Scroll is positive for wheel up.
	Scroll float64

	Fire    ButtonState
	Jump    ButtonState
	Crouch  ButtonState
	Grapple ButtonState
	Pause   ButtonState
}

type Source interface {
	Poll() Frame
}

// Replay feeds recorded frames in order and then repeats an empty frame.
type Replay struct {
	Frames []Frame
	next   int
}

func (r *Replay) Poll() Frame {
	if r.next >= len(r.Frames) {
		return Frame{}
	}
	f := r.Frames[r.next]
	r.next++
	return f
}

// Press builds the state for a frame where the button went down.
func Press() ButtonState {
	return ButtonState{Down: true, Held: true}
}

func Hold() ButtonState {
	return ButtonState{Held: true}
}

func Release() ButtonState {
	return ButtonState{Up: true}
}
