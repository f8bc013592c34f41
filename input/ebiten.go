package input

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const stickDeadzone = 0.2

// EbitenSource reads keyboard, mouse, and the first gamepad.
type EbitenSource struct {
	lastX, lastY int
	primed       bool
	// StickLookScale converts right stick deflection to mouse-like deltas.
	StickLookScale float64
}

func NewEbitenSource() *EbitenSource {
	return &EbitenSource{StickLookScale: 12}
}

func keyState(k ebiten.Key) ButtonState {
	return ButtonState{
		Down: inpututil.IsKeyJustPressed(k),
		Up:   inpututil.IsKeyJustReleased(k),
		Held: ebiten.IsKeyPressed(k),
	}
}

func mouseState(b ebiten.MouseButton) ButtonState {
	return ButtonState{
		Down: inpututil.IsMouseButtonJustPressed(b),
		Up:   inpututil.IsMouseButtonJustReleased(b),
		Held: ebiten.IsMouseButtonPressed(b),
	}
}

func padState(id ebiten.GamepadID, b ebiten.StandardGamepadButton) ButtonState {
	return ButtonState{
		Down: inpututil.IsStandardGamepadButtonJustPressed(id, b),
		Up:   inpututil.IsStandardGamepadButtonJustReleased(id, b),
		Held: ebiten.IsStandardGamepadButtonPressed(id, b),
	}
}

func merge(a, b ButtonState) ButtonState {
	return ButtonState{Down: a.Down || b.Down, Up: a.Up || b.Up, Held: a.Held || b.Held}
}

func (s *EbitenSource) Poll() Frame {
	var f Frame

	if ebiten.IsKeyPressed(ebiten.KeyA) {
		f.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		f.MoveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		f.MoveY += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		f.MoveY -= 1
	}

	cx, cy := ebiten.CursorPosition()
	if s.primed {
		f.LookX = float64(cx - s.lastX)
		// Screen y grows downward; look input is positive when the mouse moves up.
		f.LookY = float64(s.lastY - cy)
	}
	s.lastX, s.lastY, s.primed = cx, cy, true

	_, f.Scroll = ebiten.Wheel()

	f.Fire = mouseState(ebiten.MouseButtonLeft)
	f.Jump = keyState(ebiten.KeySpace)
	f.Crouch = keyState(ebiten.KeyControlLeft)
	f.Grapple = keyState(ebiten.KeyQ)
	f.Pause = keyState(ebiten.KeyEscape)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			f.MoveX = lx
			f.MoveY = -ly
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			f.LookX += rx * s.StickLookScale
			f.LookY -= ry * s.StickLookScale
		}

		f.Jump = merge(f.Jump, padState(id, ebiten.StandardGamepadButtonRightBottom))
		f.Crouch = merge(f.Crouch, padState(id, ebiten.StandardGamepadButtonRightRight))
		f.Fire = merge(f.Fire, padState(id, ebiten.StandardGamepadButtonFrontBottomRight))
		f.Grapple = merge(f.Grapple, padState(id, ebiten.StandardGamepadButtonFrontBottomLeft))
		f.Pause = merge(f.Pause, padState(id, ebiten.StandardGamepadButtonCenterRight))
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight) {
			f.Scroll = 1
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopLeft) {
			f.Scroll = -1
		}
	}

	return f
}

// Capture owns the cursor lock for the session. Lock takes effect once;
// Release and Relock toggle it around pause.
type Capture struct {
	once    sync.Once
	started bool
	locked  bool
	setter  func(ebiten.CursorModeType)
}

func NewCapture() *Capture {
	return &Capture{setter: ebiten.SetCursorMode}
}

func (c *Capture) Lock() {
	c.once.Do(func() {
		c.setter(ebiten.CursorModeCaptured)
		c.started = true
		c.locked = true
	})
}

// Release frees the cursor, for menus.
func (c *Capture) Release() {
	if !c.locked {
		return
	}
	c.setter(ebiten.CursorModeVisible)
	c.locked = false
}

// Relock recaptures after Release. It does nothing before the first Lock.
func (c *Capture) Relock() {
	if !c.started || c.locked {
		return
	}
	c.setter(ebiten.CursorModeCaptured)
	c.locked = true
}

func (c *Capture) Locked() bool {
	return c.locked
}
