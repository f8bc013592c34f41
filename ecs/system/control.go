package system

import (
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/input"
	"github.com/milk9111/grapplefps/motor"
)

const (
	sideViewRight = 90.0
	sideViewLeft  = 270.0
)

// ControlSystem turns the input frame into motor intent and crouch edges.
type ControlSystem struct {
	// SideView maps the horizontal axis to forward movement and turns the
	// view to face it, so the motor stays on the X/Y plane.
	SideView bool
}

func NewControlSystem() *ControlSystem {
	return &ControlSystem{}
}

func (s *ControlSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.InputComponent.Kind(), component.MotorComponent.Kind(), func(e ecs.Entity, in *component.Input, m *component.Motor) {
		if m.Motor == nil {
			return
		}

		intent := s.intent(w, e, in.Frame)
		m.Intent = intent
		m.Motor.SetIntent(intent)

		if in.Frame.Crouch.Down {
			m.Motor.StartCrouch()
		}
		if in.Frame.Crouch.Up {
			m.Motor.StopCrouch()
		}
	})
}

func (s *ControlSystem) intent(w *ecs.World, e ecs.Entity, f input.Frame) motor.Intent {
	intent := motor.Intent{X: f.MoveX, Y: f.MoveY, Jump: f.Jump.Held}
	if !s.SideView {
		return intent
	}

	intent.X = 0
	intent.Y = 0
	if f.MoveX == 0 {
		return intent
	}

	yaw := sideViewRight
	intent.Y = f.MoveX
	if f.MoveX < 0 {
		yaw = sideViewLeft
		intent.Y = -f.MoveX
	}
	if l, ok := ecs.Get(w, e, component.LookComponent.Kind()); ok && l.Look != nil {
		l.Look.SetYaw(yaw)
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Yaw = yaw
	}
	return intent
}
