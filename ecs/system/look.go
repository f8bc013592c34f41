package system

import (
	"math"

	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
)

// LookSystem turns mouse deltas into view angles and lets weapon recoil
// settle back.
type LookSystem struct {
	clock *Clock
	// SideView ignores horizontal look so the facing stays on the X axis.
	SideView bool
}

func NewLookSystem(clock *Clock) *LookSystem {
	return &LookSystem{clock: clock}
}

func (s *LookSystem) Update(w *ecs.World) {
	if w == nil || s.clock == nil {
		return
	}

	ecs.ForEach2(w, component.InputComponent.Kind(), component.LookComponent.Kind(), func(e ecs.Entity, in *component.Input, l *component.Look) {
		if l.Look == nil {
			return
		}
		dx := in.Frame.LookX
		if s.SideView {
			dx = 0
		}
		l.Look.Apply(dx, in.Frame.LookY, s.clock.FixedDelta)

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Yaw = l.Look.Yaw()
		}
	})

	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
		if cam.Recoil <= 0 {
			return
		}
		cam.Recoil = math.Max(0, cam.Recoil-cam.RecoilRecovery*s.clock.FrameDelta)
	})
}
