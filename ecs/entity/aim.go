package entity

import (
	"fmt"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/look"
	"github.com/milk9111/grapplefps/physics"
)

const tipReach = 0.5

// eyeAim aims from the camera along the view, with recoil lifting it.
type eyeAim struct {
	body physics.Body
	cam  *component.Camera
	look *look.Look
}

func newEyeAim(w *ecs.World, e ecs.Entity, body physics.Body) (*eyeAim, error) {
	cam, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("camera component required")
	}
	l, ok := ecs.Get(w, e, component.LookComponent.Kind())
	if !ok || l.Look == nil {
		return nil, fmt.Errorf("look component required")
	}
	return &eyeAim{body: body, cam: cam, look: l.Look}, nil
}

func (a *eyeAim) Origin() common.Vec3 {
	return a.body.Position().Add(a.cam.Offset)
}

func (a *eyeAim) Direction() common.Vec3 {
	return look.Direction(a.look.Yaw(), a.look.Pitch()-a.cam.Recoil)
}

func (a *eyeAim) TipPosition() common.Vec3 {
	return a.Origin().Add(a.Direction().Mul(tipReach))
}
