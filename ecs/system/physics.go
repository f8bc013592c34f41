package system

import (
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/physics/chipmunk"
)

// MotorSystem runs every character motor for one fixed tick.
type MotorSystem struct {
	clock *Clock
}

func NewMotorSystem(clock *Clock) *MotorSystem {
	return &MotorSystem{clock: clock}
}

func (s *MotorSystem) Update(w *ecs.World) {
	if w == nil || s.clock == nil {
		return
	}

	ecs.ForEach(w, component.MotorComponent.Kind(), func(_ ecs.Entity, m *component.Motor) {
		if m.Motor == nil {
			return
		}
		m.Motor.FixedUpdate(s.clock.FixedDelta, s.clock.Now)
	})
}

// PhysicsSystem steps the space, reports contacts to motors, and copies body
// positions back into transforms.
type PhysicsSystem struct {
	space *chipmunk.Space
	clock *Clock
}

func NewPhysicsSystem(space *chipmunk.Space, clock *Clock) *PhysicsSystem {
	return &PhysicsSystem{space: space, clock: clock}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil || s.space == nil || s.clock == nil {
		return
	}

	s.space.Step(s.clock.FixedDelta)

	ecs.ForEach2(w, component.MotorComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, m *component.Motor, pb *component.PhysicsBody) {
		if m.Motor == nil || pb.Body == nil {
			return
		}
		m.Motor.OnCollision(s.space.Contacts(pb.Body), s.clock.FixedDelta, s.clock.Now)
	})

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil {
			return
		}
		t.Position = pb.Body.Position()
	})
}
