package system

import (
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
)

// TTLSystem counts down TTL components by the frame time and destroys
// entities when they run out.
type TTLSystem struct {
	clock *Clock
}

func NewTTLSystem(clock *Clock) *TTLSystem {
	return &TTLSystem{clock: clock}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil || s.clock == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Seconds -= s.clock.FrameDelta
		if ttl.Seconds > 0 {
			return
		}

		// TTL expired: destroy the entity
		ecs.DestroyEntity(w, e)
	})
}
