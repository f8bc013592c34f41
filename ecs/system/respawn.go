package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/ecs/entity"
)

// RespawnSystem returns players who fall below the level's kill floor to the
// spawn point. It runs after the PhysicsSystem so positions are current.
type RespawnSystem struct {
	logger *zap.Logger
}

func NewRespawnSystem(logger *zap.Logger) *RespawnSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RespawnSystem{logger: logger}
}

func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	be, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, be, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, pb *component.PhysicsBody) {
		if pb.Body == nil || pb.Body.Position().Y() >= bounds.MinY {
			return
		}

		if g, ok := ecs.Get(w, e, component.GrappleComponent.Kind()); ok && g.Controller != nil {
			g.Controller.Disengage()
		}
		if err := entity.SetEntityTransform(w, e, bounds.Spawn, bounds.Yaw); err != nil {
			s.logger.Warn("respawn failed", zap.Stringer("entity", e), zap.Error(err))
			return
		}
		s.logger.Info("player respawned", zap.Stringer("entity", e), zap.String("level", bounds.Name))
	})
}
