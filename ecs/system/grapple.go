package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
)

// GrappleSystem feeds button edges to the grapple while the grapple gun is
// the active weapon. Either fire or the dedicated grapple button works.
type GrappleSystem struct {
	logger *zap.Logger
}

func NewGrappleSystem(logger *zap.Logger) *GrappleSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrappleSystem{logger: logger}
}

func (s *GrappleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.InputComponent.Kind(), component.WeaponSetComponent.Kind(), component.GrappleComponent.Kind(), func(e ecs.Entity, in *component.Input, ws *component.WeaponSet, g *component.Grapple) {
		if g.Controller == nil {
			return
		}
		slot := ws.ActiveSlot()
		if slot == nil || slot.Kind != component.WeaponGrapple {
			return
		}

		f := in.Frame
		press := f.Fire.Down || f.Grapple.Down
		release := f.Fire.Up || f.Grapple.Up
		if err := g.Controller.HandleInput(press, release); err != nil {
			s.logger.Warn("grapple input failed", zap.Stringer("entity", e), zap.Error(err))
		}
	})
}

// RopeSystem copies the rope endpoints into the line renderer each frame.
type RopeSystem struct{}

func NewRopeSystem() *RopeSystem {
	return &RopeSystem{}
}

func (s *RopeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.GrappleComponent.Kind(), component.LineRenderComponent.Kind(), func(_ ecs.Entity, g *component.Grapple, line *component.LineRender) {
		if g.Controller == nil {
			line.Visible = false
			return
		}
		start, end, ok := g.Controller.Rope()
		line.Visible = ok
		if ok {
			line.Start = start
			line.End = end
		}
	})
}
