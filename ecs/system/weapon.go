package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
)

// WeaponSwitchSystem scrolls the weapon selector. Switching away from the
// grapple gun releases its rope inside the selector.
type WeaponSwitchSystem struct {
	logger *zap.Logger
}

func NewWeaponSwitchSystem(logger *zap.Logger) *WeaponSwitchSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeaponSwitchSystem{logger: logger}
}

func (s *WeaponSwitchSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.InputComponent.Kind(), component.WeaponSetComponent.Kind(), func(e ecs.Entity, in *component.Input, ws *component.WeaponSet) {
		if ws.Selector == nil || in.Frame.Scroll == 0 {
			return
		}
		if ws.Selector.Scroll(in.Frame.Scroll) {
			if slot := ws.ActiveSlot(); slot != nil {
				s.logger.Debug("weapon switched", zap.Stringer("entity", e), zap.String("weapon", slot.Name))
			}
		}
	})
}

// HitscanSystem pulls the trigger of the active hitscan weapon.
type HitscanSystem struct {
	clock *Clock
}

func NewHitscanSystem(clock *Clock) *HitscanSystem {
	return &HitscanSystem{clock: clock}
}

func (s *HitscanSystem) Update(w *ecs.World) {
	if w == nil || s.clock == nil {
		return
	}

	ecs.ForEach2(w, component.InputComponent.Kind(), component.WeaponSetComponent.Kind(), func(_ ecs.Entity, in *component.Input, ws *component.WeaponSet) {
		slot := ws.ActiveSlot()
		if slot == nil || slot.Kind != component.WeaponHitscan || slot.Hitscan == nil {
			return
		}
		slot.Hitscan.Trigger(in.Frame.Fire.Down, in.Frame.Fire.Held, s.clock.Now)
	})
}
