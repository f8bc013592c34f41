package entity

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/grapple"
	"github.com/milk9111/grapplefps/look"
	"github.com/milk9111/grapplefps/motor"
	"github.com/milk9111/grapplefps/prefabs"
)

// Reload re-reads a changed prefab or script and pushes the new tuning into
// live controllers. Runtime state such as health, rope, and cooldowns is kept.
// It returns how many components picked up the change.
func Reload(w *ecs.World, env *Env, name string) (int, error) {
	if prefabs.IsScript(name) {
		return reloadScript(w, env, name)
	}
	clean := path.Base(name)
	n, err := reloadEntities(w, clean)
	if err != nil {
		return n, err
	}
	m, err := reloadWeapons(w, clean)
	n += m
	if err != nil {
		return n, err
	}
	env.logger().Info("prefab reloaded", zap.String("prefab", clean), zap.Int("updated", n))
	return n, nil
}

func reloadScript(w *ecs.World, env *Env, name string) (int, error) {
	base := path.Base(name)
	src, err := prefabs.LoadScript(base)
	if err != nil {
		return 0, fmt.Errorf("reload %s: %w", base, err)
	}
	n := 0
	var firstErr error
	ecs.ForEach(w, component.WallRunComponent.Kind(), func(_ ecs.Entity, wr *component.WallRun) {
		if wr.Rule == nil || path.Base(wr.Script) != base {
			return
		}
		if err := wr.Rule.Reload(src); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		n++
	})
	env.logger().Info("script reloaded", zap.String("script", base), zap.Int("updated", n))
	return n, firstErr
}

func reloadEntities(w *ecs.World, name string) (int, error) {
	var matches []ecs.Entity
	ecs.ForEach(w, component.PrefabComponent.Kind(), func(e ecs.Entity, p *component.Prefab) {
		if path.Base(p.Path) == name {
			matches = append(matches, e)
		}
	})
	if len(matches) == 0 {
		return 0, nil
	}

	spec, err := prefabs.LoadEntityBuildSpec(name)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range matches {
		if m, ok := ecs.Get(w, e, component.MotorComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpecOver(spec.Components["motor"], motor.DefaultSettings())
			if err != nil {
				return n, fmt.Errorf("reload %s: motor: %w", name, err)
			}
			m.Motor.ApplySettings(s)
			n++
		}
		if l, ok := ecs.Get(w, e, component.LookComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpecOver(spec.Components["look"], look.DefaultSettings())
			if err != nil {
				return n, fmt.Errorf("reload %s: look: %w", name, err)
			}
			l.Look.ApplySettings(s)
			n++
		}
		if g, ok := ecs.Get(w, e, component.GrappleComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpecOver(spec.Components["grapple"], grapple.DefaultSettings())
			if err != nil {
				return n, fmt.Errorf("reload %s: grapple: %w", name, err)
			}
			g.Controller.ApplySettings(s)
			n++
		}
		if c, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[cameraSpec](spec.Components["camera"])
			if err != nil {
				return n, fmt.Errorf("reload %s: camera: %w", name, err)
			}
			c.RecoilKick = s.RecoilKick
			if s.RecoilRecovery > 0 {
				c.RecoilRecovery = s.RecoilRecovery
			}
			n++
		}
	}
	return n, nil
}

func reloadWeapons(w *ecs.World, name string) (int, error) {
	n := 0
	var firstErr error
	ecs.ForEach(w, component.WeaponSetComponent.Kind(), func(_ ecs.Entity, ws *component.WeaponSet) {
		for _, slot := range ws.Slots {
			if slot.Hitscan == nil || path.Base(slot.Prefab) != name {
				continue
			}
			spec, err := prefabs.LoadWeaponSpec(name)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			slot.Hitscan.ApplySettings(spec.Hitscan)
			n++
		}
	})
	return n, firstErr
}
