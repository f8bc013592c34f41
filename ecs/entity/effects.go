package entity

import (
	"image/color"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/target"
	"github.com/milk9111/grapplefps/weapon"
	"golang.org/x/image/colornames"
)

const (
	muzzleLifetime    = 0.05
	destroyedLifetime = 1.0
)

// SpawnEffect creates a marker entity that expires after lifetime seconds.
func SpawnEffect(w *ecs.World, kind component.EffectKind, at common.Vec3, size float64, c color.Color, lifetime float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: at})
	_ = ecs.Add(w, e, component.EffectComponent.Kind(), &component.Effect{Kind: kind, Size: size, Color: c})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: lifetime})
	return e
}

// effects spawns weapon feedback into the world.
type effects struct {
	w      *ecs.World
	muzzle func() common.Vec3
}

func (fx *effects) PlayMuzzle() {
	if fx.muzzle == nil {
		return
	}
	SpawnEffect(fx.w, component.EffectMuzzle, fx.muzzle(), 0.3, colornames.Yellow, muzzleLifetime)
}

func (fx *effects) SpawnImpact(point, normal common.Vec3, lifetime float64) {
	SpawnEffect(fx.w, component.EffectImpact, point.Add(normal.Mul(0.05)), 0.2, colornames.Orange, lifetime)
}

// targets resolves ray hits back to damageable entities.
type targets struct {
	w *ecs.World
}

func (t *targets) DamageableAt(hit physics.Hit) (weapon.Damageable, bool) {
	e := ecs.Entity(hit.Entity)
	h, ok := ecs.Get(t.w, e, component.HealthComponent.Kind())
	if !ok || h.Target == nil {
		return nil, false
	}
	return h.Target, true
}

func targetHooks(w *ecs.World, env *Env, e ecs.Entity) target.Hooks {
	return target.Hooks{
		Locate: func() target.Transform {
			tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			if !ok {
				return target.Transform{}
			}
			pos := tr.Position
			if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
				pos = pb.Body.Position()
			}
			return target.Transform{Position: pos, Yaw: tr.Yaw}
		},
		SpawnDestroyed: func(at target.Transform) {
			size := 1.0
			if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
				size = pb.Width
			}
			c := color.Color(colornames.Gray)
			if a, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok && a.Color != nil {
				c = a.Color
			}
			SpawnEffect(w, component.EffectDestroyed, at.Position, size, c, destroyedLifetime)
		},
		Remove: func() {
			destroy(w, env, e)
		},
	}
}
