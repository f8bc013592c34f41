package entity

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/grapple"
	"github.com/milk9111/grapplefps/look"
	"github.com/milk9111/grapplefps/motor"
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/prefabs"
	"github.com/milk9111/grapplefps/script"
	"github.com/milk9111/grapplefps/target"
	"github.com/milk9111/grapplefps/weapon"
)

var ErrNoSpace = errors.New("build entity: physics space is nil")

type buildContext struct {
	PrefabPath string
	Env        *Env
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":   addPlayerTag,
	"target_tag":   addTargetTag,
	"input":        addInput,
	"transform":    addTransform,
	"physics_body": addPhysicsBody,
	"camera":       addCamera,
	"look":         addLook,
	"motor":        addMotor,
	"grapple":      addGrapple,
	"weapons":      addWeapons,
	"wall_run":     addWallRun,
	"line_render":  addLineRender,
	"appearance":   addAppearance,
	"health":       addHealth,
}

// componentBuildOrder lists builders that read components added earlier.
var componentBuildOrder = []string{
	"player_tag",
	"target_tag",
	"input",
	"transform",
	"physics_body",
	"camera",
	"look",
	"motor",
	"grapple",
	"weapons",
	"wall_run",
	"line_render",
	"appearance",
	"health",
}

func BuildEntity(w *ecs.World, env *Env, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if env == nil || env.Space == nil {
		return 0, ErrNoSpace
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Env: env}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			destroy(w, env, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		destroy(w, env, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	if err := ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Path: prefabPath}); err != nil {
		destroy(w, env, e)
		return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}

	env.logger().Debug("entity built", zap.String("prefab", prefabPath), zap.Stringer("entity", e))
	return e, nil
}

// Destroy removes an entity and any physics it owns.
func Destroy(w *ecs.World, env *Env, e ecs.Entity) bool {
	return destroy(w, env, e)
}

func destroy(w *ecs.World, env *Env, e ecs.Entity) bool {
	if g, ok := ecs.Get(w, e, component.GrappleComponent.Kind()); ok && g.Controller != nil {
		g.Controller.Disable()
	}
	if env != nil && env.Space != nil {
		env.Space.Remove(uint64(e))
	}
	return ecs.DestroyEntity(w, e)
}

// SetEntityTransform moves an entity, teleporting its body and turning its
// view when it has them.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos common.Vec3, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = pos
	t.Yaw = yaw
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetPosition(pos)
		pb.Body.SetVelocity(common.Vec3{})
	}
	if l, ok := ecs.Get(w, e, component.LookComponent.Kind()); ok && l.Look != nil {
		l.Look.SetYaw(yaw)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addTargetTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: spec.Position.Vec3(),
		Yaw:      spec.Yaw,
	})
}

type physicsBodySpec = prefabs.BodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.Width <= 0 {
		spec.Width = 1
	}
	if spec.Height <= 0 {
		spec.Height = 1
	}
	if !spec.Static && spec.Mass <= 0 {
		spec.Mass = 1
	}
	if spec.Layer == 0 {
		spec.Layer = physics.LayerDefault
	}

	var pos common.Vec3
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		pos = t.Position
	}

	pb := &component.PhysicsBody{
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   spec.Mass,
		Layer:  spec.Layer,
		Static: spec.Static,
	}
	if spec.Static {
		ctx.Env.Space.AddStaticBox(uint64(e), pos, spec.Width, spec.Height, spec.Layer)
	} else {
		pb.Body = ctx.Env.Space.AddDynamicBox(uint64(e), pos, spec.Width, spec.Height, spec.Mass, spec.Layer)
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb)
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.RecoilRecovery <= 0 {
		spec.RecoilRecovery = 20
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Offset:         spec.Offset.Vec3(),
		RecoilKick:     spec.RecoilKick,
		RecoilRecovery: spec.RecoilRecovery,
	})
}

func addLook(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	settings, err := prefabs.DecodeComponentSpecOver(raw, look.DefaultSettings())
	if err != nil {
		return fmt.Errorf("decode look spec: %w", err)
	}
	l := look.New(settings)
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		l.SetYaw(t.Yaw)
	}
	return ecs.Add(w, e, component.LookComponent.Kind(), &component.Look{Look: l})
}

func requireBody(w *ecs.World, e ecs.Entity) (*component.PhysicsBody, error) {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return nil, fmt.Errorf("dynamic physics_body required")
	}
	return pb, nil
}

func addMotor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	settings, err := prefabs.DecodeComponentSpecOver(raw, motor.DefaultSettings())
	if err != nil {
		return fmt.Errorf("decode motor spec: %w", err)
	}
	pb, err := requireBody(w, e)
	if err != nil {
		return err
	}
	refs := motor.Refs{Body: pb.Body, Collider: pb.Body}
	if l, ok := ecs.Get(w, e, component.LookComponent.Kind()); ok {
		refs.Orientation = l.Look
	}
	if c, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
		refs.Camera = c
	}
	m, err := motor.New(refs, settings)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.MotorComponent.Kind(), &component.Motor{Motor: m})
}

func addGrapple(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	settings, err := prefabs.DecodeComponentSpecOver(raw, grapple.DefaultSettings())
	if err != nil {
		return fmt.Errorf("decode grapple spec: %w", err)
	}
	pb, err := requireBody(w, e)
	if err != nil {
		return err
	}
	aim, err := newEyeAim(w, e, pb.Body)
	if err != nil {
		return err
	}
	c, err := grapple.New(grapple.Refs{
		Raycaster: ctx.Env.Space,
		Joints:    ctx.Env.Space,
		Body:      pb.Body,
		Aim:       aim,
		Tip:       aim,
	}, settings, grapple.WithLogger(ctx.Env.logger()))
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.GrappleComponent.Kind(), &component.Grapple{Controller: c})
}

type weaponsSpec = prefabs.WeaponsComponentSpec

func addWeapons(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[weaponsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode weapons spec: %w", err)
	}

	pb, err := requireBody(w, e)
	if err != nil {
		return err
	}
	aim, err := newEyeAim(w, e, pb.Body)
	if err != nil {
		return err
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	var grappler *grapple.Controller
	if g, ok := ecs.Get(w, e, component.GrappleComponent.Kind()); ok {
		grappler = g.Controller
	}

	set := &component.WeaponSet{}
	slots := make([]weapon.Slot, 0, len(spec.Slots))
	for _, name := range spec.Slots {
		ws, err := prefabs.LoadWeaponSpec(name)
		if err != nil {
			return err
		}
		slot := &component.WeaponSlot{
			Name:   ws.Name,
			Prefab: name,
			Kind:   component.WeaponKind(ws.Kind),
			Color:  prefabs.ColorOr(ws.Color, color.White),
		}
		switch slot.Kind {
		case component.WeaponGrapple:
			if grappler == nil {
				return fmt.Errorf("weapon %q needs a grapple component", name)
			}
			slot.Grapple = grappler
		case component.WeaponHitscan:
			refs := weapon.HitscanRefs{
				Raycaster: ctx.Env.Space,
				Aim:       aim,
				Effects:   &effects{w: w, muzzle: aim.TipPosition},
				Targets:   &targets{w: w},
				Wielder:   pb.Body,
			}
			if cam != nil {
				refs.Recoil = cam
			}
			if grappler != nil {
				refs.Grapple = grappler
			}
			h, err := weapon.NewHitscan(refs, ws.Hitscan, weapon.WithHitscanLogger(ctx.Env.logger()))
			if err != nil {
				return fmt.Errorf("weapon %q: %w", name, err)
			}
			slot.Hitscan = h
		default:
			return fmt.Errorf("weapon %q: unknown kind %q", name, ws.Kind)
		}
		set.Slots = append(set.Slots, slot)
		slots = append(slots, slot)
	}

	sel, err := weapon.NewSelector(slots, spec.Initial, weapon.WithSelectorLogger(ctx.Env.logger()))
	if err != nil {
		return err
	}
	set.Selector = sel
	return ecs.Add(w, e, component.WeaponSetComponent.Kind(), set)
}

type wallRunSpec = prefabs.WallRunComponentSpec

func addWallRun(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[wallRunSpec](raw)
	if err != nil {
		return fmt.Errorf("decode wall run spec: %w", err)
	}
	rule, err := script.LoadWallRun(spec.Script, script.WithLogger(ctx.Env.logger()))
	if err != nil {
		return err
	}
	if m, ok := ecs.Get(w, e, component.MotorComponent.Kind()); ok {
		m.Motor.SetWallRun(rule.Override())
	}
	return ecs.Add(w, e, component.WallRunComponent.Kind(), &component.WallRun{Rule: rule, Script: rule.Name()})
}

type lineRenderSpec = prefabs.LineRenderComponentSpec

func addLineRender(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[lineRenderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode line render spec: %w", err)
	}
	if spec.Width <= 0 {
		spec.Width = 1
	}
	return ecs.Add(w, e, component.LineRenderComponent.Kind(), &component.LineRender{
		Width:     spec.Width,
		Color:     prefabs.ColorOr(spec.Color, color.RGBA{R: 255, A: 255}),
		AntiAlias: spec.AntiAlias,
	})
}

type appearanceSpec = prefabs.AppearanceComponentSpec

func addAppearance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[appearanceSpec](raw)
	if err != nil {
		return fmt.Errorf("decode appearance spec: %w", err)
	}
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{
		Color: prefabs.ColorOr(spec.Color, color.White),
	})
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Health <= 0 {
		return fmt.Errorf("health must be positive, got %v", spec.Health)
	}
	t := target.New(spec.Health, targetHooks(w, ctx.Env, e), target.WithLogger(ctx.Env.logger()))
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Target: t})
}
