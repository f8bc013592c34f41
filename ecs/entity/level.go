package entity

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/prefabs"
)

var levelColor = color.RGBA{R: 0x3a, G: 0x3f, B: 0x47, A: 0xff}

// LoadLevelToWorld builds the arena geometry, the player at the spawn point,
// and every placed prop. It returns the player entity.
func LoadLevelToWorld(w *ecs.World, env *Env, name string) (ecs.Entity, error) {
	if env == nil || env.Space == nil {
		return 0, ErrNoSpace
	}
	lvl, err := prefabs.LoadLevelSpec(name)
	if err != nil {
		return 0, fmt.Errorf("level: %w", err)
	}

	bounds := ecs.CreateEntity(w)
	lb := &component.LevelBounds{Name: lvl.Name, MinY: -100, Spawn: lvl.Spawn.Vec3(), Yaw: lvl.Yaw}
	if lvl.Bounds != nil {
		lb.MinY = lvl.Bounds.MinY
	}
	if err := ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), lb); err != nil {
		return 0, err
	}

	for _, box := range lvl.Boxes {
		e := ecs.CreateEntity(w)
		center := box.Center.Vec3()
		env.Space.AddStaticBox(uint64(e), center, box.Width, box.Height, box.Layer)
		if err := ecs.Add(w, e, component.LevelTagComponent.Kind(), &component.LevelTag{}); err != nil {
			return 0, err
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: center}); err != nil {
			return 0, err
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:  box.Width,
			Height: box.Height,
			Layer:  box.Layer,
			Static: true,
		}); err != nil {
			return 0, err
		}
		if err := ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{
			Color: prefabs.ColorOr(box.Color, levelColor),
		}); err != nil {
			return 0, err
		}
	}

	player, err := BuildEntity(w, env, lvl.Player)
	if err != nil {
		return 0, fmt.Errorf("level %s: %w", name, err)
	}
	if err := SetEntityTransform(w, player, lb.Spawn, lb.Yaw); err != nil {
		return 0, err
	}

	for _, prop := range lvl.Props {
		e, err := BuildEntity(w, env, prop.Prefab)
		if err != nil {
			return 0, fmt.Errorf("level %s: %w", name, err)
		}
		if err := SetEntityTransform(w, e, prop.Position.Vec3(), 0); err != nil {
			return 0, err
		}
	}

	env.logger().Info("level loaded",
		zap.String("level", name),
		zap.Int("boxes", len(lvl.Boxes)),
		zap.Int("props", len(lvl.Props)),
	)
	return player, nil
}

// UnloadLevel destroys every entity in w, so grapples release their ropes and
// bodies leave the space before the world is dropped.
func UnloadLevel(w *ecs.World, env *Env) int {
	n := 0
	for _, e := range ecs.Entities(w) {
		if destroy(w, env, e) {
			n++
		}
	}
	env.logger().Debug("level unloaded", zap.Int("entities", n))
	return n
}
