// Command headless runs a level without a window, feeding scripted input, and
// logs where the player ends up. It is a smoke test for prefab edits.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/config"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/ecs/entity"
	"github.com/milk9111/grapplefps/ecs/system"
	"github.com/milk9111/grapplefps/input"
	"github.com/milk9111/grapplefps/observability"
	"github.com/milk9111/grapplefps/physics/chipmunk"
	"github.com/milk9111/grapplefps/prefabs"
)

// script walks right, jumps once, and fires a burst.
func script(ticks int) []input.Frame {
	frames := make([]input.Frame, ticks)
	for i := range frames {
		f := input.Frame{MoveX: 1}
		switch {
		case i == ticks/4:
			f.Jump = input.Press()
		case i > ticks/2 && i < ticks/2+10:
			f.Fire = input.Hold()
			if i == ticks/2+1 {
				f.Fire = input.Press()
			}
		}
		frames[i] = f
	}
	return frames
}

func main() {
	configPath := flag.String("config", "", "path to a config file")
	levelName := flag.String("level", "", "level prefab to run, overrides sandbox.level")
	ticks := flag.Int("ticks", 240, "fixed ticks to simulate")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *levelName != "" {
		cfg.Sandbox.Level = *levelName
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	prefabs.SetDir(cfg.Prefabs.Dir)
	for _, name := range []string{cfg.Sandbox.Level, "player.yaml", "target.yaml"} {
		if mod, ok := prefabs.ModTime(name); ok {
			logger.Info("using disk prefab", zap.String("prefab", name), zap.Time("modified", mod))
		}
	}

	phys := cfg.Physics
	space := chipmunk.NewSpace(phys.Gravity, phys.Iterations, chipmunk.WithLogger(logger))
	w := ecs.NewWorld()
	env := &entity.Env{Space: space, Logger: logger}
	player, err := entity.LoadLevelToWorld(w, env, cfg.Sandbox.Level)
	if err != nil {
		logger.Fatal("loading level", zap.Error(err))
	}

	clock := &system.Clock{FixedDelta: phys.FixedStep, FrameDelta: phys.FixedStep}
	look := system.NewLookSystem(clock)
	look.SideView = true
	control := system.NewControlSystem()
	control.SideView = true
	tick := ecs.NewScheduler(
		ecs.SystemFunc(func(*ecs.World) { clock.Tick() }),
		system.NewInputSystem(&input.Replay{Frames: script(*ticks)}),
		look,
		control,
		system.NewWeaponSwitchSystem(logger),
		system.NewGrappleSystem(logger),
		system.NewHitscanSystem(clock),
		system.NewWallRunSystem(space, logger),
		system.NewMotorSystem(clock),
		system.NewPhysicsSystem(space, clock),
		system.NewRespawnSystem(logger),
		system.NewTTLSystem(clock),
		system.NewRopeSystem(),
	)

	for i := 0; i < *ticks; i++ {
		tick.Update(w)
	}

	fields := []zap.Field{zap.Int("ticks", *ticks), zap.Int("targets_left", len(w.Query(component.TargetTagComponent.Kind())))}
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		fields = append(fields, zap.Float64s("position", t.Position[:]))
	}
	if m, ok := ecs.Get(w, player, component.MotorComponent.Kind()); ok && m.Motor != nil {
		fields = append(fields, zap.Stringer("mode", m.Motor.Mode()), zap.Bool("grounded", m.Motor.Grounded()))
	}
	logger.Info("simulation finished", fields...)
}
