package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/config"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/entity"
	"github.com/milk9111/grapplefps/ecs/system"
	"github.com/milk9111/grapplefps/input"
	"github.com/milk9111/grapplefps/physics/chipmunk"
	"github.com/milk9111/grapplefps/prefabs"
)

// polled hands the frame the game already sampled to the input system, so
// the source is read exactly once per tick.
type polled struct {
	frame input.Frame
}

func (p *polled) Poll() input.Frame {
	return p.frame
}

type Game struct {
	cfg    config.Config
	logger *zap.Logger

	world  *ecs.World
	env    *entity.Env
	player ecs.Entity

	clock       *system.Clock
	frame       *ecs.Scheduler
	fixed       *ecs.Scheduler
	late        *ecs.Scheduler
	render      *system.RenderSystem
	accumulator float64

	source  input.Source
	polled  *polled
	capture *input.Capture
	watcher *prefabs.Watcher

	paused  bool
	restart bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(cfg config.Config, logger *zap.Logger) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		logger:  logger,
		source:  input.NewEbitenSource(),
		polled:  &polled{},
		capture: input.NewCapture(),
	}
	if err := g.loadLevel(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g, cfg.Sandbox.Width, cfg.Sandbox.Height)

	if cfg.Prefabs.Watch {
		g.startWatcher()
	}
	return g, nil
}

// loadLevel builds a fresh world and space for the configured level. The old
// level is unloaded only once the new one has loaded.
func (g *Game) loadLevel() error {
	phys := g.cfg.Physics
	space := chipmunk.NewSpace(phys.Gravity, phys.Iterations, chipmunk.WithLogger(g.logger))
	world := ecs.NewWorld()
	env := &entity.Env{Space: space, Logger: g.logger}

	player, err := entity.LoadLevelToWorld(world, env, g.cfg.Sandbox.Level)
	if err != nil {
		return fmt.Errorf("load level %s: %w", g.cfg.Sandbox.Level, err)
	}

	if g.world != nil {
		entity.UnloadLevel(g.world, g.env)
	}
	g.world = world
	g.env = env
	g.player = player
	g.accumulator = 0
	g.clock = &system.Clock{FixedDelta: phys.FixedStep}
	g.buildSchedulers(space)
	return nil
}

func (g *Game) buildSchedulers(space *chipmunk.Space) {
	look := system.NewLookSystem(g.clock)
	look.SideView = true
	control := system.NewControlSystem()
	control.SideView = true

	g.frame = ecs.NewScheduler(
		system.NewInputSystem(g.polled),
		look,
		control,
		system.NewWeaponSwitchSystem(g.logger),
		system.NewGrappleSystem(g.logger),
		system.NewHitscanSystem(g.clock),
	)
	g.fixed = ecs.NewScheduler(
		ecs.SystemFunc(func(*ecs.World) { g.clock.Tick() }),
		system.NewWallRunSystem(space, g.logger),
		system.NewMotorSystem(g.clock),
		system.NewPhysicsSystem(space, g.clock),
		system.NewRespawnSystem(g.logger),
	)
	g.late = ecs.NewScheduler(
		system.NewTTLSystem(g.clock),
		system.NewRopeSystem(),
	)

	g.render = system.NewRenderSystem(g.cfg.Sandbox.Scale)
	g.render.Debug = g.cfg.Sandbox.Debug
}

func (g *Game) startWatcher() {
	w, err := prefabs.NewWatcher(prefabs.Dir())
	if err != nil {
		g.logger.Warn("prefab hot reload disabled", zap.String("dir", prefabs.Dir()), zap.Error(err))
		return
	}
	g.watcher = w
	g.logger.Info("watching prefabs", zap.Strings("dirs", w.Dirs()))
}

// pollWatcher applies every change the watcher has queued without blocking.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("prefab watcher error", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	if !change.Script && change.Name == filepath.Base(g.cfg.Sandbox.Level) {
		g.restart = true
		return
	}
	n, err := entity.Reload(g.world, g.env, change.Name)
	if err != nil {
		g.logger.Warn("prefab reload failed", zap.String("prefab", change.Name), zap.Error(err))
		return
	}
	g.logger.Debug("prefab change applied", zap.String("prefab", change.Name), zap.Int("updated", n))
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		g.capture.Release()
	} else {
		g.capture.Relock()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.capture.Lock()
	g.pollWatcher()

	if g.restart {
		g.restart = false
		if err := g.loadLevel(); err != nil {
			g.logger.Error("level restart failed", zap.Error(err))
		} else {
			g.logger.Info("level restarted", zap.String("level", g.cfg.Sandbox.Level))
		}
	}

	f := g.source.Poll()
	if f.Pause.Down {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.polled.frame = f
	g.clock.FrameDelta = 1.0 / float64(ebiten.TPS())

	g.frame.Update(g.world)

	g.accumulator += g.clock.FrameDelta
	steps := 0
	for g.accumulator >= g.clock.FixedDelta && steps < g.cfg.Physics.MaxSubSteps {
		g.fixed.Update(g.world)
		g.accumulator -= g.clock.FixedDelta
		steps++
	}
	if steps == g.cfg.Physics.MaxSubSteps {
		g.accumulator = 0
	}

	g.late.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Sandbox.Width, g.cfg.Sandbox.Height
}

// Close stops the prefab watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	err := g.watcher.Close()
	g.watcher = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
