package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/ecs/entity"
	"github.com/milk9111/grapplefps/input"
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/physics/chipmunk"
)

const tick = 1.0 / 60

type sandbox struct {
	w      *ecs.World
	env    *entity.Env
	player ecs.Entity
	clock  *Clock
}

func newSandbox(t *testing.T, gravity float64, at common.Vec3) *sandbox {
	t.Helper()
	w := ecs.NewWorld()
	env := &entity.Env{Space: chipmunk.NewSpace(gravity, 10)}
	player, err := entity.BuildEntity(w, env, "player.yaml")
	require.NoError(t, err)
	require.NoError(t, entity.SetEntityTransform(w, player, at, 90))
	return &sandbox{w: w, env: env, player: player, clock: &Clock{FixedDelta: tick, FrameDelta: tick}}
}

func (s *sandbox) setFrame(f input.Frame) {
	in, _ := ecs.Get(s.w, s.player, component.InputComponent.Kind())
	in.Frame = f
}

func (s *sandbox) body() *chipmunk.Body {
	pb, _ := ecs.Get(s.w, s.player, component.PhysicsBodyComponent.Kind())
	return pb.Body
}

func (s *sandbox) fixed(n int) {
	motors := NewMotorSystem(s.clock)
	phys := NewPhysicsSystem(s.env.Space, s.clock)
	for i := 0; i < n; i++ {
		s.clock.Tick()
		motors.Update(s.w)
		phys.Update(s.w)
	}
}

func TestInputSystemCopiesFrame(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}))

	frame := input.Frame{MoveX: 1, Fire: input.Press()}
	NewInputSystem(&input.Replay{Frames: []input.Frame{frame}}).Update(w)

	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, frame, in.Frame)
}

func TestControlSystemSideViewTurnsAround(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{})
	s.setFrame(input.Frame{MoveX: -1, MoveY: 1})

	ctl := NewControlSystem()
	ctl.SideView = true
	ctl.Update(s.w)

	m, _ := ecs.Get(s.w, s.player, component.MotorComponent.Kind())
	assert.Equal(t, 0.0, m.Intent.X)
	assert.Equal(t, 1.0, m.Intent.Y)

	l, _ := ecs.Get(s.w, s.player, component.LookComponent.Kind())
	assert.InDelta(t, 270, l.Look.Yaw(), 1e-9)
	tr, _ := ecs.Get(s.w, s.player, component.TransformComponent.Kind())
	assert.InDelta(t, 270, tr.Yaw, 1e-9)
}

func TestControlSystemCrouchEdges(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{})
	ctl := NewControlSystem()
	m, _ := ecs.Get(s.w, s.player, component.MotorComponent.Kind())

	s.setFrame(input.Frame{Crouch: input.Press()})
	ctl.Update(s.w)
	assert.True(t, m.Motor.Crouching())
	assert.InDelta(t, 1, s.body().Height(), 1e-9)

	s.setFrame(input.Frame{Crouch: input.Release()})
	ctl.Update(s.w)
	assert.False(t, m.Motor.Crouching())
	assert.InDelta(t, 2, s.body().Height(), 1e-9)
}

func TestLookSystemPitchAndRecoil(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{})
	s.clock.FixedDelta = 0.02
	s.clock.FrameDelta = 0.1
	s.setFrame(input.Frame{LookX: 5, LookY: 1})

	cam, _ := ecs.Get(s.w, s.player, component.CameraComponent.Kind())
	cam.Recoil = 5

	look := NewLookSystem(s.clock)
	look.SideView = true
	look.Update(s.w)

	l, _ := ecs.Get(s.w, s.player, component.LookComponent.Kind())
	assert.InDelta(t, 90, l.Look.Yaw(), 1e-9)
	assert.InDelta(t, -1, l.Look.Pitch(), 1e-9)
	assert.InDelta(t, 3, cam.Recoil, 1e-9)

	s.clock.FrameDelta = 1
	look.Update(s.w)
	assert.Equal(t, 0.0, cam.Recoil)
}

func TestWeaponSwitchSystemWraps(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{})
	sw := NewWeaponSwitchSystem(nil)
	ws, _ := ecs.Get(s.w, s.player, component.WeaponSetComponent.Kind())

	s.setFrame(input.Frame{Scroll: 1})
	sw.Update(s.w)
	assert.Equal(t, "pistol", ws.ActiveSlot().Name)

	s.setFrame(input.Frame{Scroll: -1})
	sw.Update(s.w)
	sw.Update(s.w)
	assert.Equal(t, "grapple_gun", ws.ActiveSlot().Name)
}

func TestHitscanSystemFiresActiveWeapon(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{})
	tgt, err := entity.BuildEntity(s.w, s.env, "target.yaml")
	require.NoError(t, err)
	require.NoError(t, entity.SetEntityTransform(s.w, tgt, common.Vec3{5, 0.8, 0}, 0))
	s.env.Space.Step(tick)

	s.setFrame(input.Frame{Fire: input.Press()})
	NewHitscanSystem(s.clock).Update(s.w)

	h, ok := ecs.Get(s.w, tgt, component.HealthComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 40, h.Target.Health(), 1e-9)
}

func TestGrappleSystemNeedsGrappleGun(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{})
	s.env.Space.AddStaticBox(999, common.Vec3{10, 0.8, 0}, 2, 2, physics.LayerGrapple)

	g, _ := ecs.Get(s.w, s.player, component.GrappleComponent.Kind())
	grapples := NewGrappleSystem(nil)
	ropes := NewRopeSystem()
	line, _ := ecs.Get(s.w, s.player, component.LineRenderComponent.Kind())

	s.setFrame(input.Frame{Grapple: input.Press()})
	grapples.Update(s.w)
	assert.False(t, g.Controller.IsGrappling(), "rifle is active")

	ws, _ := ecs.Get(s.w, s.player, component.WeaponSetComponent.Kind())
	require.True(t, ws.Selector.Select(3))
	grapples.Update(s.w)
	require.True(t, g.Controller.IsGrappling())

	ropes.Update(s.w)
	assert.True(t, line.Visible)
	assert.InDelta(t, 9, line.End.X(), 1e-6)

	s.setFrame(input.Frame{Grapple: input.Release()})
	grapples.Update(s.w)
	ropes.Update(s.w)
	assert.False(t, g.Controller.IsGrappling())
	assert.False(t, line.Visible)
}

func TestPhysicsSystemGroundsMotorAndSyncsTransform(t *testing.T) {
	s := newSandbox(t, -30, common.Vec3{0, 1.2, 0})
	s.env.Space.AddStaticBox(999, common.Vec3{0, -1, 0}, 40, 2, physics.LayerGround)

	s.fixed(60)

	m, _ := ecs.Get(s.w, s.player, component.MotorComponent.Kind())
	assert.True(t, m.Motor.Grounded())

	tr, _ := ecs.Get(s.w, s.player, component.TransformComponent.Kind())
	assert.Equal(t, s.body().Position(), tr.Position)
	assert.InDelta(t, 1, tr.Position.Y(), 0.2)
}

func TestTTLSystemDestroysExpired(t *testing.T) {
	w := ecs.NewWorld()
	e := entity.SpawnEffect(w, component.EffectImpact, common.Vec3{}, 0.2, nil, 0.25)
	ttl := NewTTLSystem(&Clock{FrameDelta: 0.125})

	ttl.Update(w)
	assert.True(t, ecs.IsAlive(w, e))
	ttl.Update(w)
	assert.False(t, ecs.IsAlive(w, e))
}

func TestRespawnBelowKillFloor(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{0, -20, 0})
	bounds := ecs.CreateEntity(s.w)
	require.NoError(t, ecs.Add(s.w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Name:  "test",
		MinY:  -10,
		Spawn: common.Vec3{0, 3, 0},
		Yaw:   90,
	}))

	s.env.Space.AddStaticBox(999, common.Vec3{10, -19.2, 0}, 2, 2, physics.LayerGrapple)
	g, _ := ecs.Get(s.w, s.player, component.GrappleComponent.Kind())
	ok, err := g.Controller.Engage()
	require.NoError(t, err)
	require.True(t, ok)

	s.body().SetVelocity(common.Vec3{0, -5, 0})
	NewRespawnSystem(nil).Update(s.w)

	assert.Equal(t, common.Vec3{0, 3, 0}, s.body().Position())
	assert.Equal(t, common.Vec3{}, s.body().Velocity())
	assert.False(t, g.Controller.IsGrappling())

	NewRespawnSystem(nil).Update(s.w)
	assert.Equal(t, common.Vec3{0, 3, 0}, s.body().Position())
}

func TestWallRunSystemSeesWall(t *testing.T) {
	s := newSandbox(t, 0, common.Vec3{0.1, 0, 0})
	s.env.Space.AddStaticBox(999, common.Vec3{1.5, 0, 0}, 2, 4, physics.LayerGround)

	wr, _ := ecs.Get(s.w, s.player, component.WallRunComponent.Kind())
	require.NoError(t, wr.Rule.Reload([]byte(`wallrunning := wall_contact && !grounded`)))

	NewPhysicsSystem(s.env.Space, s.clock).Update(s.w)
	walls := NewWallRunSystem(s.env.Space, nil)
	walls.Update(s.w)
	assert.True(t, wr.Rule.Override().Active)

	require.NoError(t, wr.Rule.Reload([]byte(`x := 1`)))
	walls.Update(s.w)
	assert.False(t, wr.Rule.Override().Active)
}

func TestTouchingWallIgnoresFloorsAndTargets(t *testing.T) {
	assert.False(t, touchingWall([]physics.Contact{{Normal: common.Vec3{0, 1, 0}, Layer: physics.LayerGround}}))
	assert.False(t, touchingWall([]physics.Contact{{Normal: common.Vec3{1, 0, 0}, Layer: physics.LayerTarget}}))
	assert.True(t, touchingWall([]physics.Contact{{Normal: common.Vec3{-1, 0.1, 0}, Layer: physics.LayerGround}}))
}

func TestViewProjection(t *testing.T) {
	v := view{camX: 10, camY: 5, scale: 10, halfW: 100, halfH: 50}

	x, y := v.toScreen(common.Vec3{11, 6, 0})
	assert.InDelta(t, 110, x, 1e-4)
	assert.InDelta(t, 40, y, 1e-4)

	rx, ry, w, h := v.rect(common.Vec3{10, 5, 0}, 2, 4)
	assert.InDelta(t, 90, rx, 1e-4)
	assert.InDelta(t, 30, ry, 1e-4)
	assert.InDelta(t, 20, w, 1e-4)
	assert.InDelta(t, 40, h, 1e-4)
}
