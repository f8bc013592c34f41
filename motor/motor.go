// Package motor implements a force-based first-person character controller.
//
// The motor never moves the body directly except to clamp velocity. Every
// other change is a force handed to the solver, so it composes with gravity,
// springs, and knockback applied by other systems in the same step.
package motor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
)

var ErrMissingReference = errors.New("motor: missing reference")

// Orientation supplies the yaw the player is looking along, in degrees.
type Orientation interface {
	Yaw() float64
}

type Collider interface {
	Height() float64
	SetHeight(h float64)
}

type Camera interface {
	LocalOffset() common.Vec3
	SetLocalOffset(offset common.Vec3)
}

type Refs struct {
	Body        physics.Body
	Orientation Orientation
	Collider    Collider
	Camera      Camera
}

// Intent is the per-frame movement request. X strafes, Y moves forward.
type Intent struct {
	X    float64
	Y    float64
	Jump bool
}

// WallRun is an override supplied by an external detector. The motor reads it
// every tick, so clearing Active restores normal movement on the next tick.
type WallRun struct {
	Active bool
}

// State is a snapshot of the controller.
type State struct {
	Velocity     common.Vec3
	Grounded     bool
	GroundNormal common.Vec3
	Mode         Mode
	JumpReady    bool
	CrouchActive bool
}

type Motor struct {
	settings Settings
	refs     Refs

	intent  Intent
	wallRun *WallRun

	grounded     bool
	groundNormal common.Vec3
	cancelling   bool
	groundTimer  common.Timer

	jumpReady bool
	jumpTimer common.Timer

	crouching   bool
	standHeight float64
	// cameraDrop is the offset StartCrouch applied, undone by StopCrouch.
	cameraDrop  float64

	mode Mode
}

// New validates refs and returns a motor ready to jump.
//
// Postcondition: Returns an error wrapping ErrMissingReference naming every nil ref.
func New(refs Refs, settings Settings) (*Motor, error) {
	var missing []string
	if refs.Body == nil {
		missing = append(missing, "body")
	}
	if refs.Orientation == nil {
		missing = append(missing, "orientation")
	}
	if refs.Collider == nil {
		missing = append(missing, "collider")
	}
	if refs.Camera == nil {
		missing = append(missing, "camera")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, strings.Join(missing, ", "))
	}

	return &Motor{
		settings:    settings,
		refs:        refs,
		jumpReady:   true,
		standHeight: refs.Collider.Height(),
		mode:        Walking,
	}, nil
}

func (m *Motor) Settings() Settings {
	return m.settings
}

// ApplySettings swaps tuning values without touching runtime state.
func (m *Motor) ApplySettings(s Settings) {
	m.settings = s
}

func (m *Motor) SetIntent(in Intent) {
	in.X = common.Clamp(in.X, -1, 1)
	in.Y = common.Clamp(in.Y, -1, 1)
	m.intent = in
}

func (m *Motor) SetWallRun(w *WallRun) {
	m.wallRun = w
}

func (m *Motor) Grounded() bool {
	return m.grounded
}

func (m *Motor) Crouching() bool {
	return m.crouching
}

func (m *Motor) JumpReady() bool {
	return m.jumpReady
}

func (m *Motor) Mode() Mode {
	return m.mode
}

func (m *Motor) State() State {
	normal := common.Vec3{}
	if m.grounded {
		normal = m.groundNormal
	}
	return State{
		Velocity:     m.refs.Body.Velocity(),
		Grounded:     m.grounded,
		GroundNormal: normal,
		Mode:         m.mode,
		JumpReady:    m.jumpReady,
		CrouchActive: m.crouching,
	}
}

func (m *Motor) wallRunning() bool {
	return m.wallRun != nil && m.wallRun.Active
}

// moveSpeed is recomputed every tick so a wall-run override never sticks.
func (m *Motor) moveSpeed() float64 {
	if m.wallRunning() {
		return m.settings.WallRunSpeed
	}
	return m.settings.MoveSpeed
}

// FixedUpdate runs one physics tick of locomotion. now is the fixed clock in
// seconds and dt the tick length.
func (m *Motor) FixedUpdate(dt, now float64) {
	m.pollTimers(now)
	m.move(dt, now)
	m.mode = Classify(m.refs.Body.Velocity(), m.grounded, m.crouching, m.wallRunning(), m.settings)
}

func (m *Motor) pollTimers(now float64) {
	if m.jumpTimer.Fire(now) {
		m.jumpReady = true
	}
	if m.groundTimer.Fire(now) {
		m.grounded = false
	}
}

func (m *Motor) move(dt, now float64) {
	body := m.refs.Body
	s := m.settings

	// Extra gravity keeps the body pressed onto slopes.
	body.AddForce(common.Down.Mul(dt * s.GroundBias))

	xMag, yMag := m.VelocityRelativeToLook()
	x, y := m.intent.X, m.intent.Y

	m.counterMovement(dt, x, y, xMag, yMag)

	if m.jumpReady && m.intent.Jump {
		m.Jump(now)
	}

	if m.crouching && m.grounded && m.jumpReady {
		body.AddForce(common.Down.Mul(dt * s.SlideDownForce))
		return
	}

	if x > 0 && xMag > s.MaxSpeed {
		x = 0
	}
	if x < 0 && xMag < -s.MaxSpeed {
		x = 0
	}
	if y > 0 && yMag > s.MaxSpeed {
		y = 0
	}
	if y < 0 && yMag < -s.MaxSpeed {
		y = 0
	}

	multiplier, multiplierV := 1.0, 1.0
	if !m.grounded {
		multiplier = s.AirMultiplier
		multiplierV = s.AirMultiplier
	}
	if m.grounded && m.crouching {
		multiplierV = 0
	}

	yaw := m.refs.Orientation.Yaw()
	speed := m.moveSpeed()
	if y != 0 && multiplierV != 0 {
		body.AddForce(common.YawForward(yaw).Mul(y * speed * dt * multiplier * multiplierV))
	}
	if x != 0 {
		body.AddForce(common.YawRight(yaw).Mul(x * speed * dt * multiplier))
	}
}

func (m *Motor) counterMovement(dt, x, y, xMag, yMag float64) {
	if !m.grounded || m.intent.Jump {
		return
	}

	body := m.refs.Body
	s := m.settings
	speed := m.moveSpeed()

	if m.crouching {
		if dir, ok := common.SafeNormalize(body.Velocity()); ok {
			body.AddForce(dir.Mul(-speed * dt * s.SlideCounterMovement))
		}
		return
	}

	yaw := m.refs.Orientation.Yaw()
	thr := s.CounterThreshold
	if (math.Abs(xMag) > thr && math.Abs(x) < 0.05) || (xMag < -thr && x > 0) || (xMag > thr && x < 0) {
		body.AddForce(common.YawRight(yaw).Mul(speed * dt * -xMag * s.CounterMovement))
	}
	if (math.Abs(yMag) > thr && math.Abs(y) < 0.05) || (yMag < -thr && y > 0) || (yMag > thr && y < 0) {
		body.AddForce(common.YawForward(yaw).Mul(speed * dt * -yMag * s.CounterMovement))
	}

	m.capSpeed()
}

// capSpeed rescales horizontal velocity to MaxSpeed and leaves the vertical
// component untouched.
func (m *Motor) capSpeed() {
	body := m.refs.Body
	v := body.Velocity()
	lateral := common.HorizontalLen(v)
	if lateral <= m.settings.MaxSpeed {
		return
	}
	k := m.settings.MaxSpeed / lateral
	body.SetVelocity(common.Vec3{v.X() * k, v.Y(), v.Z() * k})
}

// VelocityRelativeToLook splits velocity into its strafe (x) and forward (y)
// magnitudes relative to the current look yaw. The magnitude is the full
// speed, vertical included; only the heading is horizontal.
func (m *Motor) VelocityRelativeToLook() (xMag, yMag float64) {
	v := m.refs.Body.Velocity()
	mag := v.Len()
	if mag == 0 {
		return 0, 0
	}
	u := common.DeltaAngle(m.refs.Orientation.Yaw(), common.Heading(v))
	w := 90 - u
	yMag = mag * math.Cos(common.Deg2Rad(u))
	xMag = mag * math.Cos(common.Deg2Rad(w))
	return xMag, yMag
}

// Jump applies the jump force when grounded and off cooldown. It reports
// whether the jump happened.
func (m *Motor) Jump(now float64) bool {
	if !m.grounded || !m.jumpReady {
		return false
	}
	m.jumpReady = false

	body := m.refs.Body
	s := m.settings
	body.AddForce(common.Up.Mul(s.JumpForce * 1.5))
	body.AddForce(m.groundNormal.Mul(s.JumpForce * 0.5))

	v := body.Velocity()
	if v.Y() < 0.5 {
		body.SetVelocity(common.Vec3{v.X(), 0, v.Z()})
	} else if v.Y() > 0 {
		body.SetVelocity(common.Vec3{v.X(), v.Y() / 2, v.Z()})
	}

	m.jumpTimer.Schedule(now, s.JumpCooldown)
	return true
}

// StartCrouch shrinks the collider, drops the camera, and kicks a slide when
// already moving on the ground. Repeated calls are no-ops.
func (m *Motor) StartCrouch() {
	if m.crouching {
		return
	}
	m.crouching = true

	m.refs.Collider.SetHeight(m.settings.CrouchHeight)
	off := m.refs.Camera.LocalOffset()
	m.cameraDrop = m.settings.CrouchCameraDrop
	m.refs.Camera.SetLocalOffset(off.Sub(common.Vec3{0, m.cameraDrop, 0}))

	body := m.refs.Body
	if body.Velocity().Len() > m.settings.SlideSpeedThreshold && m.grounded {
		body.AddForce(common.YawForward(m.refs.Orientation.Yaw()).Mul(m.settings.SlideForce))
	}
}

// StopCrouch exactly reverses StartCrouch's collider and camera changes.
func (m *Motor) StopCrouch() {
	if !m.crouching {
		return
	}
	m.crouching = false

	m.refs.Collider.SetHeight(m.standHeight)
	off := m.refs.Camera.LocalOffset()
	m.refs.Camera.SetLocalOffset(off.Add(common.Vec3{0, m.cameraDrop, 0}))
	m.cameraDrop = 0
}

func (m *Motor) isFloor(normal common.Vec3) bool {
	return common.AngleBetween(common.Up, normal) < m.settings.MaxSlopeAngle
}

// OnCollision refreshes grounding from the contacts of the last step. A floor
// contact keeps grounded alive for GroundDebounceTicks more ticks.
func (m *Motor) OnCollision(contacts []physics.Contact, dt, now float64) {
	for _, c := range contacts {
		if !m.settings.GroundMask.Has(c.Layer) {
			continue
		}
		if m.isFloor(c.Normal) {
			m.grounded = true
			m.cancelling = false
			m.groundNormal = c.Normal
			m.groundTimer.Cancel()
		}
	}

	if !m.cancelling {
		m.cancelling = true
		m.groundTimer.Schedule(now, dt*m.settings.GroundDebounceTicks)
	}
}
