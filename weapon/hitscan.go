package weapon

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/observability"
	"github.com/milk9111/grapplefps/physics"
)

type Settings struct {
	Damage      float64 `yaml:"damage"`
	Range       float64 `yaml:"range"`
	ImpactForce float64 `yaml:"impact_force"`
	FireRate    float64 `yaml:"fire_rate"`
	Automatic   bool    `yaml:"automatic"`
	// SelfPropel weapons push the wielder away from nearby hits.
	SelfPropel       bool              `yaml:"self_propel"`
	RocketJumpForce  float64           `yaml:"rocket_jump_force"`
	RocketJumpRadius float64           `yaml:"rocket_jump_radius"`
	RocketJumpUpward float64           `yaml:"rocket_jump_upward"`
	ImpactLifetime   float64           `yaml:"impact_lifetime"`
	Mask             physics.LayerMask `yaml:"mask"`
}

func DefaultSettings() Settings {
	return Settings{
		Damage:         10,
		Range:          100,
		ImpactForce:    30,
		FireRate:       1,
		ImpactLifetime: 2,
		Mask:           physics.LayerAll &^ physics.LayerPlayer,
	}
}

type Damageable interface {
	// TakeDamage reports whether this call destroyed the target.
	TakeDamage(amount float64) bool
}

// Targets maps a ray hit to the damageable it struck, if any.
type Targets interface {
	DamageableAt(hit physics.Hit) (Damageable, bool)
}

type Effects interface {
	PlayMuzzle()
	SpawnImpact(point, normal common.Vec3, lifetime float64)
}

type Recoil interface {
	Kick()
}

type Aim interface {
	Origin() common.Vec3
	Direction() common.Vec3
}

// GrappleState reports whether the wielder is hanging from a rope.
type GrappleState interface {
	IsGrappling() bool
}

// HitscanRefs wire a weapon to its scene. Targets and Grapple may be nil.
// Wielder is required only for self-propelling weapons.
type HitscanRefs struct {
	Raycaster physics.Raycaster
	Aim       Aim
	Effects   Effects
	Recoil    Recoil
	Targets   Targets
	Grapple   GrappleState
	Wielder   physics.Body
}

type HitscanOption func(*Hitscan)

func WithHitscanLogger(l *zap.Logger) HitscanOption {
	return func(h *Hitscan) {
		h.logger = observability.OrNop(l)
	}
}

type Hitscan struct {
	settings Settings
	refs     HitscanRefs
	fire     FireControl
	active   bool
	logger   *zap.Logger
}

// NewHitscan validates refs and returns an active weapon ready to fire.
//
// Postcondition: Returns an error wrapping ErrMissingReference naming every missing ref.
func NewHitscan(refs HitscanRefs, settings Settings, opts ...HitscanOption) (*Hitscan, error) {
	var missing []string
	if refs.Raycaster == nil {
		missing = append(missing, "raycaster")
	}
	if refs.Aim == nil {
		missing = append(missing, "aim")
	}
	if refs.Effects == nil {
		missing = append(missing, "effects")
	}
	if refs.Recoil == nil {
		missing = append(missing, "recoil")
	}
	if settings.SelfPropel && refs.Wielder == nil {
		missing = append(missing, "wielder")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, strings.Join(missing, ", "))
	}

	h := &Hitscan{
		settings: settings,
		refs:     refs,
		fire:     FireControl{FireRate: settings.FireRate},
		active:   true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Hitscan) Settings() Settings {
	return h.settings
}

func (h *Hitscan) ApplySettings(s Settings) {
	h.settings = s
	h.fire.FireRate = s.FireRate
}

func (h *Hitscan) FireControl() FireControl {
	return h.fire
}

// SetActive lets a Selector slot toggle this weapon. Inactive weapons ignore
// the trigger.
func (h *Hitscan) SetActive(active bool) {
	h.active = active
}

func (h *Hitscan) Active() bool {
	return h.active
}

// Trigger fires when the button state matches the weapon's mode and the fire
// rate allows it. pressed is the down edge and held the level. Nothing happens
// while the wielder is grappling, and the fire timer is left untouched.
func (h *Hitscan) Trigger(pressed, held bool, now float64) bool {
	if !h.active {
		return false
	}
	want := pressed
	if h.settings.Automatic {
		want = held
	}
	if !want || !h.fire.Ready(now) {
		return false
	}
	if h.refs.Grapple != nil && h.refs.Grapple.IsGrappling() {
		return false
	}

	h.fire.Consume(now)
	h.shoot()
	return true
}

func (h *Hitscan) shoot() {
	h.refs.Effects.PlayMuzzle()
	h.refs.Recoil.Kick()

	dir, ok := common.SafeNormalize(h.refs.Aim.Direction())
	if !ok {
		return
	}
	hit, ok := h.refs.Raycaster.Raycast(h.refs.Aim.Origin(), dir, h.settings.Range, h.settings.Mask)
	if !ok {
		return
	}

	if h.refs.Targets != nil {
		if target, found := h.refs.Targets.DamageableAt(hit); found {
			if target.TakeDamage(h.settings.Damage) {
				h.logger.Debug("hitscan destroyed target", zap.Uint64("entity", hit.Entity))
			}
		}
	}

	if hit.Body != nil {
		hit.Body.AddImpulse(hit.Normal.Mul(-h.settings.ImpactForce))
	}

	h.refs.Effects.SpawnImpact(hit.Point, hit.Normal, h.settings.ImpactLifetime)

	if h.settings.SelfPropel {
		s := h.settings
		wielder := h.refs.Wielder
		if wielder.Position().Sub(hit.Point).Len() <= s.RocketJumpRadius {
			wielder.AddExplosionForce(s.RocketJumpForce, hit.Point, s.RocketJumpRadius, s.RocketJumpUpward)
		}
	}

	h.logger.Debug("hitscan hit",
		zap.Uint64("entity", hit.Entity),
		zap.Float64s("point", hit.Point[:]),
		zap.Float64("distance", hit.Distance),
	)
}
