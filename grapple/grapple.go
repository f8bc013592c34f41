// Package grapple owns the rope constraint between the player and a grappled
// surface.
package grapple

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/observability"
	"github.com/milk9111/grapplefps/physics"
)

var (
	ErrMissingReference = errors.New("grapple: missing reference")
	ErrNotGrappling     = errors.New("grapple: not grappling")
)

// Aim is the ray the grapple is fired along, usually the camera.
type Aim interface {
	Origin() common.Vec3
	Direction() common.Vec3
}

// Tip is where the rope leaves the gun.
type Tip interface {
	TipPosition() common.Vec3
}

type Settings struct {
	MaxDistance float64 `yaml:"max_distance"`
	Spring      float64 `yaml:"spring"`
	Damper      float64 `yaml:"damper"`
	MassScale   float64 `yaml:"mass_scale"`
	// MaxRatio and MinRatio scale the hit distance into the rope limits.
	MaxRatio float64           `yaml:"max_ratio"`
	MinRatio float64           `yaml:"min_ratio"`
	Mask     physics.LayerMask `yaml:"mask"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxDistance: 100,
		Spring:      4.5,
		Damper:      7,
		MassScale:   4.5,
		MaxRatio:    0.8,
		MinRatio:    0.25,
		Mask:        physics.LayerGrapple,
	}
}

type Refs struct {
	Raycaster physics.Raycaster
	Joints    physics.JointFactory
	Body      physics.Body
	Aim       Aim
	Tip       Tip
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = observability.OrNop(l)
	}
}

// State is a snapshot of the rope. Anchor and Params are zero while detached.
type State struct {
	Attached bool
	Anchor   common.Vec3
	Params   physics.SpringParams
}

type Controller struct {
	settings Settings
	refs     Refs
	logger   *zap.Logger

	joint  physics.Joint
	anchor common.Vec3
	params physics.SpringParams
}

// New validates refs and returns a detached controller.
//
// Postcondition: Returns an error wrapping ErrMissingReference naming every nil ref.
func New(refs Refs, settings Settings, opts ...Option) (*Controller, error) {
	var missing []string
	if refs.Raycaster == nil {
		missing = append(missing, "raycaster")
	}
	if refs.Joints == nil {
		missing = append(missing, "joints")
	}
	if refs.Body == nil {
		missing = append(missing, "body")
	}
	if refs.Aim == nil {
		missing = append(missing, "aim")
	}
	if refs.Tip == nil {
		missing = append(missing, "tip")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, strings.Join(missing, ", "))
	}

	c := &Controller{
		settings: settings,
		refs:     refs,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// ApplySettings takes effect on the next engage. A live rope keeps its limits.
func (c *Controller) ApplySettings(s Settings) {
	c.settings = s
}

func (c *Controller) IsGrappling() bool {
	return c.joint != nil
}

// GrapplePoint returns the anchor, or ErrNotGrappling while detached.
func (c *Controller) GrapplePoint() (common.Vec3, error) {
	if c.joint == nil {
		return common.Vec3{}, ErrNotGrappling
	}
	return c.anchor, nil
}

func (c *Controller) State() State {
	if c.joint == nil {
		return State{}
	}
	return State{Attached: true, Anchor: c.anchor, Params: c.params}
}

// SpringFor returns the rope parameters for an anchor at distance d.
func (s Settings) SpringFor(d float64) physics.SpringParams {
	return physics.SpringParams{
		MaxDistance: d * s.MaxRatio,
		MinDistance: d * s.MinRatio,
		Spring:      s.Spring,
		Damper:      s.Damper,
		MassScale:   s.MassScale,
	}
}

// Engage casts along the aim and attaches a spring at the first grappable hit.
// A miss leaves the current state untouched. A hit always releases any
// existing rope before the new one is attached.
func (c *Controller) Engage() (bool, error) {
	origin := c.refs.Aim.Origin()
	dir, ok := common.SafeNormalize(c.refs.Aim.Direction())
	if !ok {
		return false, nil
	}

	hit, ok := c.refs.Raycaster.Raycast(origin, dir, c.settings.MaxDistance, c.settings.Mask)
	if !ok {
		return false, nil
	}

	c.Disengage()

	d := c.refs.Body.Position().Sub(hit.Point).Len()
	params := c.settings.SpringFor(d)
	joint, err := c.refs.Joints.AttachSpring(c.refs.Body, hit.Point, params)
	if err != nil {
		return false, fmt.Errorf("grapple: attach spring: %w", err)
	}

	c.joint = joint
	c.anchor = hit.Point
	c.params = params
	c.logger.Debug("grapple engaged",
		zap.Float64("distance", d),
		zap.Float64s("anchor", hit.Point[:]),
		zap.Uint64("entity", hit.Entity),
	)
	return true, nil
}

// Disengage destroys the rope. It reports whether a rope was released, and is
// a no-op while detached.
func (c *Controller) Disengage() bool {
	if c.joint == nil {
		return false
	}
	c.joint.Destroy()
	c.joint = nil
	c.anchor = common.Vec3{}
	c.params = physics.SpringParams{}
	c.logger.Debug("grapple released")
	return true
}

// HandleInput maps the grapple button edges. A press and release in the same
// frame engages and then releases.
func (c *Controller) HandleInput(press, release bool) error {
	if press {
		if _, err := c.Engage(); err != nil {
			return err
		}
	}
	if release {
		c.Disengage()
	}
	return nil
}

// Disable releases the rope when the owner is switched off.
func (c *Controller) Disable() {
	c.Disengage()
}

// Rope returns the endpoints to draw this frame: the gun tip and the anchor.
// ok is false while detached.
func (c *Controller) Rope() (start, end common.Vec3, ok bool) {
	if c.joint == nil {
		return common.Vec3{}, common.Vec3{}, false
	}
	return c.refs.Tip.TipPosition(), c.anchor, true
}
