// Package physicstest provides recording fakes of the physics services.
package physicstest

import (
	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
)

type Explosion struct {
	Force  float64
	Point  common.Vec3
	Radius float64
	Upward float64
}

// Body records every force it receives. Forces do not integrate; tests set
// Vel and Pos directly.
type Body struct {
	Pos        common.Vec3
	Vel        common.Vec3
	BodyMass   float64
	Forces     []common.Vec3
	Impulses   []common.Vec3
	Explosions []Explosion
}

var _ physics.Body = (*Body)(nil)

func NewBody() *Body {
	return &Body{BodyMass: 1}
}

func (b *Body) Position() common.Vec3 { return b.Pos }
func (b *Body) Velocity() common.Vec3 { return b.Vel }
func (b *Body) SetVelocity(v common.Vec3) { b.Vel = v }
func (b *Body) AddForce(f common.Vec3) { b.Forces = append(b.Forces, f) }
func (b *Body) AddImpulse(j common.Vec3) { b.Impulses = append(b.Impulses, j) }
func (b *Body) Mass() float64 { return b.BodyMass }

func (b *Body) AddExplosionForce(force float64, point common.Vec3, radius, upward float64) {
	b.Explosions = append(b.Explosions, Explosion{Force: force, Point: point, Radius: radius, Upward: upward})
}

// TotalForce sums every recorded force.
func (b *Body) TotalForce() common.Vec3 {
	var sum common.Vec3
	for _, f := range b.Forces {
		sum = sum.Add(f)
	}
	return sum
}

func (b *Body) Reset() {
	b.Forces = nil
	b.Impulses = nil
	b.Explosions = nil
}

type RaycastCall struct {
	Origin      common.Vec3
	Dir         common.Vec3
	MaxDistance float64
	Mask        physics.LayerMask
}

// Raycaster returns Result for every cast whose distance is within range and
// whose layer passes the mask.
type Raycaster struct {
	Result *physics.Hit
	Calls  []RaycastCall
}

var _ physics.Raycaster = (*Raycaster)(nil)

func (r *Raycaster) Raycast(origin, dir common.Vec3, maxDistance float64, mask physics.LayerMask) (physics.Hit, bool) {
	r.Calls = append(r.Calls, RaycastCall{Origin: origin, Dir: dir, MaxDistance: maxDistance, Mask: mask})
	if r.Result == nil {
		return physics.Hit{}, false
	}
	if r.Result.Distance > maxDistance {
		return physics.Hit{}, false
	}
	if r.Result.Layer != 0 && !mask.Has(r.Result.Layer) {
		return physics.Hit{}, false
	}
	return *r.Result, true
}

type Joint struct {
	Anchor    common.Vec3
	Params    physics.SpringParams
	Destroyed int
}

func (j *Joint) Destroy() {
	j.Destroyed++
}

// Joints records every spring attached through it.
type Joints struct {
	Created []*Joint
	Err     error
}

var _ physics.JointFactory = (*Joints)(nil)

func (f *Joints) AttachSpring(_ physics.Body, anchor common.Vec3, params physics.SpringParams) (physics.Joint, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	j := &Joint{Anchor: anchor, Params: params}
	f.Created = append(f.Created, j)
	return j, nil
}

// Live counts joints that were created and never destroyed.
func (f *Joints) Live() int {
	n := 0
	for _, j := range f.Created {
		if j.Destroyed == 0 {
			n++
		}
	}
	return n
}
