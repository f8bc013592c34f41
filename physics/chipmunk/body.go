package chipmunk

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
)

// Body adapts a dynamic box to physics.Body and doubles as its collider.
type Body struct {
	owner  *Space
	body   *cp.Body
	shape  *cp.Shape
	entity uint64
	layer  physics.LayerMask
	width  float64
	height float64
}

func vec(v common.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

func (b *Body) Entity() uint64 {
	return b.entity
}

func (b *Body) Position() common.Vec3 {
	p := b.body.Position()
	return common.Vec3{p.X, p.Y, 0}
}

// SetPosition teleports the body. Used for spawning and respawning.
func (b *Body) SetPosition(p common.Vec3) {
	b.body.SetPosition(vec(p))
}

func (b *Body) Velocity() common.Vec3 {
	v := b.body.Velocity()
	return common.Vec3{v.X, v.Y, 0}
}

func (b *Body) SetVelocity(v common.Vec3) {
	b.body.SetVelocityVector(vec(v))
}

func (b *Body) AddForce(f common.Vec3) {
	b.body.ApplyForceAtWorldPoint(vec(f), b.body.Position())
}

func (b *Body) AddImpulse(j common.Vec3) {
	b.body.ApplyImpulseAtWorldPoint(vec(j), b.body.Position())
}

func (b *Body) AddExplosionForce(force float64, point common.Vec3, radius, upward float64) {
	b.AddImpulse(physics.ExplosionImpulse(b.Position(), force, point, radius, upward))
}

func (b *Body) Mass() float64 {
	return b.body.Mass()
}

func (b *Body) Width() float64 {
	return b.width
}

func (b *Body) Height() float64 {
	return b.height
}

// SetHeight rebuilds the box around the same center.
func (b *Body) SetHeight(h float64) {
	if h <= 0 || h == b.height {
		return
	}
	s := b.owner
	old := b.shape
	delete(s.shapes, old)
	if s.space.ContainsShape(old) {
		s.space.RemoveShape(old)
	}

	b.height = h
	b.shape = s.newBodyShape(b)
	s.shapes[b.shape] = shapeMeta{entity: b.entity, layer: b.layer, body: b}

	list := s.entities[b.entity]
	for i, shape := range list {
		if shape == old {
			list[i] = b.shape
		}
	}
}

var _ physics.Body = (*Body)(nil)
