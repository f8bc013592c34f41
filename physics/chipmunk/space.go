// Package chipmunk runs the physics services on a Chipmunk2D space.
//
// The sandbox is a vertical slice: world X and Y map onto the solver plane
// and Z is dropped. Layer bits become shape filter categories so raycasts can
// select colliders by mask.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
	"go.uber.org/zap"
)

const (
	collisionTypeDynamic cp.CollisionType = iota + 1
	collisionTypeStatic
)

const defaultFriction = 0.0

type shapeMeta struct {
	entity uint64
	layer  physics.LayerMask
	body   *Body
}

// Space owns the solver and every body, shape, and spring created through it.
type Space struct {
	space         *cp.Space
	handlersReady bool
	logger        *zap.Logger

	shapes   map[*cp.Shape]shapeMeta
	bodies   map[*cp.Body]*Body
	entities map[uint64][]*cp.Shape
	contacts map[*Body][]physics.Contact
	ropes    map[*rope]struct{}
}

type Option func(*Space)

func WithLogger(l *zap.Logger) Option {
	return func(s *Space) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSpace creates a space pulling along -Y by gravity.
func NewSpace(gravity float64, iterations int, opts ...Option) *Space {
	space := cp.NewSpace()
	if iterations <= 0 {
		iterations = 20
	}
	space.Iterations = uint(iterations)
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	s := &Space{
		space:    space,
		logger:   zap.NewNop(),
		shapes:   make(map[*cp.Shape]shapeMeta),
		bodies:   make(map[*cp.Body]*Body),
		entities: make(map[uint64][]*cp.Shape),
		contacts: make(map[*Body][]physics.Contact),
		ropes:    make(map[*rope]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Space exposes the underlying solver for debug drawing.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Space) ensureHandlers() {
	if s.handlersReady {
		return
	}
	h := s.space.NewCollisionHandler(collisionTypeDynamic, collisionTypeStatic)
	h.PreSolveFunc = s.recordContact
	h = s.space.NewCollisionHandler(collisionTypeDynamic, collisionTypeDynamic)
	h.PreSolveFunc = s.recordContact
	s.handlersReady = true
}

// recordContact stores a contact for each dynamic body in the pair. The
// arbiter normal points from shape A to shape B.
func (s *Space) recordContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Shapes()
	ma, okA := s.shapes[a]
	mb, okB := s.shapes[b]
	n := arb.Normal()
	if okA && ma.body != nil {
		s.contacts[ma.body] = append(s.contacts[ma.body], physics.Contact{
			Normal: common.Vec3{-n.X, -n.Y, 0},
			Layer:  mb.layer,
			Entity: mb.entity,
		})
	}
	if okB && mb.body != nil {
		s.contacts[mb.body] = append(s.contacts[mb.body], physics.Contact{
			Normal: common.Vec3{n.X, n.Y, 0},
			Layer:  ma.layer,
			Entity: ma.entity,
		})
	}
	return true
}

// Step advances the solver. Contacts reported afterwards belong to this step.
func (s *Space) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	s.ensureHandlers()
	clear(s.contacts)
	s.space.Step(dt)
}

// Contacts returns what touched b during the last step.
func (s *Space) Contacts(b *Body) []physics.Contact {
	if s == nil || b == nil {
		return nil
	}
	return s.contacts[b]
}

func filterFor(layer physics.LayerMask) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES)
}

func (s *Space) track(entity uint64, shape *cp.Shape, layer physics.LayerMask, body *Body) {
	s.shapes[shape] = shapeMeta{entity: entity, layer: layer, body: body}
	s.entities[entity] = append(s.entities[entity], shape)
}

// AddStaticBox adds level geometry centered at center.
func (s *Space) AddStaticBox(entity uint64, center common.Vec3, width, height float64, layer physics.LayerMask) {
	hw, hh := width/2, height/2
	bb := cp.BB{L: center.X() - hw, B: center.Y() - hh, R: center.X() + hw, T: center.Y() + hh}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(1)
	shape.SetCollisionType(collisionTypeStatic)
	shape.SetFilter(filterFor(layer))
	s.space.AddShape(shape)
	s.track(entity, shape, layer, nil)
}

// AddDynamicBox adds a rotation-locked box body centered at center.
func (s *Space) AddDynamicBox(entity uint64, center common.Vec3, width, height, mass float64, layer physics.LayerMask) *Body {
	if mass <= 0 {
		mass = 1
	}
	cb := s.space.AddBody(cp.NewBody(mass, math.Inf(1)))
	cb.SetPosition(cp.Vector{X: center.X(), Y: center.Y()})

	b := &Body{
		owner:  s,
		body:   cb,
		entity: entity,
		layer:  layer,
		width:  width,
		height: height,
	}
	b.shape = s.newBodyShape(b)
	s.bodies[cb] = b
	s.track(entity, b.shape, layer, b)
	return b
}

func (s *Space) newBodyShape(b *Body) *cp.Shape {
	shape := cp.NewBox(b.body, b.width, b.height, 0)
	shape.SetFriction(defaultFriction)
	shape.SetCollisionType(collisionTypeDynamic)
	shape.SetFilter(filterFor(b.layer))
	return s.space.AddShape(shape)
}

// Remove drops every shape and body belonging to entity.
func (s *Space) Remove(entity uint64) {
	shapes, ok := s.entities[entity]
	if !ok {
		return
	}
	for _, shape := range shapes {
		meta := s.shapes[shape]
		delete(s.shapes, shape)
		if s.space.ContainsShape(shape) {
			s.space.RemoveShape(shape)
		}
		if meta.body != nil {
			s.releaseBody(meta.body)
		}
	}
	delete(s.entities, entity)
}

func (s *Space) releaseBody(b *Body) {
	for r := range s.ropes {
		if r.body == b {
			r.Destroy()
		}
	}
	delete(s.contacts, b)
	delete(s.bodies, b.body)
	if s.space.ContainsBody(b.body) {
		s.space.RemoveBody(b.body)
	}
}

// Raycast returns the first shape along dir whose layer is in mask.
func (s *Space) Raycast(origin, dir common.Vec3, maxDistance float64, mask physics.LayerMask) (physics.Hit, bool) {
	d, ok := common.SafeNormalize(common.Vec3{dir.X(), dir.Y(), 0})
	if !ok || maxDistance <= 0 {
		return physics.Hit{}, false
	}
	start := cp.Vector{X: origin.X(), Y: origin.Y()}
	end := start.Add(cp.Vector{X: d.X(), Y: d.Y()}.Mult(maxDistance))

	info := s.space.SegmentQueryFirst(start, end, 0, cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask)))
	if info.Shape == nil {
		return physics.Hit{}, false
	}

	meta := s.shapes[info.Shape]
	hit := physics.Hit{
		Point:    common.Vec3{info.Point.X, info.Point.Y, origin.Z()},
		Normal:   common.Vec3{info.Normal.X, info.Normal.Y, 0},
		Distance: maxDistance * info.Alpha,
		Entity:   meta.entity,
		Layer:    meta.layer,
	}
	if meta.body != nil {
		hit.Body = meta.body
	}
	return hit, true
}

// LiveJoints counts springs currently in the solver.
func (s *Space) LiveJoints() int {
	return len(s.ropes)
}
