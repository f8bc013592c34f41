package chipmunk

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
	"go.uber.org/zap"
)

// rope is a damped spring that only pulls outside [MinDistance, MaxDistance].
type rope struct {
	owner      *Space
	body       *Body
	constraint *cp.Constraint
	params     physics.SpringParams
}

// bandForce is zero inside the slack band and linear outside it. Negative
// values pull the ends together.
func bandForce(minDist, maxDist, stiffness float64) cp.DampedSpringForceFunc {
	return func(_ *cp.DampedSpring, dist float64) float64 {
		switch {
		case dist > maxDist:
			return (maxDist - dist) * stiffness
		case dist < minDist:
			return (minDist - dist) * stiffness
		default:
			return 0
		}
	}
}

// AttachSpring ties body to a fixed world anchor.
//
// Precondition: body was created by this space.
func (s *Space) AttachSpring(body physics.Body, anchor common.Vec3, params physics.SpringParams) (physics.Joint, error) {
	b, ok := body.(*Body)
	if !ok || b == nil || b.owner != s {
		return nil, fmt.Errorf("attach spring: %w", physics.ErrForeignBody)
	}

	scale := params.MassScale
	if scale <= 0 {
		scale = 1
	}
	mass := b.Mass()
	stiffness := params.Spring * scale * mass
	damping := params.Damper * scale * mass

	c := cp.NewDampedSpring(b.body, s.space.StaticBody, cp.Vector{}, vec(anchor), params.MaxDistance, stiffness, damping)
	if spring, ok := c.Class.(*cp.DampedSpring); ok {
		spring.SpringForceFunc = bandForce(params.MinDistance, params.MaxDistance, stiffness)
	}
	s.space.AddConstraint(c)

	r := &rope{owner: s, body: b, constraint: c, params: params}
	s.ropes[r] = struct{}{}
	s.logger.Debug("spring attached",
		zap.Uint64("entity", b.entity),
		zap.Float64("max_distance", params.MaxDistance),
		zap.Float64("min_distance", params.MinDistance),
	)
	return r, nil
}

func (r *rope) Destroy() {
	if r == nil || r.constraint == nil {
		return
	}
	if r.owner.space.ContainsConstraint(r.constraint) {
		r.owner.space.RemoveConstraint(r.constraint)
	}
	delete(r.owner.ropes, r)
	r.constraint = nil
}

var _ physics.JointFactory = (*Space)(nil)
var _ physics.Raycaster = (*Space)(nil)
