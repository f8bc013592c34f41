// Package physics defines the services the controllers need from a rigid-body
// solver: force application, raycasts, spring joints, and contact reporting.
package physics

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/grapplefps/common"
)

var ErrForeignBody = errors.New("physics: body does not belong to this space")

// LayerMask selects which colliders a query or contact filter accepts.
type LayerMask uint32

const (
	LayerDefault LayerMask = 1 << iota
	LayerGround
	LayerGrapple
	LayerTarget
	LayerPlayer

	LayerAll LayerMask = 0xffffffff
)

func (m LayerMask) Has(layer LayerMask) bool {
	return m&layer != 0
}

// ParseLayer maps a prefab layer name to its mask bit.
func ParseLayer(name string) (LayerMask, bool) {
	switch name {
	case "default", "":
		return LayerDefault, true
	case "ground":
		return LayerGround, true
	case "grapple":
		return LayerGrapple, true
	case "target":
		return LayerTarget, true
	case "player":
		return LayerPlayer, true
	case "all":
		return LayerAll, true
	}
	return 0, false
}

// ParseLayers ORs together a list of layer names.
func ParseLayers(names []string) (LayerMask, error) {
	var m LayerMask
	for _, n := range names {
		l, ok := ParseLayer(n)
		if !ok {
			return 0, errors.New("physics: unknown layer " + n)
		}
		m |= l
	}
	return m, nil
}

// UnmarshalYAML accepts a layer name, a list of names, or a raw bit mask.
func (m *LayerMask) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if n, err := strconv.ParseUint(value.Value, 0, 32); err == nil {
			*m = LayerMask(n)
			return nil
		}
		l, ok := ParseLayer(value.Value)
		if !ok {
			return fmt.Errorf("physics: unknown layer %q", value.Value)
		}
		*m = l
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		l, err := ParseLayers(names)
		if err != nil {
			return err
		}
		*m = l
		return nil
	}
	return fmt.Errorf("physics: layer mask must be a name or list of names")
}

// Body is a rigid body driven by the solver.
type Body interface {
	Position() common.Vec3
	Velocity() common.Vec3
	SetVelocity(v common.Vec3)
	// AddForce accumulates a continuous force for the next step.
	AddForce(f common.Vec3)
	// AddImpulse changes momentum immediately.
	AddImpulse(j common.Vec3)
	AddExplosionForce(force float64, point common.Vec3, radius, upward float64)
	Mass() float64
}

// Hit describes the first collider a ray touched.
type Hit struct {
	Point    common.Vec3
	Normal   common.Vec3
	Distance float64
	// Body is nil for static geometry.
	Body   Body
	Entity uint64
	Layer  LayerMask
}

type Raycaster interface {
	// Raycast returns false on a miss. A miss is not an error.
	Raycast(origin, dir common.Vec3, maxDistance float64, mask LayerMask) (Hit, bool)
}

// SpringParams configure a distance-limited spring between a body and a
// fixed world anchor.
type SpringParams struct {
	MaxDistance float64
	MinDistance float64
	Spring      float64
	Damper      float64
	MassScale   float64
}

// Joint is a live constraint. Destroy is safe to call more than once.
type Joint interface {
	Destroy()
}

type JointFactory interface {
	AttachSpring(body Body, anchor common.Vec3, params SpringParams) (Joint, error)
}

// Contact is one touching point reported for a body during the last step.
// Normal points away from the other collider toward the body.
type Contact struct {
	Normal common.Vec3
	Layer  LayerMask
	Entity uint64
}
