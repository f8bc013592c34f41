package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/physics/chipmunk"
	"github.com/milk9111/grapplefps/script"
)

// wallNormalMaxY separates walls from floors and ceilings.
const wallNormalMaxY = 0.3

// WallRunSystem evaluates each entity's wall-run rule against the contacts of
// the last physics step. The rule's override is what the motor reads.
type WallRunSystem struct {
	space  *chipmunk.Space
	logger *zap.Logger
	failed map[ecs.Entity]bool
}

func NewWallRunSystem(space *chipmunk.Space, logger *zap.Logger) *WallRunSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WallRunSystem{space: space, logger: logger, failed: make(map[ecs.Entity]bool)}
}

func touchingWall(contacts []physics.Contact) bool {
	for _, c := range contacts {
		if c.Layer == physics.LayerTarget {
			continue
		}
		if math.Abs(c.Normal.Y()) < wallNormalMaxY {
			return true
		}
	}
	return false
}

func (s *WallRunSystem) Update(w *ecs.World) {
	if w == nil || s.space == nil {
		return
	}

	ecs.ForEach3(w, component.WallRunComponent.Kind(), component.MotorComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, wr *component.WallRun, m *component.Motor, pb *component.PhysicsBody) {
		if wr.Rule == nil || m.Motor == nil || pb.Body == nil {
			return
		}

		in := script.WallRunInputs{
			Grounded:    m.Motor.Grounded(),
			WallContact: touchingWall(s.space.Contacts(pb.Body)),
			Speed:       common.HorizontalLen(pb.Body.Velocity()),
			InputX:      m.Intent.X,
			InputY:      m.Intent.Y,
		}
		if _, err := wr.Rule.Evaluate(in); err != nil {
			if !s.failed[e] {
				s.logger.Warn("wall run rule failed", zap.String("script", wr.Rule.Name()), zap.Error(err))
			}
			s.failed[e] = true
			return
		}
		delete(s.failed, e)
	})
}
