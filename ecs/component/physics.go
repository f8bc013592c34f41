package component

import (
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/physics/chipmunk"
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body is nil for static geometry.
type PhysicsBody struct {
	Body   *chipmunk.Body
	Width  float64
	Height float64
	Mass   float64
	Layer  physics.LayerMask
	Static bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
