package component

import "github.com/milk9111/grapplefps/common"

// Transform is the render-facing pose. Physics-driven entities have it
// rewritten from their body after every step.
type Transform struct {
	Position common.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()
