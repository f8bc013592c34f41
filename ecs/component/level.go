package component

import "github.com/milk9111/grapplefps/common"

// LevelBounds is the kill floor and where fallen players return.
type LevelBounds struct {
	Name  string
	MinY  float64
	Spawn common.Vec3
	Yaw   float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
