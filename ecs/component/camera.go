package component

import "github.com/milk9111/grapplefps/common"

// Camera is the first-person eye attached to an entity. It satisfies the
// motor's camera contract so crouching can lower it.
type Camera struct {
	Offset common.Vec3
	// Recoil is extra upward pitch in degrees, decayed by the look system.
	Recoil     float64
	RecoilKick float64
	// RecoilRecovery is degrees per second.
	RecoilRecovery float64
}

func (c *Camera) LocalOffset() common.Vec3 {
	return c.Offset
}

func (c *Camera) SetLocalOffset(offset common.Vec3) {
	c.Offset = offset
}

func (c *Camera) Kick() {
	c.Recoil += c.RecoilKick
}

var CameraComponent = NewComponent[Camera]()
