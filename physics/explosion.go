package physics

import "github.com/milk9111/grapplefps/common"

// ExplosionImpulse returns the impulse an explosion at point applies to a body
// at bodyPos. The magnitude falls off linearly to zero at radius. upward lowers
// the effective explosion origin so the push gains lift. A radius of zero
// means no falloff.
func ExplosionImpulse(bodyPos common.Vec3, force float64, point common.Vec3, radius, upward float64) common.Vec3 {
	origin := point.Sub(common.Vec3{0, upward, 0})
	delta := bodyPos.Sub(origin)

	dir, ok := common.SafeNormalize(delta)
	if !ok {
		dir = common.Up
	}

	scale := 1.0
	if radius > 0 {
		dist := bodyPos.Sub(point).Len()
		if dist >= radius {
			return common.Vec3{}
		}
		scale = 1 - dist/radius
	}
	return dir.Mul(force * scale)
}
