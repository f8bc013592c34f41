package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space vector. Y is up.
type Vec3 = mgl64.Vec3

var (
	Up      = Vec3{0, 1, 0}
	Down    = Vec3{0, -1, 0}
	Zero    = Vec3{}
	Forward = Vec3{0, 0, 1}
)

const epsilon = 1e-9

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// YawForward is the horizontal forward vector for a yaw in degrees.
func YawForward(yawDeg float64) Vec3 {
	r := Deg2Rad(yawDeg)
	return Vec3{math.Sin(r), 0, math.Cos(r)}
}

// YawRight is the horizontal right vector for a yaw in degrees.
func YawRight(yawDeg float64) Vec3 {
	r := Deg2Rad(yawDeg)
	return Vec3{math.Cos(r), 0, -math.Sin(r)}
}

// Heading returns the yaw in degrees that v points toward on the XZ plane.
func Heading(v Vec3) float64 {
	return Rad2Deg(math.Atan2(v.X(), v.Z()))
}

// DeltaAngle returns the shortest signed difference from current to target in
// degrees, in the range [-180, 180].
func DeltaAngle(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}

// AngleBetween returns the unsigned angle between a and b in degrees. Zero
// vectors yield 0.
func AngleBetween(a, b Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < epsilon || lb < epsilon {
		return 0
	}
	c := Clamp(a.Dot(b)/(la*lb), -1, 1)
	return Rad2Deg(math.Acos(c))
}

// SafeNormalize returns the unit vector of v and false when v has no length.
func SafeNormalize(v Vec3) (Vec3, bool) {
	l := v.Len()
	if l < epsilon {
		return Vec3{}, false
	}
	return v.Mul(1 / l), true
}

func Horizontal(v Vec3) Vec3 {
	return Vec3{v.X(), 0, v.Z()}
}

func HorizontalLen(v Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
