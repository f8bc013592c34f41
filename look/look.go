// Package look turns mouse deltas into a clamped yaw/pitch view.
package look

import (
	"math"

	"github.com/milk9111/grapplefps/common"
)

type Settings struct {
	Sensitivity    float64 `yaml:"sensitivity"`
	SensMultiplier float64 `yaml:"sens_multiplier"`
	// MaxPitch bounds how far the view tilts up or down, in degrees.
	MaxPitch float64 `yaml:"max_pitch"`
}

func DefaultSettings() Settings {
	return Settings{
		Sensitivity:    50,
		SensMultiplier: 1,
		MaxPitch:       90,
	}
}

// Look holds the view angles in degrees. Positive pitch looks down.
type Look struct {
	settings Settings
	yaw      float64
	pitch    float64
}

func New(s Settings) *Look {
	return &Look{settings: s}
}

func (l *Look) ApplySettings(s Settings) {
	l.settings = s
	l.pitch = common.Clamp(l.pitch, -s.MaxPitch, s.MaxPitch)
}

// Apply turns the view by a mouse delta scaled by the fixed tick length.
func (l *Look) Apply(dx, dy, fixedDt float64) {
	k := l.settings.Sensitivity * fixedDt * l.settings.SensMultiplier
	l.yaw = math.Mod(l.yaw+dx*k, 360)
	l.pitch = common.Clamp(l.pitch-dy*k, -l.settings.MaxPitch, l.settings.MaxPitch)
}

func (l *Look) SetYaw(deg float64) {
	l.yaw = math.Mod(deg, 360)
}

func (l *Look) Yaw() float64 {
	return l.yaw
}

func (l *Look) Pitch() float64 {
	return l.pitch
}

// Forward is the unit view direction including pitch.
func (l *Look) Forward() common.Vec3 {
	return Direction(l.yaw, l.pitch)
}

// Direction converts yaw and pitch in degrees to a unit vector. Yaw 0 faces
// +Z and positive pitch looks down.
func Direction(yaw, pitch float64) common.Vec3 {
	y := common.Deg2Rad(yaw)
	p := common.Deg2Rad(pitch)
	return common.Vec3{
		math.Sin(y) * math.Cos(p),
		-math.Sin(p),
		math.Cos(y) * math.Cos(p),
	}
}
