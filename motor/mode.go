package motor

import "github.com/milk9111/grapplefps/common"

type Mode int

const (
	Walking Mode = iota
	Sprinting
	Crouching
	Jumping
	Sliding
	Airborne
	WallRunning
)

func (m Mode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Sprinting:
		return "sprinting"
	case Crouching:
		return "crouching"
	case Jumping:
		return "jumping"
	case Sliding:
		return "sliding"
	case Airborne:
		return "airborne"
	case WallRunning:
		return "wallrunning"
	}
	return "unknown"
}

// Classify derives the movement mode from observable state. It has no side
// effects so the mode can always be recomputed.
func Classify(velocity common.Vec3, grounded, crouching, wallRunning bool, s Settings) Mode {
	if wallRunning {
		return WallRunning
	}
	if !grounded {
		if velocity.Y() > 0 {
			return Jumping
		}
		return Airborne
	}
	speed := common.HorizontalLen(velocity)
	if crouching {
		if speed > s.SlideSpeedThreshold {
			return Sliding
		}
		return Crouching
	}
	if speed >= s.SprintSpeedThreshold {
		return Sprinting
	}
	return Walking
}
