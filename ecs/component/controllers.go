package component

import (
	"github.com/milk9111/grapplefps/grapple"
	"github.com/milk9111/grapplefps/look"
	"github.com/milk9111/grapplefps/motor"
	"github.com/milk9111/grapplefps/script"
	"github.com/milk9111/grapplefps/target"
)

type Look struct {
	Look *look.Look
}

var LookComponent = NewComponent[Look]()

// Motor holds the controller and the intent resolved from input this frame.
type Motor struct {
	Motor  *motor.Motor
	Intent motor.Intent
}

var MotorComponent = NewComponent[Motor]()

type Grapple struct {
	Controller *grapple.Controller
}

var GrappleComponent = NewComponent[Grapple]()

// WallRun carries the scripted wall-run rule and the prefab it came from.
type WallRun struct {
	Rule   *script.WallRun
	Script string
}

var WallRunComponent = NewComponent[WallRun]()

type Health struct {
	Target *target.Target
}

var HealthComponent = NewComponent[Health]()
