package component

import "image/color"

type EffectKind string

const (
	EffectMuzzle    EffectKind = "muzzle"
	EffectImpact    EffectKind = "impact"
	EffectDestroyed EffectKind = "destroyed"
)

// Effect is a short-lived marker drawn at its transform.
type Effect struct {
	Kind  EffectKind
	Size  float64
	Color color.Color
}

var EffectComponent = NewComponent[Effect]()

// Appearance is how a solid entity is drawn.
type Appearance struct {
	Color color.Color
}

var AppearanceComponent = NewComponent[Appearance]()
