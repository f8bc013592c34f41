package system

import (
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
	"github.com/milk9111/grapplefps/input"
)

// InputSystem samples the source once per frame and hands the same frame to
// every controlled entity.
type InputSystem struct {
	source input.Source
}

func NewInputSystem(source input.Source) *InputSystem {
	return &InputSystem{source: source}
}

func (s *InputSystem) Update(w *ecs.World) {
	if w == nil || s.source == nil {
		return
	}

	frame := s.source.Poll()
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.Frame = frame
	})
}
