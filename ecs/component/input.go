package component

import "github.com/milk9111/grapplefps/input"

// Input holds the latest sampled frame for a controlled entity.
type Input struct {
	Frame input.Frame
}

var InputComponent = NewComponent[Input]()
