// Package system holds the ECS systems that drive the sandbox. Frame systems
// run once per rendered frame, fixed systems once per physics tick.
package system

// Clock is the time shared by every system. The game advances Now by
// FixedDelta before each fixed tick and sets FrameDelta once per frame.
type Clock struct {
	Now        float64
	FixedDelta float64
	FrameDelta float64
}

// Tick advances Now by one fixed step.
func (c *Clock) Tick() {
	c.Now += c.FixedDelta
}
