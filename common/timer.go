package common

// Timer is a single-slot deferred action driven by the caller's clock.
// Scheduling replaces any pending deadline, so at most one firing is ever
// outstanding.
type Timer struct {
	deadline float64
	pending  bool
}

// Schedule arms the timer to fire delay seconds after now.
func (t *Timer) Schedule(now, delay float64) {
	t.deadline = now + delay
	t.pending = true
}

func (t *Timer) Cancel() {
	t.pending = false
}

func (t *Timer) Pending() bool {
	return t.pending
}

func (t *Timer) Deadline() float64 {
	return t.deadline
}

// Fire reports true exactly once when now has reached the deadline.
func (t *Timer) Fire(now float64) bool {
	if !t.pending || now < t.deadline {
		return false
	}
	t.pending = false
	return true
}
