// Package weapon implements weapon selection and hitscan firing.
package weapon

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/observability"
)

var (
	ErrNoSlots          = errors.New("weapon: selector needs at least one slot")
	ErrMissingReference = errors.New("weapon: missing reference")
)

// Slot is one selectable weapon.
type Slot interface {
	SetActive(active bool)
}

// Grappler is the part of a grapple the selector needs to cancel it.
type Grappler interface {
	IsGrappling() bool
	Disengage() bool
}

// GrappleCapable is implemented by slots that carry a grapple.
type GrappleCapable interface {
	Grappler() Grappler
}

type SelectorOption func(*Selector)

func WithSelectorLogger(l *zap.Logger) SelectorOption {
	return func(s *Selector) {
		s.logger = observability.OrNop(l)
	}
}

// Selector keeps exactly one slot active. The grapple capability of the
// active slot is looked up when the selection changes and cached until the
// next change.
type Selector struct {
	slots   []Slot
	index   int
	grapple Grappler
	logger  *zap.Logger
}

// NewSelector activates the initial slot, wrapped into range.
//
// Postcondition: Returns ErrNoSlots when slots is empty.
func NewSelector(slots []Slot, initial int, opts ...SelectorOption) (*Selector, error) {
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	for i, s := range slots {
		if s == nil {
			return nil, fmt.Errorf("%w: slot %d is nil", ErrMissingReference, i)
		}
	}

	s := &Selector{
		slots:  append([]Slot(nil), slots...),
		index:  wrap(initial, len(slots)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.apply()
	return s, nil
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (s *Selector) Index() int {
	return s.index
}

func (s *Selector) Len() int {
	return len(s.slots)
}

func (s *Selector) Active() Slot {
	return s.slots[s.index]
}

// Grapple returns the cached capability of the active slot, or nil.
func (s *Selector) Grapple() Grappler {
	return s.grapple
}

// Scroll moves one slot forward for positive delta and back for negative.
// It reports whether the selection changed.
func (s *Selector) Scroll(delta float64) bool {
	switch {
	case delta > 0:
		return s.Next()
	case delta < 0:
		return s.Previous()
	}
	return false
}

func (s *Selector) Next() bool {
	return s.Select(s.index + 1)
}

func (s *Selector) Previous() bool {
	return s.Select(s.index - 1)
}

// Select activates slot i, wrapped into range. Switching away from a slot
// whose grapple is attached releases the grapple first.
func (s *Selector) Select(i int) bool {
	next := wrap(i, len(s.slots))
	if next == s.index {
		return false
	}

	if s.grapple != nil && s.grapple.IsGrappling() {
		s.grapple.Disengage()
	}

	prev := s.index
	s.index = next
	s.apply()
	s.logger.Debug("weapon selected", zap.Int("from", prev), zap.Int("to", next))
	return true
}

func (s *Selector) apply() {
	for i, slot := range s.slots {
		slot.SetActive(i == s.index)
	}
	s.grapple = nil
	if gc, ok := s.slots[s.index].(GrappleCapable); ok {
		s.grapple = gc.Grappler()
	}
}
