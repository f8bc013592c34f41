package component

import (
	"image/color"

	"github.com/milk9111/grapplefps/weapon"
)

type WeaponKind string

const (
	WeaponHitscan WeaponKind = "hitscan"
	WeaponGrapple WeaponKind = "grapple"
)

// WeaponSlot is one entry in a WeaponSet. It satisfies weapon.Slot.
type WeaponSlot struct {
	Name    string
	Prefab  string
	Kind    WeaponKind
	Color   color.Color
	Hitscan *weapon.Hitscan
	Grapple weapon.Grappler
	Active  bool
}

func (s *WeaponSlot) SetActive(active bool) {
	s.Active = active
	if s.Hitscan != nil {
		s.Hitscan.SetActive(active)
	}
}

// Grappler exposes the grapple capability. It returns nil for plain guns.
func (s *WeaponSlot) Grappler() weapon.Grappler {
	return s.Grapple
}

type WeaponSet struct {
	Selector *weapon.Selector
	Slots    []*WeaponSlot
}

func (ws *WeaponSet) ActiveSlot() *WeaponSlot {
	if ws == nil || ws.Selector == nil {
		return nil
	}
	i := ws.Selector.Index()
	if i < 0 || i >= len(ws.Slots) {
		return nil
	}
	return ws.Slots[i]
}

var WeaponSetComponent = NewComponent[WeaponSet]()
