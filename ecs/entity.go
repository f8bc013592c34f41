package ecs

import "fmt"

// Entity packs a slot index in the low 32 bits and the slot's generation in
// the high 32 bits. A destroyed slot is reused with a bumped generation, so
// stale handles stop matching. The zero Entity is never handed out.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID           { return entityID(uint32(e)) }
func (e Entity) generation() generation { return generation(uint32(uint64(e) >> entityIDBits)) }

// String renders the handle as slot and generation, e.g. "17v2".
func (e Entity) String() string {
	if !e.Valid() {
		return "none"
	}
	return fmt.Sprintf("%dv%d", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e > 0
}
