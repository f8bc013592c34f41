package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()

// LevelTag marks static level geometry.
type LevelTag struct{}

var LevelTagComponent = NewComponent[LevelTag]()

// Prefab records which prefab file built the entity, for hot reload.
type Prefab struct {
	Path string
}

var PrefabComponent = NewComponent[Prefab]()
