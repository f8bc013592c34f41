package ecs

import (
	"fmt"

	"github.com/milk9111/grapplefps/ecs/component"
)

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) (*sparseSet[T], bool) {
	if w == nil || !kind.Valid() {
		return nil, false
	}
	raw, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil, false
		}
		s := newSparseSet[T]()
		w.stores[kind.ID()] = s
		return s, true
	}
	s, ok := raw.(*sparseSet[T])
	return s, ok
}

// Add attaches or replaces the component on e.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("%w: %s on %s", component.ErrNilComponent, kind, e)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s adding %s", component.ErrEntityNotAlive, e, kind)
	}
	s, ok := storeFor(w, kind, true)
	if !ok {
		return fmt.Errorf("%w: %s", component.ErrInvalidComponentKind, kind)
	}
	s.set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s, ok := storeFor(w, kind, false)
	if !ok {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s, ok := storeFor(w, kind, false)
	if !ok {
		return false
	}
	return s.remove(e.id())
}

// ForEach visits every live entity holding kind. The callback may add, remove,
// or destroy entities.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s, ok := storeFor(w, kind, false)
	if !ok {
		return
	}
	ids := append([]entityID(nil), s.ids()...)
	for _, id := range ids {
		e, alive := w.entities.entity(id)
		if !alive {
			continue
		}
		if v, ok := s.get(id); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(ka, kb, kc, kd) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		d, okD := Get(w, e, kd)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}
