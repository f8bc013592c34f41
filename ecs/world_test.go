package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/milk9111/grapplefps/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)

			if c.destroyIndex >= 0 {
				e := ents[c.destroyIndex]
				assert.True(t, DestroyEntity(w, e))
				assert.False(t, IsAlive(w, e))
				assert.False(t, DestroyEntity(w, e), "double destroy")
				assert.Len(t, Entities(w), c.create-1)
			}
		})
	}
}

func TestZeroEntityIsNeverAlive(t *testing.T) {
	w := NewWorld()
	CreateEntity(w)
	assert.False(t, IsAlive(w, 0))
	assert.False(t, Entity(0).Valid())
}

func TestEntityString(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	assert.Equal(t, "1v0", e.String())
	DestroyEntity(w, e)
	assert.Equal(t, "1v1", CreateEntity(w).String())
	assert.Equal(t, "none", Entity(0).String())
}

func TestRecycledIDGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, kind, intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	fresh := CreateEntity(w)
	assert.Equal(t, old.id(), fresh.id())
	assert.NotEqual(t, old, fresh)

	assert.False(t, IsAlive(w, old))
	_, ok := Get(w, old, kind)
	assert.False(t, ok, "stale handle must not see components")
	_, ok = Get(w, fresh, kind)
	assert.False(t, ok, "destroy clears components")
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e := CreateEntity(w)

	require.ErrorIs(t, Add(w, e, kind, nil), component.ErrNilComponent)
	require.ErrorIs(t, Add(w, e, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind)

	DestroyEntity(w, e)
	require.ErrorIs(t, Add(w, e, kind, intPtr(1)), component.ErrEntityNotAlive)
}

func TestAddReplacesAndRemove(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[string]()
	e := CreateEntity(w)

	a, b := "a", "b"
	require.NoError(t, Add(w, e, h.Kind(), &a))
	require.NoError(t, Add(w, e, h.Kind(), &b))

	v, ok := Get(w, e, h.Kind())
	require.True(t, ok)
	assert.Equal(t, "b", *v)

	assert.True(t, Remove(w, e, h.Kind()))
	assert.False(t, Has(w, e, h.Kind()))
	assert.False(t, Remove(w, e, h.Kind()))
}

func TestQueryAndFirst(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	require.NoError(t, Add(w, e1, ka, intPtr(1)))
	require.NoError(t, Add(w, e2, ka, intPtr(2)))
	require.NoError(t, Add(w, e2, kb, intPtr(3)))
	require.NoError(t, Add(w, e3, kb, intPtr(4)))

	assert.Equal(t, []Entity{e2}, w.Query(ka, kb))
	assert.ElementsMatch(t, []Entity{e1, e2}, w.Query(ka))
	assert.Nil(t, w.Query())

	first, ok := w.First(kb)
	require.True(t, ok)
	assert.Contains(t, []Entity{e2, e3}, first)

	_, ok = w.First(component.NewComponentKind[float64]())
	assert.False(t, ok)
}

func TestForEachToleratesDestroy(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, kind, intPtr(i)))
	}

	visited := 0
	ForEach(w, kind, func(e Entity, v *int) {
		visited++
		if *v%2 == 0 {
			DestroyEntity(w, e)
		}
	})
	assert.Equal(t, 5, visited)
	assert.Len(t, w.Query(kind), 2)
}

func TestForEachN(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	all := CreateEntity(w)
	three := CreateEntity(w)
	for _, k := range []component.ComponentKind[int]{ka, kb, kc, kd} {
		require.NoError(t, Add(w, all, k, intPtr(1)))
	}
	for _, k := range []component.ComponentKind[int]{ka, kb, kc} {
		require.NoError(t, Add(w, three, k, intPtr(1)))
	}

	var got3, got4 []Entity
	ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { got3 = append(got3, e) })
	ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { got4 = append(got4, e) })
	assert.ElementsMatch(t, []Entity{all, three}, got3)
	assert.Equal(t, []Entity{all}, got4)

	DestroyEntity(w, all)
	got4 = nil
	ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { got4 = append(got4, e) })
	assert.Empty(t, got4)
}

func TestSchedulerRunsInOrder(t *testing.T) {
	var order []int
	s := NewScheduler(
		SystemFunc(func(*World) { order = append(order, 1) }),
		nil,
		SystemFunc(func(*World) { order = append(order, 2) }),
	)
	s.Add(SystemFunc(func(*World) { order = append(order, 3) }))
	assert.Equal(t, 3, s.Len())

	s.Update(nil)
	assert.Empty(t, order)

	s.Update(NewWorld())
	assert.Equal(t, []int{1, 2, 3}, order)
}

// Random create/destroy sequences keep the live set in step with a model.
func TestEntityStoreMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := NewWorld()
		live := map[Entity]bool{}
		var dead []Entity

		ops := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 60).Draw(t, "ops")
		for _, op := range ops {
			switch {
			case op == 0 || len(live) == 0:
				e := CreateEntity(w)
				if live[e] {
					t.Fatalf("create returned live entity %v", e)
				}
				live[e] = true
			case op == 1:
				for e := range live {
					if !DestroyEntity(w, e) {
						t.Fatalf("destroy of live %v failed", e)
					}
					delete(live, e)
					dead = append(dead, e)
					break
				}
			default:
				for _, e := range dead {
					if IsAlive(w, e) {
						t.Fatalf("dead handle %v reported alive", e)
					}
				}
			}
		}
		if got := len(Entities(w)); got != len(live) {
			t.Fatalf("live count %d, model %d", got, len(live))
		}
	})
}
