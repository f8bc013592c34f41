package chipmunk

import (
	"testing"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/physics/physicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRaycastRespectsMask(t *testing.T) {
	s := NewSpace(0, 10)
	s.AddStaticBox(7, common.Vec3{10, 0, 0}, 2, 2, physics.LayerGround)

	hit, ok := s.Raycast(common.Vec3{}, common.Vec3{1, 0, 0}, 50, physics.LayerGround)
	require.True(t, ok)
	assert.InDelta(t, 9, hit.Point.X(), 1e-6)
	assert.InDelta(t, 9, hit.Distance, 1e-6)
	assert.InDelta(t, -1, hit.Normal.X(), 1e-6)
	assert.Equal(t, uint64(7), hit.Entity)
	assert.Equal(t, physics.LayerGround, hit.Layer)
	assert.Nil(t, hit.Body)

	_, ok = s.Raycast(common.Vec3{}, common.Vec3{1, 0, 0}, 50, physics.LayerGrapple)
	assert.False(t, ok)

	_, ok = s.Raycast(common.Vec3{}, common.Vec3{1, 0, 0}, 5, physics.LayerGround)
	assert.False(t, ok, "out of range")
}

func TestRaycastReportsDynamicBody(t *testing.T) {
	s := NewSpace(0, 10)
	b := s.AddDynamicBox(3, common.Vec3{5, 0, 0}, 1, 1, 2, physics.LayerTarget)

	hit, ok := s.Raycast(common.Vec3{}, common.Vec3{1, 0, 0}, 50, physics.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 4.5, hit.Distance, 1e-6)
	assert.Equal(t, physics.Body(b), hit.Body)
	assert.Equal(t, uint64(3), hit.Entity)
	assert.InDelta(t, 2, b.Mass(), 1e-9)
}

func TestRaycastZeroDirectionMisses(t *testing.T) {
	s := NewSpace(0, 10)
	s.AddStaticBox(1, common.Vec3{}, 100, 100, physics.LayerGround)
	_, ok := s.Raycast(common.Vec3{}, common.Vec3{0, 0, 1}, 50, physics.LayerAll)
	assert.False(t, ok)
}

func TestAttachSpringRejectsForeignBody(t *testing.T) {
	s := NewSpace(0, 10)
	_, err := s.AttachSpring(physicstest.NewBody(), common.Vec3{}, physics.SpringParams{MaxDistance: 1})
	require.ErrorIs(t, err, physics.ErrForeignBody)

	other := NewSpace(0, 10)
	b := other.AddDynamicBox(1, common.Vec3{}, 1, 1, 1, physics.LayerPlayer)
	_, err = s.AttachSpring(b, common.Vec3{}, physics.SpringParams{MaxDistance: 1})
	require.ErrorIs(t, err, physics.ErrForeignBody)
}

func TestSpringDestroyIsIdempotent(t *testing.T) {
	s := NewSpace(0, 10)
	b := s.AddDynamicBox(1, common.Vec3{}, 1, 1, 1, physics.LayerPlayer)

	j, err := s.AttachSpring(b, common.Vec3{10, 0, 0}, physics.SpringParams{MaxDistance: 8, MinDistance: 2, Spring: 4.5, Damper: 7, MassScale: 4.5})
	require.NoError(t, err)
	assert.Equal(t, 1, s.LiveJoints())

	j.Destroy()
	j.Destroy()
	assert.Equal(t, 0, s.LiveJoints())
	s.Step(1.0 / 60)
}

func TestSpringPullsTowardAnchor(t *testing.T) {
	s := NewSpace(0, 10)
	b := s.AddDynamicBox(1, common.Vec3{}, 1, 1, 1, physics.LayerPlayer)
	_, err := s.AttachSpring(b, common.Vec3{10, 0, 0}, physics.SpringParams{MaxDistance: 2, MinDistance: 1, Spring: 4.5, Damper: 0, MassScale: 4.5})
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}
	assert.Greater(t, b.Position().X(), 0.0)
}

func TestRemoveReleasesSprings(t *testing.T) {
	s := NewSpace(0, 10)
	b := s.AddDynamicBox(4, common.Vec3{}, 1, 1, 1, physics.LayerPlayer)
	_, err := s.AttachSpring(b, common.Vec3{10, 0, 0}, physics.SpringParams{MaxDistance: 2})
	require.NoError(t, err)

	s.Remove(4)
	assert.Equal(t, 0, s.LiveJoints())
	_, ok := s.Raycast(common.Vec3{-5, 0, 0}, common.Vec3{1, 0, 0}, 50, physics.LayerAll)
	assert.False(t, ok)
}

func TestContactsReportGround(t *testing.T) {
	s := NewSpace(-30, 10)
	s.AddStaticBox(9, common.Vec3{0, -1, 0}, 20, 2, physics.LayerGround)
	b := s.AddDynamicBox(1, common.Vec3{0, 0.6, 0}, 1, 1, 1, physics.LayerPlayer)

	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60)
	}

	contacts := s.Contacts(b)
	require.NotEmpty(t, contacts)
	assert.InDelta(t, 1, contacts[0].Normal.Y(), 1e-3)
	assert.Equal(t, physics.LayerGround, contacts[0].Layer)
	assert.Equal(t, uint64(9), contacts[0].Entity)
}

func TestSetHeightKeepsCenter(t *testing.T) {
	s := NewSpace(0, 10)
	b := s.AddDynamicBox(1, common.Vec3{0, 5, 0}, 1, 2, 1, physics.LayerPlayer)

	b.SetHeight(1)
	assert.InDelta(t, 1, b.Height(), 1e-9)
	assert.InDelta(t, 5, b.Position().Y(), 1e-9)

	hit, ok := s.Raycast(common.Vec3{0, 10, 0}, common.Vec3{0, -1, 0}, 20, physics.LayerPlayer)
	require.True(t, ok)
	assert.InDelta(t, 5.5, hit.Point.Y(), 1e-6)
	assert.Equal(t, physics.Body(b), hit.Body)
}

func TestBandForceOnlyOutsideSlack(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minDist := rapid.Float64Range(0, 10).Draw(t, "min")
		maxDist := minDist + rapid.Float64Range(0, 10).Draw(t, "span")
		k := rapid.Float64Range(0.1, 100).Draw(t, "k")
		dist := rapid.Float64Range(0, 30).Draw(t, "dist")

		f := bandForce(minDist, maxDist, k)(nil, dist)
		switch {
		case dist > maxDist:
			if f >= 0 {
				t.Fatalf("stretched rope should pull, got %v", f)
			}
		case dist < minDist:
			if f <= 0 {
				t.Fatalf("compressed rope should push, got %v", f)
			}
		default:
			if f != 0 {
				t.Fatalf("slack rope should be idle, got %v", f)
			}
		}
	})
}
