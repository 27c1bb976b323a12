package scene

import (
	"testing"

	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpherePicker_NearestWins(t *testing.T) {
	ray := geom.Ray{Origin: geom.V(0, 0, 50), Direction: geom.V(0, 0, -1)}
	targets := []orrery.Target{
		{ID: "far", Center: geom.V(0, 0, -10), Radius: 2},
		{ID: "near", Center: geom.V(0, 0, 10), Radius: 1},
		{ID: "off", Center: geom.V(20, 0, 20), Radius: 1},
	}

	id, ok := NewSpherePicker().PickBody(ray, targets)
	require.True(t, ok)
	assert.Equal(t, "near", id)
}

func TestSpherePicker_Miss(t *testing.T) {
	ray := geom.Ray{Origin: geom.V(0, 0, 50), Direction: geom.V(0, 1, 0)}
	targets := []orrery.Target{{ID: "earth", Center: geom.V(16, 0, 0), Radius: 1}}

	id, ok := NewSpherePicker().PickBody(ray, targets)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestSpherePicker_Slop(t *testing.T) {
	ray := geom.Ray{Origin: geom.V(1.5, 0, 50), Direction: geom.V(0, 0, -1)}
	targets := []orrery.Target{{ID: "mars", Center: geom.V(0, 0, 0), Radius: 1}}

	_, ok := NewSpherePicker().PickBody(ray, targets)
	assert.False(t, ok)

	_, ok = (&SpherePicker{Slop: 1}).PickBody(ray, targets)
	assert.True(t, ok)
}

func TestControllerPick_ThroughBody(t *testing.T) {
	ctrl := orrery.New(nil, NewSpherePicker(), orrery.WithViewport(800, 600))
	cam := ctrl.Camera()

	for _, b := range ctrl.Bodies() {
		sx, sy, ok := cam.Project(b.WorldPosition(), 800, 600)
		require.True(t, ok, "body %s behind camera", b.ID)

		got, hit := ctrl.Pick(sx, sy)
		require.True(t, hit, "no hit for %s", b.ID)
		assert.Equal(t, b.ID, got.ID)
	}
}

func TestControllerPick_EmptySpace(t *testing.T) {
	ctrl := orrery.New(nil, NewSpherePicker(), orrery.WithViewport(800, 600))

	_, hit := ctrl.Pick(5, 5)
	assert.False(t, hit)
}

func TestControllerPick_NoSideEffects(t *testing.T) {
	ctrl := orrery.New(nil, NewSpherePicker(), orrery.WithViewport(800, 600))
	before := ctrl.Frame()

	earth, _ := ctrl.Body("earth")
	sx, sy, _ := ctrl.Camera().Project(earth.WorldPosition(), 800, 600)
	first, _ := ctrl.Pick(sx, sy)
	second, _ := ctrl.Pick(sx, sy)

	assert.Equal(t, first, second)
	assert.Equal(t, before, ctrl.Frame())
	assert.False(t, ctrl.Focusing())
}
