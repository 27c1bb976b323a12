// Package scene provides a pure-Go stand-in for the renderer's ray test,
// used by the terminal and headless hosts and by tests.
package scene

import (
	"math"

	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
)

// SpherePicker intersects a ray with each target sphere and keeps the
// nearest hit.
type SpherePicker struct {
	// Slop enlarges every sphere, which helps with tiny far planets.
	Slop float64
}

func NewSpherePicker() *SpherePicker { return &SpherePicker{} }

func (p *SpherePicker) PickBody(ray geom.Ray, targets []orrery.Target) (string, bool) {
	best, bestID := math.Inf(1), ""
	for _, t := range targets {
		d, ok := ray.IntersectSphere(t.Center, t.Radius+p.Slop)
		if ok && d < best {
			best, bestID = d, t.ID
		}
	}
	return bestID, bestID != ""
}
