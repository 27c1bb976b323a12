package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
)

// RayPicker tests the controller's pick ray against each body with
// raylib's sphere collision and keeps the nearest hit.
type RayPicker struct{}

func (RayPicker) PickBody(ray geom.Ray, targets []orrery.Target) (string, bool) {
	r := rl.NewRay(vec(ray.Origin), vec(ray.Direction))
	bestID, best := "", float32(0)
	for _, t := range targets {
		hit := rl.GetRayCollisionSphere(r, vec(t.Center), float32(t.Radius))
		if hit.Hit && (bestID == "" || hit.Distance < best) {
			bestID, best = t.ID, hit.Distance
		}
	}
	return bestID, bestID != ""
}

func vec(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
