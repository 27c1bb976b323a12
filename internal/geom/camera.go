package geom

import "math"

// Camera is a perspective camera described by a pose and a projection.
// FOV is the vertical field of view in degrees.
type Camera struct {
	Position, Target, Up Vec3
	FOV, Aspect          float64
	Near, Far            float64
}

func NewCamera() Camera {
	return Camera{
		Position: Vec3{0, 30, 60},
		Up:       Vec3{0, 1, 0},
		FOV:      75,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

// basis returns the forward, right and up unit vectors of the view.
func (c Camera) basis() (f, r, u Vec3) {
	f = c.Target.Sub(c.Position).Normalize()
	up := c.Up
	if up == (Vec3{}) {
		up = Vec3{0, 1, 0}
	}
	r = f.Cross(up).Normalize()
	if r == (Vec3{}) {
		r = f.Cross(Vec3{0, 0, -1}).Normalize()
	}
	u = r.Cross(f)
	return f, r, u
}

func (c Camera) tanHalfFOV() float64 {
	return math.Tan(c.FOV * math.Pi / 360)
}

// ScreenRay casts a ray from the camera through pixel (sx, sy) of a w×h
// viewport. Screen y grows downward.
func (c Camera) ScreenRay(sx, sy, w, h float64) Ray {
	ndcX := sx/w*2 - 1
	ndcY := -(sy/h)*2 + 1
	f, r, u := c.basis()
	th := c.tanHalfFOV()
	dir := f.Add(r.Scale(ndcX * th * c.Aspect)).Add(u.Scale(ndcY * th))
	return Ray{Origin: c.Position, Direction: dir.Normalize()}
}

// Project maps a world point to pixel coordinates of a w×h viewport.
// ok is false for points behind the near plane.
func (c Camera) Project(p Vec3, w, h float64) (sx, sy float64, ok bool) {
	f, r, u := c.basis()
	v := p.Sub(c.Position)
	z := v.Dot(f)
	if z <= c.Near {
		return 0, 0, false
	}
	th := c.tanHalfFOV()
	ndcX := v.Dot(r) / (z * th * c.Aspect)
	ndcY := v.Dot(u) / (z * th)
	return (ndcX + 1) / 2 * w, (1 - ndcY) / 2 * h, true
}
