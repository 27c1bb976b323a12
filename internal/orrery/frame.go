package orrery

import "github.com/san-kum/orrery/internal/geom"

// BodyView is a body as seen by a renderer on one frame.
type BodyView struct {
	CelestialBody
	Position geom.Vec3
	Speed    float64
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Tick          uint64
	Camera        geom.Camera
	Width, Height int
	Bodies        []BodyView
	SunRotation   float64
	Theme         Theme
	Paused        bool
	Focusing      bool
	Elapsed       float64
	FocusedBodyID string
}

// Body finds a body in the frame by id.
func (f Frame) Body(id string) (BodyView, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyView{}, false
}

type Renderer interface {
	Render(f Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (fn RendererFunc) Render(f Frame) { fn(f) }

type nopRenderer struct{}

func (nopRenderer) Render(Frame) {}

// Target is a pickable sphere.
type Target struct {
	ID     string
	Center geom.Vec3
	Radius float64
}

// Picker returns the id of the nearest target hit by ray.
type Picker interface {
	PickBody(ray geom.Ray, targets []Target) (string, bool)
}
