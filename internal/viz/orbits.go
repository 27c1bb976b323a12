package viz

import (
	"math"

	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
)

// TopDown maps the orbital plane onto canvas dots as seen from +Y: world +X
// points right and world -Z points up, so orbits run counter-clockwise.
type TopDown struct {
	W, H   int
	Extent float64
}

func NewTopDown(w, h int, bodies []orrery.BodyView) TopDown {
	extent := orrery.SunRadius
	for _, b := range bodies {
		extent = math.Max(extent, b.OrbitalDistance+b.Radius)
	}
	return TopDown{W: w, H: h, Extent: extent * 1.05}
}

// Scale is dots per world unit.
func (p TopDown) Scale() float64 {
	half := float64(min(p.W, p.H))/2 - 1
	if half <= 0 || p.Extent <= 0 {
		return 0
	}
	return half / p.Extent
}

func (p TopDown) Center() (int, int) { return p.W / 2, p.H / 2 }

func (p TopDown) Project(v geom.Vec3) (int, int) {
	s := p.Scale()
	cx, cy := p.Center()
	return cx + int(math.Round(v.X*s)), cy + int(math.Round(v.Z*s))
}

// DrawFrame plots rings, the sun and every body. While a focus transition
// is running the camera target is marked with a cross.
func DrawFrame(c *Canvas, f orrery.Frame) {
	c.Clear()
	w, h := c.Dots()
	p := NewTopDown(w, h, f.Bodies)
	s := p.Scale()
	cx, cy := p.Center()

	for _, b := range f.Bodies {
		c.DrawCircle(cx, cy, b.OrbitalDistance*s)
	}
	c.FillCircle(cx, cy, math.Max(1.5, orrery.SunRadius*s))

	for _, b := range f.Bodies {
		x, y := p.Project(b.Position)
		c.FillCircle(x, y, math.Max(1, b.Radius*s))
	}

	if f.Focusing {
		x, y := p.Project(f.Camera.Target)
		c.DrawLine(x-3, y, x+3, y)
		c.DrawLine(x, y-3, x, y+3)
	}
}
