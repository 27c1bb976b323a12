package sim

import (
	"math"

	"github.com/san-kum/orrery/internal/orrery"
)

// Revolutions reports how many full orbits a body has completed.
type Revolutions struct {
	BodyID string
	angle  float64
}

func NewRevolutions(id string) *Revolutions { return &Revolutions{BodyID: id} }

func (r *Revolutions) Name() string { return "revolutions_" + r.BodyID }

func (r *Revolutions) Observe(f orrery.Frame) {
	if b, ok := f.Body(r.BodyID); ok {
		r.angle = b.OrbitalAngle
	}
}

func (r *Revolutions) Value() float64 { return r.angle / (2 * math.Pi) }
func (r *Revolutions) Reset()         { r.angle = 0 }

// FrameCount counts rendered frames.
type FrameCount struct{ n int }

func (c *FrameCount) Name() string         { return "frames" }
func (c *FrameCount) Observe(orrery.Frame) { c.n++ }
func (c *FrameCount) Value() float64       { return float64(c.n) }
func (c *FrameCount) Reset()               { c.n = 0 }

// DefaultMetrics returns a frame counter and one Revolutions per body.
func DefaultMetrics() []Metric {
	ms := []Metric{&FrameCount{}}
	for _, id := range orrery.BodyIDs() {
		ms = append(ms, NewRevolutions(id))
	}
	return ms
}
