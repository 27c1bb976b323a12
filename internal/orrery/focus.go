package orrery

import (
	"time"

	"github.com/san-kum/orrery/internal/geom"
)

// FocusTransition is an eased camera move toward a body. Target is sampled
// once when the move starts, so a moving body is not tracked.
type FocusTransition struct {
	BodyID    string
	Start     geom.Vec3
	End       geom.Vec3
	Target    geom.Vec3
	StartedAt time.Time
	Duration  time.Duration
}

// Progress is the clamped fraction of the duration elapsed at now.
func (f FocusTransition) Progress(now time.Time) float64 {
	if f.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(f.StartedAt)) / float64(f.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Position is the eased camera position at now.
func (f FocusTransition) Position(now time.Time) geom.Vec3 {
	return geom.Lerp(f.Start, f.End, Ease(f.Progress(now)))
}

// Ease is the quadratic ease-in-out curve on [0, 1].
func Ease(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	return -1 + (4-2*p)*p
}
