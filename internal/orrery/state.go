package orrery

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/orrery/internal/geom"
)

const (
	// OrbitScale converts base speed × multiplier into radians per second.
	OrbitScale = 0.1
	// SelfRotationRate and SunRotationRate are radians per second.
	SelfRotationRate = 2.0
	SunRotationRate  = 0.5

	MinSpeedMultiplier     = 0.0
	MaxSpeedMultiplier     = 3.0
	DefaultSpeedMultiplier = 1.0

	FocusDuration = 1000 * time.Millisecond
)

// FocusOffset is added to a body's position to get the camera end pose.
var FocusOffset = geom.Vec3{X: 10, Y: 10, Z: 10}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	case "":
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// SimulationState is the session-wide mutable state of one controller.
type SimulationState struct {
	Paused          bool
	SpeedMultiplier map[string]float64
	Theme           Theme
	SunRotation     float64
	// Elapsed counts simulated seconds; it stops while paused.
	Elapsed float64
	// Focus is non-nil only while a camera transition is in flight.
	Focus *FocusTransition
}

func (s SimulationState) clone() SimulationState {
	c := s
	c.SpeedMultiplier = make(map[string]float64, len(s.SpeedMultiplier))
	for k, v := range s.SpeedMultiplier {
		c.SpeedMultiplier[k] = v
	}
	if s.Focus != nil {
		f := *s.Focus
		c.Focus = &f
	}
	return c
}

// ClampSpeed limits v to [MinSpeedMultiplier, MaxSpeedMultiplier]. NaN maps
// to the default.
func ClampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultSpeedMultiplier
	}
	return math.Max(MinSpeedMultiplier, math.Min(MaxSpeedMultiplier, v))
}

// QuantizeSpeed snaps v to the 0.1 slider step after clamping.
func QuantizeSpeed(v float64) float64 {
	return math.Round(ClampSpeed(v)*10) / 10
}
