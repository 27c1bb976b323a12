package orrery

import (
	"fmt"

	"github.com/san-kum/orrery/internal/geom"
)

// Color is a 0xRRGGBB display tint.
type Color uint32

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

const (
	SunRadius = 3.0
	SunColor  = Color(0xfdb813)
)

// CelestialBody is one planet. Everything except the two angles is fixed
// at startup.
type CelestialBody struct {
	ID               string
	Name             string
	Description      string
	Radius           float64
	OrbitalDistance  float64
	BaseAngularSpeed float64
	Color            Color

	OrbitalAngle      float64
	SelfRotationAngle float64
}

// WorldPosition is the body centre after rotating its orbit group about +Y.
func (b CelestialBody) WorldPosition() geom.Vec3 {
	return geom.Vec3{X: b.OrbitalDistance}.RotateY(b.OrbitalAngle)
}

// Catalog returns a fresh copy of the eight planets, innermost first.
func Catalog() []CelestialBody {
	return []CelestialBody{
		{
			ID: "mercury", Name: "Mercury", Radius: 0.38, OrbitalDistance: 8, BaseAngularSpeed: 4.15, Color: 0x8c7853,
			Description: "Closest planet to the Sun. Extremely hot during day, freezing at night.",
		},
		{
			ID: "venus", Name: "Venus", Radius: 0.95, OrbitalDistance: 12, BaseAngularSpeed: 1.62, Color: 0xffc649,
			Description: "Hottest planet due to greenhouse effect. Rotates backwards.",
		},
		{
			ID: "earth", Name: "Earth", Radius: 1.0, OrbitalDistance: 16, BaseAngularSpeed: 1.0, Color: 0x6b93d6,
			Description: "Our home planet. Only known planet with life.",
		},
		{
			ID: "mars", Name: "Mars", Radius: 0.53, OrbitalDistance: 20, BaseAngularSpeed: 0.53, Color: 0xc1440e,
			Description: "The Red Planet. Has the largest volcano in the solar system.",
		},
		{
			ID: "jupiter", Name: "Jupiter", Radius: 2.5, OrbitalDistance: 28, BaseAngularSpeed: 0.084, Color: 0xd8ca9d,
			Description: "Largest planet. Great Red Spot is a storm larger than Earth.",
		},
		{
			ID: "saturn", Name: "Saturn", Radius: 2.1, OrbitalDistance: 36, BaseAngularSpeed: 0.034, Color: 0xfad5a5,
			Description: "Famous for its beautiful ring system. Less dense than water.",
		},
		{
			ID: "uranus", Name: "Uranus", Radius: 1.6, OrbitalDistance: 44, BaseAngularSpeed: 0.012, Color: 0x4fd0e7,
			Description: "Ice giant that rotates on its side. Has faint rings.",
		},
		{
			ID: "neptune", Name: "Neptune", Radius: 1.5, OrbitalDistance: 52, BaseAngularSpeed: 0.006, Color: 0x4b70dd,
			Description: "Windiest planet with speeds up to 2,100 km/h.",
		},
	}
}

// BodyIDs lists catalog ids in catalog order.
func BodyIDs() []string {
	cat := Catalog()
	ids := make([]string, len(cat))
	for i, b := range cat {
		ids[i] = b.ID
	}
	return ids
}
