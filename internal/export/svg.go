package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/viz"
)

type palette struct {
	background, ring, trail, text string
}

func paletteFor(t orrery.Theme) palette {
	if t == orrery.ThemeLight {
		return palette{background: "#f5f5f5", ring: "#bbbbbb", trail: "#888888", text: "#1a1a1a"}
	}
	return palette{background: "#0a0a0a", ring: "#444444", trail: "#666666", text: "#ffffff"}
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	sb.WriteString(header(width, height, "#0a0a0a"))
	sb.WriteString("<g fill=\"#6b93d6\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func header(width, height float64, bg string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)
}

// layout maps the orbital plane to an SVG square, +X right and -Z up.
type layout struct {
	size, scale float64
}

func newLayout(size int, bodies []orrery.CelestialBody) layout {
	extent := orrery.SunRadius
	for _, b := range bodies {
		extent = math.Max(extent, b.OrbitalDistance+b.Radius)
	}
	s := float64(size)
	return layout{size: s, scale: s / 2 / (extent * 1.1)}
}

func (l layout) point(v geom.Vec3) (float64, float64) {
	return l.size/2 + v.X*l.scale, l.size/2 + v.Z*l.scale
}

func (l layout) rings(sb *strings.Builder, bodies []orrery.CelestialBody, color string) {
	sb.WriteString(fmt.Sprintf("<g fill=\"none\" stroke=\"%s\" stroke-width=\"1\">\n", color))
	for _, b := range bodies {
		sb.WriteString(fmt.Sprintf("<circle class=\"ring\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
			l.size/2, l.size/2, b.OrbitalDistance*l.scale))
	}
	sb.WriteString("</g>\n")
}

func (l layout) sun(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf("<circle class=\"body\" id=\"sun\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
		l.size/2, l.size/2, orrery.SunRadius*l.scale, orrery.Color(orrery.SunColor).Hex()))
}

func (l layout) body(sb *strings.Builder, b orrery.CelestialBody, pos geom.Vec3, textColor string) {
	x, y := l.point(pos)
	r := math.Max(2, b.Radius*l.scale)
	sb.WriteString(fmt.Sprintf("<circle class=\"body\" id=\"%s\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"><title>%s</title></circle>\n",
		b.ID, x, y, r, b.Color.Hex(), b.Name))
	sb.WriteString(fmt.Sprintf("<text x=\"%.1f\" y=\"%.1f\" font-size=\"10\" fill=\"%s\">%s</text>\n",
		x+r+2, y-r-2, textColor, b.Name))
}

// OrbitsToSVG draws a top-down snapshot of one frame: rings, the sun and
// one circle per body at its current position.
func OrbitsToSVG(f orrery.Frame, size int) string {
	if size <= 0 || len(f.Bodies) == 0 {
		return ""
	}
	bodies := make([]orrery.CelestialBody, len(f.Bodies))
	for i, b := range f.Bodies {
		bodies[i] = b.CelestialBody
	}

	pal := paletteFor(f.Theme)
	l := newLayout(size, bodies)

	var sb strings.Builder
	sb.WriteString(header(l.size, l.size, pal.background))
	l.rings(&sb, bodies, pal.ring)
	l.sun(&sb)
	for _, b := range f.Bodies {
		l.body(&sb, b.CelestialBody, b.Position, pal.text)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TrailsToSVG draws every body's path through a recorded run and marks its
// final position. Bodies missing from the catalog are skipped.
func TrailsToSVG(r *sim.Result, size int) string {
	if r == nil || size <= 0 || len(r.Samples) == 0 {
		return ""
	}

	catalog := make(map[string]orrery.CelestialBody)
	for _, b := range orrery.Catalog() {
		catalog[b.ID] = b
	}
	bodies := make([]orrery.CelestialBody, 0, len(r.BodyIDs))
	cols := make([]int, 0, len(r.BodyIDs))
	for i, id := range r.BodyIDs {
		if b, ok := catalog[id]; ok {
			bodies = append(bodies, b)
			cols = append(cols, i)
		}
	}

	pal := paletteFor(orrery.ThemeDark)
	l := newLayout(size, bodies)

	var sb strings.Builder
	sb.WriteString(header(l.size, l.size, pal.background))
	l.rings(&sb, bodies, pal.ring)
	l.sun(&sb)

	last := r.Samples[len(r.Samples)-1]
	for k, b := range bodies {
		col := cols[k]
		sb.WriteString(fmt.Sprintf("<path class=\"trail\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", b.Color.Hex()))
		for i, s := range r.Samples {
			b.OrbitalAngle = s[col]
			x, y := l.point(b.WorldPosition())
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		b.OrbitalAngle = last[col]
		l.body(&sb, b, b.WorldPosition(), pal.text)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
