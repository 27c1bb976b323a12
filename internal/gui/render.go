package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
)

const rad2deg = 180 / math.Pi

// Palette holds the window colors for one theme.
type Palette struct {
	Background rl.Color
	Star       rl.Color
	Ring       rl.Color
	PanelBg    rl.Color
	PanelEdge  rl.Color
	Text       rl.Color
	TextDim    rl.Color
	Accent     rl.Color
}

var (
	PaletteDark = Palette{
		Background: rl.NewColor(0, 0, 0, 255),
		Star:       rl.NewColor(255, 255, 255, 200),
		Ring:       rl.NewColor(68, 68, 68, 255),
		PanelBg:    rl.NewColor(0, 0, 0, 204),
		PanelEdge:  rl.NewColor(255, 255, 255, 40),
		Text:       rl.NewColor(255, 255, 255, 255),
		TextDim:    rl.NewColor(170, 170, 170, 255),
		Accent:     rl.NewColor(79, 208, 231, 255),
	}
	PaletteLight = Palette{
		Background: rl.NewColor(240, 242, 245, 255),
		Star:       rl.NewColor(90, 90, 110, 160),
		Ring:       rl.NewColor(187, 187, 187, 255),
		PanelBg:    rl.NewColor(255, 255, 255, 220),
		PanelEdge:  rl.NewColor(0, 0, 0, 40),
		Text:       rl.NewColor(26, 26, 26, 255),
		TextDim:    rl.NewColor(90, 90, 90, 255),
		Accent:     rl.NewColor(75, 112, 221, 255),
	}
)

func PaletteFor(t orrery.Theme) Palette {
	if t == orrery.ThemeLight {
		return PaletteLight
	}
	return PaletteDark
}

func color(c orrery.Color) rl.Color {
	r, g, b := c.RGB()
	return rl.NewColor(r, g, b, 255)
}

// syncCamera copies the controller camera into the raylib camera.
func (a *App) syncCamera(cam geom.Camera) {
	a.camera = rl.NewCamera3D(
		vec(cam.Position),
		vec(cam.Target),
		vec(cam.Up),
		float32(cam.FOV),
		rl.CameraPerspective,
	)
}

// Render implements orrery.Renderer.
func (a *App) Render(f orrery.Frame) {
	a.syncCamera(f.Camera)
	pal := PaletteFor(f.Theme)

	rl.BeginDrawing()
	rl.ClearBackground(pal.Background)

	rl.BeginMode3D(a.camera)
	a.drawStars(pal)
	a.drawRings(f, pal)
	a.drawSun(f)
	a.drawBodies(f)
	rl.EndMode3D()

	a.panel.Draw(a, f, pal)
	if a.isHovered {
		a.drawInfo(pal)
	}
	a.drawStatus(f, pal)
	rl.EndDrawing()
}

func (a *App) drawStars(pal Palette) {
	for _, s := range a.stars {
		rl.DrawPoint3D(s, pal.Star)
	}
}

// drawRings outlines each orbit in the XZ plane.
func (a *App) drawRings(f orrery.Frame, pal Palette) {
	axis := rl.NewVector3(1, 0, 0)
	for _, b := range f.Bodies {
		rl.DrawCircle3D(rl.NewVector3(0, 0, 0), float32(b.OrbitalDistance), axis, 90, pal.Ring)
	}
}

func (a *App) drawSun(f orrery.Frame) {
	sun := color(orrery.SunColor)
	rl.PushMatrix()
	rl.Rotatef(float32(f.SunRotation*rad2deg), 0, 1, 0)
	rl.DrawSphere(rl.NewVector3(0, 0, 0), orrery.SunRadius, sun)
	rl.DrawSphereWires(rl.NewVector3(0, 0, 0), orrery.SunRadius*1.01, 12, 12, rl.ColorAlpha(rl.Orange, 0.4))
	rl.PopMatrix()
}

// drawBodies places each planet at its world position and spins it by its
// self-rotation angle.
func (a *App) drawBodies(f orrery.Frame) {
	for _, b := range f.Bodies {
		c := color(b.Color)
		rl.PushMatrix()
		rl.Translatef(float32(b.Position.X), float32(b.Position.Y), float32(b.Position.Z))
		rl.Rotatef(float32(b.SelfRotationAngle*rad2deg), 0, 1, 0)
		rl.DrawSphere(rl.NewVector3(0, 0, 0), float32(b.Radius), c)
		rl.DrawSphereWires(rl.NewVector3(0, 0, 0), float32(b.Radius)*1.02, 8, 8, rl.ColorAlpha(rl.Black, 0.25))
		rl.PopMatrix()
		if a.isHovered && a.hovered.ID == b.ID {
			rl.DrawSphereWires(vec(b.Position), float32(b.Radius)*1.3, 6, 12, rl.ColorAlpha(c, 0.6))
		}
	}
}

// drawInfo shows the hovered body's name and description near the cursor.
func (a *App) drawInfo(pal Palette) {
	const w, pad = 300, 12
	m := rl.GetMousePosition()
	x, y := m.X+18, m.Y+18
	if sw := float32(rl.GetScreenWidth()); x+w > sw {
		x = sw - w - 8
	}

	lines := wrap(a.hovered.Description, 38)
	h := float32(pad*2 + 24 + 18*len(lines))
	if sh := float32(rl.GetScreenHeight()); y+h > sh {
		y = sh - h - 8
	}

	rect := rl.NewRectangle(x, y, w, h)
	rl.DrawRectangleRounded(rect, 0.1, 6, pal.PanelBg)
	rl.DrawRectangleRoundedLines(rect, 0.1, 6, pal.PanelEdge)
	a.drawText(a.hovered.Name, int(x)+pad, int(y)+pad, 20, color(a.hovered.Color))
	for i, line := range lines {
		a.drawText(line, int(x)+pad, int(y)+pad+26+18*i, 14, pal.Text)
	}
}

func (a *App) drawStatus(f orrery.Frame, pal Palette) {
	status := fmt.Sprintf("t=%.1fs", f.Elapsed)
	if f.Paused {
		status += "  PAUSED"
	}
	if f.Focusing {
		if b, ok := f.Body(f.FocusedBodyID); ok {
			status += "  focus: " + b.Name
		}
	}
	a.drawText(status, 20, rl.GetScreenHeight()-30, 14, pal.TextDim)
	hint := "SPACE pause  T theme  TAB panel  Q quit"
	a.drawText(hint, rl.GetScreenWidth()-a.measure(hint, 14)-20, rl.GetScreenHeight()-30, 14, pal.TextDim)
}

func (a *App) drawText(text string, x, y int, size int, c rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
}

func (a *App) measure(text string, size int) int {
	return int(rl.MeasureTextEx(a.font, text, float32(size), 1).X)
}

// wrap breaks s into lines of at most width bytes on word boundaries.
func wrap(s string, width int) []string {
	var lines []string
	line := ""
	word := ""
	flush := func() {
		if word == "" {
			return
		}
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
		word = ""
	}
	for _, r := range s {
		if r == ' ' || r == '\n' {
			flush()
			continue
		}
		word += string(r)
	}
	flush()
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
