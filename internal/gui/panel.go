package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/orrery"
)

const (
	panelX      = 20
	panelY      = 20
	panelWidth  = 300
	toggleSize  = 28
	rowHeight   = 34
	sliderX     = 100
	sliderWidth = 130
	buttonH     = 30
)

// Panel is the speed control panel: one slider per body plus pause, theme
// and collapse buttons.
type Panel struct {
	Collapsed bool
	bodies    []orrery.CelestialBody
	dragging  int
}

func NewPanel(bodies []orrery.CelestialBody) *Panel {
	return &Panel{bodies: bodies, dragging: -1}
}

func PauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

// ThemeLabel names the theme the button switches to.
func ThemeLabel(t orrery.Theme) string {
	if t == orrery.ThemeLight {
		return "Dark"
	}
	return "Light"
}

func SpeedLabel(v float64) string { return fmt.Sprintf("%.1fx", v) }

func (p *Panel) toggleRect() rl.Rectangle {
	return rl.NewRectangle(panelX, panelY, toggleSize, toggleSize)
}

func (p *Panel) bounds() rl.Rectangle {
	if p.Collapsed {
		return p.toggleRect()
	}
	h := float32(toggleSize + 16 + rowHeight*len(p.bodies) + buttonH + 24)
	return rl.NewRectangle(panelX, panelY, panelWidth, h)
}

func (p *Panel) rowY(i int) float32 {
	return float32(panelY + toggleSize + 16 + rowHeight*i)
}

func (p *Panel) sliderRect(i int) rl.Rectangle {
	return rl.NewRectangle(panelX+sliderX, p.rowY(i)+8, sliderWidth, 8)
}

func (p *Panel) buttonY() float32 { return p.rowY(len(p.bodies)) + 6 }

func (p *Panel) pauseRect() rl.Rectangle {
	return rl.NewRectangle(panelX+12, p.buttonY(), 130, buttonH)
}

func (p *Panel) themeRect() rl.Rectangle {
	return rl.NewRectangle(panelX+panelWidth-142, p.buttonY(), 130, buttonH)
}

// SliderValue converts a mouse x over the track into a stepped multiplier.
func SliderValue(x float32, track rl.Rectangle) float64 {
	if track.Width <= 0 {
		return orrery.DefaultSpeedMultiplier
	}
	frac := float64((x - track.X) / track.Width)
	return orrery.QuantizeSpeed(frac * orrery.MaxSpeedMultiplier)
}

// Update applies clicks and drags to ctrl. It reports whether the mouse is
// captured by the panel, in which case the scene must not be picked.
func (p *Panel) Update(ctrl *orrery.Controller, mouse rl.Vector2) bool {
	pressed := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		p.dragging = -1
	}

	if pressed && rl.CheckCollisionPointRec(mouse, p.toggleRect()) {
		p.Collapsed = !p.Collapsed
		p.dragging = -1
		return true
	}
	if p.Collapsed {
		return rl.CheckCollisionPointRec(mouse, p.toggleRect())
	}

	if pressed {
		switch {
		case rl.CheckCollisionPointRec(mouse, p.pauseRect()):
			ctrl.TogglePause()
		case rl.CheckCollisionPointRec(mouse, p.themeRect()):
			ctrl.ToggleTheme()
		default:
			for i := range p.bodies {
				hit := p.sliderRect(i)
				hit.Y -= 8
				hit.Height += 16
				if rl.CheckCollisionPointRec(mouse, hit) {
					p.dragging = i
					break
				}
			}
		}
	}

	if p.dragging >= 0 {
		id := p.bodies[p.dragging].ID
		_ = ctrl.SetSpeedMultiplier(id, SliderValue(mouse.X, p.sliderRect(p.dragging)))
		return true
	}
	return rl.CheckCollisionPointRec(mouse, p.bounds())
}

func (p *Panel) Draw(a *App, f orrery.Frame, pal Palette) {
	if !p.Collapsed {
		b := p.bounds()
		rl.DrawRectangleRounded(b, 0.05, 8, pal.PanelBg)
		rl.DrawRectangleRoundedLines(b, 0.05, 8, pal.PanelEdge)
		a.drawText("Planet speeds", panelX+toggleSize+12, panelY+6, 18, pal.Text)

		for i, body := range f.Bodies {
			y := int(p.rowY(i))
			rl.DrawCircle(panelX+20, int32(y+12), 6, color(body.Color))
			a.drawText(body.Name, panelX+32, y+4, 16, pal.Text)

			track := p.sliderRect(i)
			rl.DrawRectangleRounded(track, 1, 4, pal.PanelEdge)
			fill := track
			fill.Width = track.Width * float32(body.Speed/orrery.MaxSpeedMultiplier)
			rl.DrawRectangleRounded(fill, 1, 4, pal.Accent)
			knob := rl.NewVector2(track.X+fill.Width, track.Y+track.Height/2)
			rl.DrawCircleV(knob, 8, pal.Text)

			a.drawText(SpeedLabel(body.Speed), int(track.X+track.Width)+14, y+4, 16, pal.TextDim)
		}

		p.button(a, p.pauseRect(), PauseLabel(f.Paused), pal)
		p.button(a, p.themeRect(), ThemeLabel(f.Theme), pal)
	}

	t := p.toggleRect()
	rl.DrawRectangleRounded(t, 0.3, 6, pal.PanelBg)
	rl.DrawRectangleRoundedLines(t, 0.3, 6, pal.PanelEdge)
	l, r := t.X+9, t.X+t.Width-9
	top, mid, bot := t.Y+8, t.Y+t.Height/2, t.Y+t.Height-8
	if p.Collapsed {
		rl.DrawTriangle(rl.NewVector2(l, top), rl.NewVector2(l, bot), rl.NewVector2(r, mid), pal.Text)
	} else {
		rl.DrawTriangle(rl.NewVector2(r, top), rl.NewVector2(l, mid), rl.NewVector2(r, bot), pal.Text)
	}
}

func (p *Panel) button(a *App, r rl.Rectangle, label string, pal Palette) {
	bg := pal.PanelEdge
	if rl.CheckCollisionPointRec(rl.GetMousePosition(), r) {
		bg = rl.ColorAlpha(pal.Accent, 0.5)
	}
	rl.DrawRectangleRounded(r, 0.3, 6, bg)
	w := a.measure(label, 16)
	a.drawText(label, int(r.X)+(int(r.Width)-w)/2, int(r.Y)+7, 16, pal.Text)
}
