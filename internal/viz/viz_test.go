package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Count() != 2 {
		t.Errorf("expected 2 dots, got %d", c.Count())
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected ⠁, got %q", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected ⢀, got %q", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) {
		t.Error("expected dot cleared")
	}
	c.Clear()
	if c.Count() != 0 {
		t.Errorf("expected empty canvas, got %d dots", c.Count())
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawLine(0, 0, 9, 0)
	if c.Count() != 10 {
		t.Errorf("expected 10 dots on line, got %d", c.Count())
	}

	c.Clear()
	c.DrawCircle(20, 20, 8)
	for _, p := range [][2]int{{28, 20}, {12, 20}, {20, 28}, {20, 12}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected circle through %v", p)
		}
	}
	if c.IsSet(20, 20) {
		t.Error("circle outline should not fill the center")
	}

	c.Clear()
	c.FillCircle(20, 20, 2)
	if !c.IsSet(20, 20) || !c.IsSet(22, 20) || c.IsSet(23, 20) {
		t.Error("unexpected filled circle extent")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 cells per row, got %d", len([]rune(lines[0])))
	}
}

func TestTopDownProject(t *testing.T) {
	p := TopDown{W: 102, H: 102, Extent: 50}
	if p.Scale() != 1 {
		t.Fatalf("expected scale 1, got %f", p.Scale())
	}

	tests := []struct {
		v      geom.Vec3
		wx, wy int
	}{
		{geom.V(0, 0, 0), 51, 51},
		{geom.V(10, 0, 0), 61, 51},
		{geom.V(0, 0, -10), 51, 41},
		{geom.V(0, 99, 0), 51, 51},
	}
	for _, tt := range tests {
		x, y := p.Project(tt.v)
		if x != tt.wx || y != tt.wy {
			t.Errorf("Project(%v) = (%d,%d), expected (%d,%d)", tt.v, x, y, tt.wx, tt.wy)
		}
	}
}

func TestTopDownExtent(t *testing.T) {
	ctrl := orrery.New(nil, nil)
	p := NewTopDown(100, 100, ctrl.Frame().Bodies)
	want := (52 + 1.5) * 1.05
	if math.Abs(p.Extent-want) > 1e-9 {
		t.Errorf("expected extent %f, got %f", want, p.Extent)
	}
}

func TestDrawFrameMarksBodies(t *testing.T) {
	ctrl := orrery.New(nil, nil)
	f := ctrl.Frame()
	c := NewCanvas(width, height)
	DrawFrame(c, f)

	w, h := c.Dots()
	p := NewTopDown(w, h, f.Bodies)
	for _, b := range f.Bodies {
		x, y := p.Project(b.Position)
		if !c.IsSet(x, y) {
			t.Errorf("expected %s drawn at (%d,%d)", b.ID, x, y)
		}
	}
	cx, cy := p.Center()
	if !c.IsSet(cx, cy) {
		t.Error("expected sun at center")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeys(t *testing.T) {
	m := NewModel()
	ctrl := m.Controller()

	if m.Selected() != "mercury" {
		t.Fatalf("expected mercury selected, got %s", m.Selected())
	}

	m = update(m, key("up"))
	if m.Selected() != "neptune" {
		t.Errorf("expected selection to wrap to neptune, got %s", m.Selected())
	}
	m = update(m, key("down"))
	m = update(m, key("down"))
	if m.Selected() != "venus" {
		t.Errorf("expected venus, got %s", m.Selected())
	}

	m = update(m, key("right"))
	m = update(m, key("right"))
	if v, _ := ctrl.SpeedMultiplier("venus"); v != 1.2 {
		t.Errorf("expected venus speed 1.2, got %v", v)
	}
	for i := 0; i < 20; i++ {
		m = update(m, key("left"))
	}
	if v, _ := ctrl.SpeedMultiplier("venus"); v != 0 {
		t.Errorf("expected venus speed clamped at 0, got %v", v)
	}

	m = update(m, key(" "))
	if !ctrl.Paused() {
		t.Error("expected paused after space")
	}
	m = update(m, key("t"))
	if ctrl.Theme() != orrery.ThemeLight {
		t.Errorf("expected light theme, got %s", ctrl.Theme())
	}
	m = update(m, key("f"))
	if !ctrl.Focusing() {
		t.Error("expected focus transition after f")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModelTickRendersOnce(t *testing.T) {
	m := NewModel()
	start := time.Unix(100, 0)

	m = update(m, TickMsg(start))
	m = update(m, TickMsg(start.Add(500*time.Millisecond)))

	if m.view.renders != 2 {
		t.Errorf("expected 2 renders, got %d", m.view.renders)
	}
	earth, _ := m.Controller().Body("earth")
	want := (1.0/60 + 0.5) * 0.1
	if diff := earth.OrbitalAngle - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected earth angle %f, got %f", want, earth.OrbitalAngle)
	}
	if len(m.view.history) != 2 {
		t.Errorf("expected 2 history points, got %d", len(m.view.history))
	}
}

func TestModelResize(t *testing.T) {
	m := NewModel()
	m = update(m, tea.WindowSizeMsg{Width: 160, Height: 40})
	if m.view.canvas.Width != 160-panelWidth-4 || m.view.canvas.Height != 38 {
		t.Errorf("unexpected canvas size %dx%d", m.view.canvas.Width, m.view.canvas.Height)
	}
	if w, h := m.Controller().Viewport(); w != 160 || h != 40 {
		t.Errorf("expected viewport 160x40, got %dx%d", w, h)
	}

	m = update(m, tea.WindowSizeMsg{Width: 0, Height: 40})
	if w, _ := m.Controller().Viewport(); w != 160 {
		t.Errorf("degenerate resize changed viewport to width %d", w)
	}
}

func TestModelView(t *testing.T) {
	m := NewModel()
	m = update(m, key(" "))
	if strings.Contains(m.View(), "PAUSED") {
		t.Error("expected pause to show only after the next frame")
	}
	m = update(m, TickMsg(time.Now()))
	out := m.View()
	for _, want := range []string{"ORRERY", "PAUSED", "Mercury", "Neptune", "1.0x"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestSpeedBar(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "[------]"},
		{1.5, "[===---]"},
		{3, "[======]"},
		{9, "[======]"},
	}
	for _, tt := range tests {
		if got := SpeedBar(tt.v, 3, 6); got != tt.want {
			t.Errorf("SpeedBar(%v) = %q, expected %q", tt.v, got, tt.want)
		}
	}
}
