package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/scene"
)

const (
	width           = 60
	height          = 24
	panelWidth      = 50
	historyCapacity = 120
	speedStep       = 0.1
)

type TickMsg time.Time

// orbitView is the controller's renderer. Each tick redraws the canvas and
// records the selected body's x position for the sparkline.
type orbitView struct {
	canvas   *Canvas
	frame    orrery.Frame
	selected string
	history  []float64
	renders  int
}

func (v *orbitView) Render(f orrery.Frame) {
	v.frame = f
	v.renders++
	DrawFrame(v.canvas, f)
	if b, ok := f.Body(v.selected); ok {
		v.history = append(v.history, b.Position.X)
		if len(v.history) > historyCapacity {
			v.history = v.history[len(v.history)-historyCapacity:]
		}
	}
}

func (v *orbitView) selectBody(id string) {
	if v.selected != id {
		v.selected = id
		v.history = v.history[:0]
	}
}

// Model is the Bubble Tea application around one controller.
type Model struct {
	ctrl     *orrery.Controller
	view     *orbitView
	ids      []string
	selected int
	last     time.Time
	showHelp bool
	status   string
	log      *slog.Logger
}

// NewModel builds a controller rendering into the terminal canvas.
func NewModel(opts ...orrery.Option) Model {
	view := &orbitView{
		canvas:  NewCanvas(width, height),
		history: make([]float64, 0, historyCapacity),
	}
	ctrl := orrery.New(view, scene.NewSpherePicker(), opts...)
	ids := orrery.BodyIDs()
	view.selectBody(ids[0])
	view.frame = ctrl.Frame()
	DrawFrame(view.canvas, view.frame)

	return Model{
		ctrl: ctrl,
		view: view,
		ids:  ids,
		log:  slog.Default(),
	}
}

func (m Model) Controller() *orrery.Controller { return m.ctrl }

// Selected returns the id of the body under the cursor.
func (m Model) Selected() string { return m.ids[m.selected] }

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and ticks the controller.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.ctrl.TogglePause()
		case "t":
			m.ctrl.ToggleTheme()
		case "up", "k":
			m.moveSelection(-1)
		case "down", "j":
			m.moveSelection(1)
		case "left", "h":
			m.adjustSpeed(-speedStep)
		case "right", "l":
			m.adjustSpeed(speedStep)
		case "f":
			if err := m.ctrl.FocusOn(m.Selected()); err != nil {
				m.status = err.Error()
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		dt := 1.0 / 60
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		m.ctrl.Tick(dt)
		return m, tick()
	}
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	n := len(m.ids)
	m.selected = ((m.selected+delta)%n + n) % n
	m.view.selectBody(m.Selected())
}

func (m *Model) adjustSpeed(delta float64) {
	id := m.Selected()
	cur, _ := m.ctrl.SpeedMultiplier(id)
	if err := m.ctrl.SetSpeedMultiplier(id, orrery.QuantizeSpeed(cur+delta)); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) resize(w, h int) {
	if err := m.ctrl.Resize(w, h); err != nil {
		m.log.Debug("resize skipped", "err", err)
		return
	}
	cw := max(20, w-panelWidth-4)
	ch := max(10, h-2)
	m.view.canvas = NewCanvas(cw, ch)
	DrawFrame(m.view.canvas, m.view.frame)
}

// View renders the TUI interface.
func (m Model) View() string {
	f := m.view.frame
	st := NewStyles(ThemeFor(f.Theme))

	canvasView := st.Canvas.Render(m.view.canvas.String())

	var s strings.Builder
	s.WriteString(st.Header.Render("ORRERY") + "\n")

	status := st.Running.Render("RUNNING")
	if f.Paused {
		status = st.Paused.Render("PAUSED")
	}
	if f.Focusing {
		if b, ok := f.Body(f.FocusedBodyID); ok {
			status += st.Subtle.Render("  focus → ") + st.Selected.Render(b.Name)
		}
	}
	s.WriteString(status + "\n\n")

	s.WriteString(st.Label.Render("Time") + st.Value.Render(fmt.Sprintf("%.2fs", f.Elapsed)) + "\n")
	s.WriteString(st.Label.Render("Theme") + st.Value.Render(string(f.Theme)) + "\n")
	cam := f.Camera.Position
	s.WriteString(st.Label.Render("Camera") + st.Value.Render(fmt.Sprintf("(%.1f, %.1f, %.1f)", cam.X, cam.Y, cam.Z)) + "\n\n")

	for i, b := range f.Bodies {
		line := fmt.Sprintf("%-8s %s %.1fx", b.Name, SpeedBar(b.Speed, orrery.MaxSpeedMultiplier, 12), b.Speed)
		if i == m.selected {
			s.WriteString(st.Selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.Value.Render(line) + "\n")
		}
	}

	if len(m.view.history) > 1 {
		name := m.Selected()
		if b, ok := f.Body(name); ok {
			name = b.Name
		}
		chart := asciigraph.Plot(m.view.history,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption(name+" x"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	if b, ok := f.Body(m.Selected()); ok {
		s.WriteString("\n" + st.Selected.Render(b.Name) + "\n")
		s.WriteString(st.Subtle.Render(lipgloss.NewStyle().Width(panelWidth-6).Render(b.Description)) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + st.Paused.Render(m.status) + "\n")
	}

	s.WriteString(st.Help.Render(Separator(30) + "\nSP:Pause T:Theme F:Focus Q:Quit\n↑↓:Select ←→:Speed ?:Help"))

	panel := st.Panel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)

	if m.showHelp {
		help := st.Overlay.Render(strings.Join([]string{
			"KEYBOARD SHORTCUTS",
			"",
			"Space  Pause/Resume",
			"↑/↓    Select body",
			"←/→    Speed -/+ 0.1x",
			"F      Focus camera on body",
			"T      Toggle theme",
			"?      Toggle this help",
			"Q      Quit",
		}, "\n"))
		return help + "\n\n" + mainView
	}
	return mainView
}
