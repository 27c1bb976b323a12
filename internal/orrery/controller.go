package orrery

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/orrery/internal/geom"
)

type Controller struct {
	bodies   []CelestialBody
	index    map[string]int
	state    SimulationState
	camera   geom.Camera
	width    int
	height   int
	renderer Renderer
	picker   Picker
	now      func() time.Time
	log      *slog.Logger
	ticks    uint64
}

type Option func(*Controller)

// WithClock replaces the wall clock used by focus transitions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithCamera(cam geom.Camera) Option {
	return func(c *Controller) { c.camera = cam }
}

// WithViewport sets the initial viewport; degenerate sizes are ignored.
func WithViewport(w, h int) Option {
	return func(c *Controller) { _ = c.Resize(w, h) }
}

// New builds a controller over the catalog with every multiplier at 1.
// A nil renderer discards frames and a nil picker never hits.
func New(renderer Renderer, picker Picker, opts ...Option) *Controller {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	c := &Controller{
		bodies:   Catalog(),
		index:    make(map[string]int),
		camera:   geom.NewCamera(),
		width:    1280,
		height:   720,
		renderer: renderer,
		picker:   picker,
		now:      time.Now,
		log:      slog.Default(),
		state: SimulationState{
			SpeedMultiplier: make(map[string]float64),
			Theme:           ThemeDark,
		},
	}
	for i, b := range c.bodies {
		c.index[b.ID] = i
		c.state.SpeedMultiplier[b.ID] = DefaultSpeedMultiplier
	}
	for _, opt := range opts {
		opt(c)
	}
	c.camera.Aspect = float64(c.width) / float64(c.height)
	return c
}

// Tick advances the simulation by dt seconds and renders one frame.
// Negative and NaN deltas count as zero. The focus transition runs on the
// wall clock and keeps moving while paused.
func (c *Controller) Tick(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if !c.state.Paused {
		for i := range c.bodies {
			b := &c.bodies[i]
			b.OrbitalAngle += dt * b.BaseAngularSpeed * c.state.SpeedMultiplier[b.ID] * OrbitScale
			b.SelfRotationAngle += dt * SelfRotationRate
		}
		c.state.SunRotation += dt * SunRotationRate
		c.state.Elapsed += dt
	}
	c.AdvanceFocusTransition(c.now())
	c.ticks++
	c.renderer.Render(c.Frame())
}

// SetSpeedMultiplier stores a clamped multiplier for the next tick.
func (c *Controller) SetSpeedMultiplier(id string, v float64) error {
	if _, ok := c.index[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	clamped := ClampSpeed(v)
	if clamped != v {
		c.log.Debug("speed multiplier clamped", "body", id, "requested", v, "stored", clamped)
	}
	c.state.SpeedMultiplier[id] = clamped
	return nil
}

func (c *Controller) SpeedMultiplier(id string) (float64, bool) {
	v, ok := c.state.SpeedMultiplier[id]
	return v, ok
}

// TogglePause flips the pause flag and returns the new value.
func (c *Controller) TogglePause() bool {
	c.state.Paused = !c.state.Paused
	c.log.Debug("pause toggled", "paused", c.state.Paused)
	return c.state.Paused
}

func (c *Controller) Paused() bool { return c.state.Paused }

func (c *Controller) ToggleTheme() Theme {
	c.state.Theme = c.state.Theme.Toggle()
	return c.state.Theme
}

func (c *Controller) SetTheme(t Theme) { c.state.Theme = t }

func (c *Controller) Theme() Theme { return c.state.Theme }

// Resize updates the viewport and camera aspect. Degenerate sizes are
// rejected and leave everything unchanged.
func (c *Controller) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDegenerateViewport, w, h)
	}
	c.width, c.height = w, h
	c.camera.Aspect = float64(w) / float64(h)
	return nil
}

func (c *Controller) Viewport() (int, int) { return c.width, c.height }

// Pick returns the nearest body under screen pixel (sx, sy).
func (c *Controller) Pick(sx, sy float64) (CelestialBody, bool) {
	if c.picker == nil {
		return CelestialBody{}, false
	}
	ray := c.camera.ScreenRay(sx, sy, float64(c.width), float64(c.height))
	id, ok := c.picker.PickBody(ray, c.targets())
	if !ok {
		return CelestialBody{}, false
	}
	i, known := c.index[id]
	if !known {
		return CelestialBody{}, false
	}
	return c.bodies[i], true
}

func (c *Controller) targets() []Target {
	ts := make([]Target, len(c.bodies))
	for i, b := range c.bodies {
		ts[i] = Target{ID: b.ID, Center: b.WorldPosition(), Radius: b.Radius}
	}
	return ts
}

// FocusOn starts a camera move from the current camera position toward the
// body's present location, replacing any move in flight.
func (c *Controller) FocusOn(id string) error {
	i, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	target := c.bodies[i].WorldPosition()
	c.state.Focus = &FocusTransition{
		BodyID:    id,
		Start:     c.camera.Position,
		End:       target.Add(FocusOffset),
		Target:    target,
		StartedAt: c.now(),
		Duration:  FocusDuration,
	}
	c.log.Debug("focus transition started", "body", id, "target", target)
	return nil
}

// AdvanceFocusTransition moves the camera along the in-flight transition
// and reports whether one is still running afterwards.
func (c *Controller) AdvanceFocusTransition(now time.Time) bool {
	f := c.state.Focus
	if f == nil {
		return false
	}
	p := f.Progress(now)
	c.camera.Position = geom.Lerp(f.Start, f.End, Ease(p))
	c.camera.Target = f.Target
	if p >= 1 {
		c.state.Focus = nil
		c.log.Debug("focus transition finished", "body", f.BodyID)
		return false
	}
	return true
}

func (c *Controller) Focusing() bool { return c.state.Focus != nil }

func (c *Controller) Camera() geom.Camera { return c.camera }

// State returns a deep copy of the simulation state.
func (c *Controller) State() SimulationState { return c.state.clone() }

func (c *Controller) Bodies() []CelestialBody {
	out := make([]CelestialBody, len(c.bodies))
	copy(out, c.bodies)
	return out
}

func (c *Controller) Body(id string) (CelestialBody, bool) {
	i, ok := c.index[id]
	if !ok {
		return CelestialBody{}, false
	}
	return c.bodies[i], true
}

func (c *Controller) Ticks() uint64 { return c.ticks }

// Frame snapshots the controller for a renderer.
func (c *Controller) Frame() Frame {
	f := Frame{
		Tick:        c.ticks,
		Camera:      c.camera,
		Width:       c.width,
		Height:      c.height,
		Bodies:      make([]BodyView, len(c.bodies)),
		SunRotation: c.state.SunRotation,
		Theme:       c.state.Theme,
		Paused:      c.state.Paused,
		Focusing:    c.state.Focus != nil,
		Elapsed:     c.state.Elapsed,
	}
	if c.state.Focus != nil {
		f.FocusedBodyID = c.state.Focus.BodyID
	}
	for i, b := range c.bodies {
		f.Bodies[i] = BodyView{
			CelestialBody: b,
			Position:      b.WorldPosition(),
			Speed:         c.state.SpeedMultiplier[b.ID],
		}
	}
	return f
}
