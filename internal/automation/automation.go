// Package automation replays scripted controller sessions from YAML.
//
// A scenario is a list of timed steps applied between ticks of a headless
// run. Step times count ticks, not simulated orbit time, so a "resume"
// scheduled after a "pause" still fires.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/sim"
	"gopkg.in/yaml.v3"
)

type Action string

const (
	ActionSpeed  Action = "speed"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionToggle Action = "toggle-pause"
	ActionTheme  Action = "theme"
	ActionFocus  Action = "focus"
)

// Scenario defines a scripted session
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Steps       []Step  `yaml:"steps"`
}

// Step is one command issued at time At (seconds since the start).
type Step struct {
	At     float64            `yaml:"at"`
	Action Action             `yaml:"action"`
	Body   string             `yaml:"body,omitempty"`
	Theme  string             `yaml:"theme,omitempty"`
	Speeds map[string]float64 `yaml:"speeds,omitempty"`
}

// ChangesSpeed reports whether any step alters a speed multiplier.
func (sc *Scenario) ChangesSpeed() bool {
	for _, st := range sc.Steps {
		if st.Action == ActionSpeed {
			return true
		}
	}
	return false
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	sc := &Scenario{Dt: config.DefaultDt}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Dt <= 0 {
		return fmt.Errorf("scenario %s: dt must be positive, got %f", sc.Name, sc.Dt)
	}
	if sc.Duration <= 0 {
		return fmt.Errorf("scenario %s: duration must be positive, got %f", sc.Name, sc.Duration)
	}
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return fmt.Errorf("scenario %s: unknown preset %q", sc.Name, sc.Preset)
	}

	known := make(map[string]bool)
	for _, id := range orrery.BodyIDs() {
		known[id] = true
	}
	for i, st := range sc.Steps {
		if st.At < 0 {
			return fmt.Errorf("step %d: negative time %f", i+1, st.At)
		}
		switch st.Action {
		case ActionPause, ActionResume, ActionToggle:
		case ActionTheme:
			if st.Theme != "" {
				if _, err := orrery.ParseTheme(st.Theme); err != nil {
					return fmt.Errorf("step %d: %w", i+1, err)
				}
			}
		case ActionFocus:
			if !known[st.Body] {
				return fmt.Errorf("step %d: %w: %q", i+1, orrery.ErrUnknownBody, st.Body)
			}
		case ActionSpeed:
			if len(st.Speeds) == 0 {
				return fmt.Errorf("step %d: speed step without speeds", i+1)
			}
			for id := range st.Speeds {
				if !known[id] {
					return fmt.Errorf("step %d: %w: %q", i+1, orrery.ErrUnknownBody, id)
				}
			}
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, st.Action)
		}
	}
	return nil
}

// Runner feeds due steps to a controller after each rendered frame.
type Runner struct {
	sc       *Scenario
	ctrl     *orrery.Controller
	next     int
	tick     uint64
	step     time.Duration
	applying bool
	epoch    time.Time
	log      *slog.Logger
}

// clock ties focus transitions to run time so scripted camera moves play
// out the same regardless of how fast the run executes. While steps are
// being applied it reads the frame just rendered; otherwise it reads the
// tick in progress.
func (r *Runner) clock() time.Time {
	n := r.tick
	if !r.applying {
		n++
	}
	return r.epoch.Add(time.Duration(n) * r.step)
}

func (r *Runner) elapsed() float64 { return float64(r.tick) * r.sc.Dt }

func (r *Runner) OnFrame(f orrery.Frame) {
	r.tick = f.Tick
	r.applyDue()
}

func (r *Runner) applyDue() {
	r.applying = true
	defer func() { r.applying = false }()
	for r.next < len(r.sc.Steps) && r.sc.Steps[r.next].At <= r.elapsed()+1e-9 {
		st := r.sc.Steps[r.next]
		r.next++
		if err := r.apply(st); err != nil {
			r.log.Warn("scenario step failed", "at", st.At, "action", st.Action, "err", err)
			continue
		}
		r.log.Info("scenario step", "at", st.At, "action", st.Action, "body", st.Body)
	}
}

func (r *Runner) apply(st Step) error {
	switch st.Action {
	case ActionPause:
		if !r.ctrl.Paused() {
			r.ctrl.TogglePause()
		}
	case ActionResume:
		if r.ctrl.Paused() {
			r.ctrl.TogglePause()
		}
	case ActionToggle:
		r.ctrl.TogglePause()
	case ActionTheme:
		if st.Theme == "" {
			r.ctrl.ToggleTheme()
			return nil
		}
		theme, err := orrery.ParseTheme(st.Theme)
		if err != nil {
			return err
		}
		r.ctrl.SetTheme(theme)
	case ActionFocus:
		return r.ctrl.FocusOn(st.Body)
	case ActionSpeed:
		for id, v := range st.Speeds {
			if err := r.ctrl.SetSpeedMultiplier(id, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// State returns the controller state at the end of the run.
func (r *Runner) State() orrery.SimulationState { return r.ctrl.State() }

// Applied reports how many steps have run.
func (r *Runner) Applied() int { return r.next }

// RunScenario executes the scenario on a fresh simulator and returns the
// recorded run along with the runner for inspection.
func RunScenario(ctx context.Context, sc *Scenario, log *slog.Logger, opts ...orrery.Option) (*sim.Result, *Runner, error) {
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{
		sc:    sc,
		step:  time.Duration(math.Round(sc.Dt * float64(time.Second))),
		epoch: time.Unix(0, 0),
		log:   log,
	}

	opts = append(opts, orrery.WithClock(r.clock), orrery.WithLogger(log))
	s := sim.New(opts...)
	r.ctrl = s.Controller()
	for _, m := range sim.DefaultMetrics() {
		s.AddMetric(m)
	}
	s.AddObserver(r)
	s.SetLogger(log)

	if sc.Preset != "" {
		for id, v := range config.GetPreset(sc.Preset).Speeds {
			if err := r.ctrl.SetSpeedMultiplier(id, v); err != nil {
				return nil, r, err
			}
		}
	}
	r.applyDue()

	result, err := s.Run(ctx, sim.Config{Dt: sc.Dt, Duration: sc.Duration})
	if err != nil {
		return result, r, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return result, r, nil
}
