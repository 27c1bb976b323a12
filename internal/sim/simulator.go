package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/orrery/internal/orrery"
	"golang.org/x/time/rate"
)

// Simulator drives a controller with a fixed timestep and no window.
// It is the controller's renderer, so every tick reaches the metrics and
// observers exactly once.
type Simulator struct {
	ctrl      *orrery.Controller
	metrics   []Metric
	observers []Observer
	log       *slog.Logger

	recording bool
	result    *Result
}

func New(opts ...orrery.Option) *Simulator {
	s := &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.Default(),
	}
	s.ctrl = orrery.New(s, nil, opts...)
	return s
}

func (s *Simulator) Controller() *orrery.Controller { return s.ctrl }

func (s *Simulator) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)   { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *slog.Logger) { s.log = l }

// Render implements orrery.Renderer.
func (s *Simulator) Render(f orrery.Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	if s.recording {
		s.record(f)
	}
}

func (s *Simulator) record(f orrery.Frame) {
	sample := make(Sample, len(f.Bodies))
	for i, b := range f.Bodies {
		sample[i] = b.OrbitalAngle
	}
	s.result.Samples = append(s.result.Samples, sample)
	s.result.Times = append(s.result.Times, f.Elapsed)
}

// Run ticks the controller Frames() times and returns Frames()+1 samples,
// the first being the state before any tick.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := cfg.Frames()
	first := s.ctrl.Frame()
	result := &Result{
		BodyIDs: make([]string, len(first.Bodies)),
		Times:   make([]float64, 0, frames+1),
		Samples: make([]Sample, 0, frames+1),
		Metrics: make(map[string]float64),
	}
	for i, b := range first.Bodies {
		result.BodyIDs[i] = b.ID
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var limiter *rate.Limiter
	if cfg.RealtimeFPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RealtimeFPS), 1)
	}

	s.result = result
	s.recording = true
	defer func() { s.recording = false }()
	s.record(first)

	s.log.Debug("headless run started", "frames", frames, "dt", cfg.Dt, "realtime_fps", cfg.RealtimeFPS)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, s.stopped(result, ctx.Err())
		default:
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, s.stopped(result, err)
			}
		}
		s.ctrl.Tick(cfg.Dt)
		result.Frames++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug("headless run finished", "frames", result.Frames)
	return result, nil
}

func (s *Simulator) stopped(result *Result, err error) error {
	t := 0.0
	if n := len(result.Times); n > 0 {
		t = result.Times[n-1]
	}
	s.log.Debug("headless run stopped", "frame", result.Frames, "err", err)
	return SimError{Frame: result.Frames, Time: t, Message: err.Error(), Err: err}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RealtimeFPS < 0 {
		return fmt.Errorf("realtime fps must not be negative, got %d", cfg.RealtimeFPS)
	}
	return nil
}
