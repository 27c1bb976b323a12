package sim

import (
	"fmt"

	"github.com/san-kum/orrery/internal/orrery"
)

// Sample is the orbital angle of every body at one instant, in catalog order.
type Sample []float64

type Metric interface {
	Name() string
	Observe(f orrery.Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f orrery.Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(orrery.Frame)

func (fn ObserverFunc) OnFrame(f orrery.Frame) { fn(f) }

type Config struct {
	Dt       float64
	Duration float64
	// RealtimeFPS > 0 paces ticks to wall-clock time.
	RealtimeFPS int
}

func DefaultConfig() Config {
	return Config{
		Dt:       1.0 / 60,
		Duration: 60,
	}
}

func (c Config) Frames() int {
	return int(c.Duration/c.Dt + 0.5)
}

type Result struct {
	BodyIDs []string
	// Times is the simulated time of each sample. It holds still while the
	// controller is paused.
	Times   []float64
	Samples []Sample
	Metrics map[string]float64
	Frames  int
}

// Series extracts one body's orbital angle over time.
func (r *Result) Series(id string) ([]float64, error) {
	col := -1
	for i, b := range r.BodyIDs {
		if b == id {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", orrery.ErrUnknownBody, id)
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s[col]
	}
	return out, nil
}

// SimError reports where a run stopped early.
type SimError struct {
	Frame   int
	Time    float64
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
