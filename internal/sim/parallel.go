package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/san-kum/orrery/internal/orrery"
)

// Variant is one speed configuration in a comparison.
type Variant struct {
	Name   string
	Speeds map[string]float64
}

// Ensemble runs independent simulators side by side on a worker pool. Each
// task owns its own controller, so no state is shared between goroutines.
type Ensemble struct {
	workers int
	opts    []orrery.Option
	log     *slog.Logger
}

func NewEnsemble(workers int, opts ...orrery.Option) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{workers: workers, opts: opts, log: slog.Default()}
}

// Run returns one result per variant, in the order given.
func (e *Ensemble) Run(ctx context.Context, variants []Variant, cfg Config) ([]*Result, error) {
	pool, err := ants.NewPool(e.workers, ants.WithPanicHandler(func(p interface{}) {
		e.log.Error("ensemble task panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]*Result, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		idx, variant := i, v
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, variant, cfg)
		})
		if submitErr != nil {
			wg.Done()
			errs[idx] = fmt.Errorf("submit %s: %w", variant.Name, submitErr)
		}
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", variants[i].Name, err)
		}
		if results[i] == nil {
			return nil, fmt.Errorf("variant %s: no result", variants[i].Name)
		}
	}

	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, v Variant, cfg Config) (*Result, error) {
	s := New(e.opts...)
	s.SetLogger(e.log.With("variant", v.Name))
	for _, m := range DefaultMetrics() {
		s.AddMetric(m)
	}
	for id, speed := range v.Speeds {
		if err := s.Controller().SetSpeedMultiplier(id, speed); err != nil {
			return nil, err
		}
	}
	return s.Run(ctx, cfg)
}
