package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFrames(t *testing.T) {
	tests := []struct {
		cfg  Config
		want int
	}{
		{Config{Dt: 0.1, Duration: 1}, 10},
		{Config{Dt: 1.0 / 60, Duration: 60}, 3600},
		{Config{Dt: 0.3, Duration: 1}, 3},
		{Config{Dt: 2, Duration: 1}, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.Frames(), "dt=%v duration=%v", tt.cfg.Dt, tt.cfg.Duration)
	}
}

func TestEnsembleRun(t *testing.T) {
	variants := []Variant{
		{Name: "default"},
		{Name: "frozen", Speeds: map[string]float64{"earth": 0}},
		{Name: "fast", Speeds: map[string]float64{"earth": 3}},
	}

	results, err := NewEnsemble(2).Run(context.Background(), variants, Config{Dt: 0.1, Duration: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	final := func(r *Result) float64 {
		series, err := r.Series("earth")
		require.NoError(t, err)
		return series[len(series)-1]
	}

	assert.InDelta(t, 0.2, final(results[0]), 1e-9)
	assert.Equal(t, 0.0, final(results[1]))
	assert.InDelta(t, 0.6, final(results[2]), 1e-9)
	for _, r := range results {
		assert.Equal(t, 20.0, r.Metrics["frames"])
	}
}

func TestEnsembleUnknownBody(t *testing.T) {
	variants := []Variant{{Name: "bad", Speeds: map[string]float64{"pluto": 1}}}
	_, err := NewEnsemble(1).Run(context.Background(), variants, Config{Dt: 0.1, Duration: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestEnsembleInvalidConfig(t *testing.T) {
	_, err := NewEnsemble(0).Run(context.Background(), []Variant{{Name: "x"}}, Config{})
	assert.Error(t, err)
}
