package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/orrery/internal/orrery"
)

var (
	ErrTooFewSamples = errors.New("analysis: need at least two samples")
	ErrNoMotion      = errors.New("analysis: body did not move")
)

// ExpectedPeriod is the time for one orbit at a fixed multiplier, or +Inf
// when the body does not move.
func ExpectedPeriod(baseSpeed, multiplier float64) float64 {
	rate := baseSpeed * multiplier * orrery.OrbitScale
	if rate <= 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / rate
}

// moving drops samples taken while the simulation was paused, where the
// simulated time did not advance past the previous kept sample.
func moving(times, angles []float64) ([]float64, []float64) {
	ts := make([]float64, 0, len(times))
	as := make([]float64, 0, len(angles))
	for i, t := range times {
		if len(ts) > 0 && t <= ts[len(ts)-1] {
			continue
		}
		ts = append(ts, t)
		as = append(as, angles[i])
	}
	return ts, as
}

// SlopePeriod derives the period from the total angle swept over the
// unpaused part of the run.
func SlopePeriod(times, angles []float64) (float64, error) {
	if len(angles) < 2 || len(times) != len(angles) {
		return 0, ErrTooFewSamples
	}
	times, angles = moving(times, angles)
	n := len(angles)
	if n < 2 {
		return 0, ErrNoMotion
	}
	swept := angles[n-1] - angles[0]
	span := times[n-1] - times[0]
	if swept <= 0 || span <= 0 {
		return 0, ErrNoMotion
	}
	return 2 * math.Pi * span / swept, nil
}

// SpectralPeriod finds the dominant frequency of cos(angle), the body's
// normalized x position, skipping the DC bin. Paused samples are skipped so
// the remaining ones are evenly spaced.
func SpectralPeriod(times, angles []float64) (float64, error) {
	if len(angles) < 2 || len(times) != len(angles) {
		return 0, ErrTooFewSamples
	}
	times, angles = moving(times, angles)
	n := len(angles)
	if n < 2 {
		return 0, ErrNoMotion
	}
	dt := (times[n-1] - times[0]) / float64(n-1)

	x := make([]float64, n)
	mean := 0.0
	for i, a := range angles {
		x[i] = math.Cos(a)
		mean += x[i]
	}
	mean /= float64(n)
	for i := range x {
		x[i] -= mean
	}

	ps := PowerSpectrum(x)
	best, bestIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bestIdx = ps[i], i
		}
	}
	if bestIdx == 0 || best < 1e-9 {
		return 0, ErrNoMotion
	}

	window := float64(n) * dt
	return window / float64(bestIdx), nil
}
