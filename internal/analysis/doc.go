// Package analysis measures recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled signal
//   - [SlopePeriod]: orbital period from the mean angular rate
//   - [SpectralPeriod]: orbital period from the dominant frequency of the
//     body's x position
//   - [ExpectedPeriod]: the period implied by speed and multiplier
//
// The slope estimate is exact for constant speeds. The spectral estimate is
// limited to the bin width 1/(n·dt) and is meant as a cross-check on runs
// whose speeds changed mid-run. Samples taken while paused are skipped.
package analysis
