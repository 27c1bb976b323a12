package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orrery/internal/orrery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tour = `
name: tour
description: pause, resume and fly to mars
preset: frozen
dt: 0.1
duration: 4
steps:
  - at: 3
    action: focus
    body: mars
  - at: 0
    action: speed
    speeds: {earth: 2}
  - at: 1
    action: pause
  - at: 2
    action: resume
  - at: 2
    action: theme
    theme: light
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(tour))
	require.NoError(t, err)

	assert.Equal(t, "tour", sc.Name)
	assert.Len(t, sc.Steps, 5)
	assert.Equal(t, ActionSpeed, sc.Steps[0].Action)
	assert.Equal(t, ActionFocus, sc.Steps[4].Action)
	assert.True(t, sc.ChangesSpeed())

	still, err := ParseScenario([]byte("duration: 1\nsteps:\n  - at: 0.5\n    action: pause\n"))
	require.NoError(t, err)
	assert.False(t, still.ChangesSpeed())
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no duration", "dt: 0.1\n"},
		{"bad preset", "duration: 1\npreset: warp\n"},
		{"bad action", "duration: 1\nsteps:\n  - action: explode\n"},
		{"unknown focus", "duration: 1\nsteps:\n  - action: focus\n    body: pluto\n"},
		{"empty speed", "duration: 1\nsteps:\n  - action: speed\n"},
		{"bad theme", "duration: 1\nsteps:\n  - action: theme\n    theme: sepia\n"},
		{"negative time", "duration: 1\nsteps:\n  - at: -1\n    action: pause\n"},
		{"not yaml", "::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := ParseScenario([]byte("duration: 1\nsteps:\n  - action: speed\n    speeds: {pluto: 1}\n"))
	assert.True(t, errors.Is(err, orrery.ErrUnknownBody))
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(tour))
	require.NoError(t, err)

	result, r, err := RunScenario(context.Background(), sc, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Applied())
	assert.Equal(t, 40, result.Frames)

	earth, err := result.Series("earth")
	require.NoError(t, err)
	// Earth runs at 2x for 1s, sits paused for 1s, then runs 2s more.
	assert.InDelta(t, 3*2*0.1, earth[len(earth)-1], 1e-9)

	mars, err := result.Series("mars")
	require.NoError(t, err)
	assert.Equal(t, 0.0, mars[len(mars)-1])

	ctrl := r.ctrl
	assert.False(t, ctrl.Paused())
	assert.Equal(t, orrery.ThemeLight, ctrl.Theme())
	// Focus started at t=3 and one second of run time has passed.
	assert.False(t, ctrl.Focusing())
	body, _ := ctrl.Body("mars")
	want := body.WorldPosition().Add(orrery.FocusOffset)
	got := ctrl.Camera().Position
	assert.InDelta(t, want.X, got.X, 1e-6)
	assert.InDelta(t, want.Y, got.Y, 1e-6)
	assert.InDelta(t, want.Z, got.Z, 1e-6)
}

func TestRunScenario_Canceled(t *testing.T) {
	sc, err := ParseScenario([]byte("duration: 10\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = RunScenario(ctx, sc, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
