// Package orrery implements the animation core of the solar-system view.
//
// The package owns no window, terminal or GPU resources. A host drives it:
//
//   - [Controller]: simulation state, per-body angles, speed multipliers,
//     pause, theme and the eased camera-focus transition
//   - [Renderer]: receives exactly one [Frame] per [Controller.Tick]
//   - [Picker]: resolves a screen ray to the nearest body
//
// # Example
//
//	ctrl := orrery.New(renderer, scene.NewSpherePicker())
//	for running {
//		ctrl.Tick(frameSeconds)
//	}
//
// # Thread Safety
//
// A Controller is NOT thread-safe. Input handlers and the tick loop must run
// on the same goroutine, which is how every host in this module uses it.
package orrery
