// Package viz provides the terminal view of the orrery.
//
// The view is a Bubble Tea program wrapping an [orrery.Controller]:
//
//   - [Model]: the live application, ticking the controller at 60Hz
//   - [Canvas]: Braille-based pixel canvas for the top-down orbit plot
//   - Dark and light themes following the controller's theme
//
// # Key Bindings
//
//	Space - Pause/Resume
//	↑/↓   - Select a body
//	←/→   - Adjust the selected body's speed by 0.1x
//	F     - Focus the camera on the selected body
//	T     - Toggle dark/light theme
//	?     - Show help overlay
//	Q     - Quit
package viz
