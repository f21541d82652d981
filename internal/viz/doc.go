// Package viz renders a ring field in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view that steps the field at 60 Hz
//   - [NewPicker]: preset menu that opens a live view
//   - [Canvas]: Braille-based pixel canvas with even-odd polygon fill
//   - [RenderField]: projects rings onto a canvas back to front
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the scene
//	+/-   - Tempo
//	←/→   - Speed scale
//	↑/↓   - Camera distance (eased on screen)
//	[ ]   - Ring count
//	M     - Toggle beat-lock / ratio mode
//	F     - Filled or outlined rings
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
