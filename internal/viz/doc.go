// Package viz renders a running scene in the terminal with Bubble Tea.
//
//   - [Model]: live view of one scene, with mouse dragging
//   - [Canvas]: braille pixel canvas, addressed through a [Viewport]
//   - [RunInteractive]: preset picker that tunes springs before launching [Model]
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single tick while paused
//	F     - Refit the view to the bodies
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// Boxes are dragged with the left mouse button. The engine ticks once per
// frame; a failing tick stops the program and is returned by [Run].
package viz
