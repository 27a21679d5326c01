// Package viz shows collision runs in the terminal.
//
// The package provides:
//
//   - [Model]: Bubble Tea playback of one simulated scenario
//   - [Canvas]: Braille-based pixel canvas used to draw the balls
//   - [Summary]: lipgloss report for a single run
//   - [PlotPositions], [PlotVelocities], [PlotDistance]: asciigraph charts
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from t=0
//	[ ]   - Step backward/forward one frame
//	F     - Jump to the selected final frame
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
