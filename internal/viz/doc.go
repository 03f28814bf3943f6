// Package viz draws spirals and run progress in the terminal.
//
//   - [Canvas]: Braille pixel canvas, two by four dots per cell
//   - [Watch]: Bubble Tea model following a running simulation
//   - [DistanceChart]: distance from the origin over the run
//   - Styled key/value summaries themed by [Theme]
//
// # Key Bindings
//
//	Q, Ctrl+C - stop the simulation and quit
//	T         - cycle color themes
package viz
