// Package viz is the terminal front end: a Bubble Tea program that draws the
// scene as braille wireframe boxes and drives a visualizer from the keyboard.
//
//   - [Model]: the program model, one visualizer per model
//   - [Canvas]: braille dot grid with per-cell colour
//   - [Camera]: orbiting perspective projection of the scene
//   - [Smoother]: spring easing of displayed bar positions
//
// # Key Bindings
//
//	G       - Generate a new array
//	Enter   - Start the selected sort
//	C/Esc   - Cancel the running sort
//	R       - Cancel and regenerate
//	Tab/1-5 - Select algorithm
//	Arrows  - Orbit the camera
//	+/-     - Zoom
//	T       - Cycle themes
//	P       - Save an SVG snapshot
//	Q       - Quit
package viz
