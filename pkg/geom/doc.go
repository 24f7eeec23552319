// Package geom builds the planar and spatial primitives HyperStairs draws:
// rectangles constructed from two side midpoints and a width, straight
// lines, and the outline of a stair flight.
//
// # Rectangles
//
// [BuildRectangle] takes the midpoint p1 of one side, the midpoint p2 of the
// opposite side and the perpendicular width. The result is four ordered
// corners forming a closed polygon:
//
//	c4 ───────────── c3
//	│                 │
//	p1 ──── axis ──▶ p2     width
//	│                 │
//	c1 ───────────── c2
//
// Sides c1–c2 and c4–c3 run along the axis and have the axis length (the
// leg). Sides c1–c4 and c2–c3 have the given width and are centered on p1 and
// p2 respectively.
//
// # Stairs
//
// [BuildStairs] produces the four lines outlining a straight flight of
// stairs of a given horizontal length, rise and width. The flight runs along
// +Y and climbs along +Z.
//
// # Errors
//
// Every builder rejects inputs it cannot turn into a well-formed shape with a
// [*DegenerateInputError]. The error carries the errors.ErrCodeDegenerateInput
// code so callers can test for it either with errors.As or with the code helpers
// in pkg/errors.
//
// All functions are pure: they allocate and return values and are safe to call
// from any number of goroutines.
package geom
