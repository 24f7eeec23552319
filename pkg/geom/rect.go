package geom

import "math"

// Rectangle is four ordered corners forming a closed polygon. The edge from
// the last corner back to the first closes it; the order defines the winding
// used by renderers.
type Rectangle [4]Point2

// BuildRectangle constructs the rectangle whose side midpoints are p1 and p2
// and whose perpendicular extent is width.
//
// The sides c1–c2 and c4–c3 are parallel to the p1→p2 axis and have its
// length. The sides c1–c4 and c2–c3 have length width and are centered on p1
// and p2. The corners are returned as [c1, c2, c3, c4], with c1 on the right
// of the axis when looking from p1 towards p2.
//
// BuildRectangle returns a *DegenerateInputError when p1 and p2 coincide
// (the axis has no direction), when width is not positive, or when any input
// is NaN or infinite.
//
// Inputs that share an X or Y coordinate are accepted; see [AxisAligned].
func BuildRectangle(p1, p2 Point2, width float64) (Rectangle, error) {
	if !p1.finite() || !p2.finite() {
		return Rectangle{}, degenerate("rectangle", "axis points must be finite, got %s and %s", p1, p2)
	}
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return Rectangle{}, degenerate("rectangle", "width must be positive, got %g", width)
	}
	leg := p1.Distance(p2)
	if leg == 0 {
		return Rectangle{}, degenerate("rectangle", "axis points coincide at %s", p1)
	}
	if math.IsInf(leg, 0) {
		return Rectangle{}, degenerate("rectangle", "axis length overflows between %s and %s", p1, p2)
	}

	angle := p1.AngleTo(p2)
	half := width / 2

	c1 := Polar(p1, angle-math.Pi/2, half)
	c4 := Polar(p1, angle+math.Pi/2, half)
	c2 := Polar(c1, angle, leg)
	c3 := Polar(c4, angle, leg)

	r := Rectangle{c1, c2, c3, c4}
	for _, c := range r {
		if !c.finite() {
			return Rectangle{}, degenerate("rectangle", "corner %s is out of range", c)
		}
	}
	return r, nil
}

// AxisAligned reports whether p1 and p2 share an X or a Y coordinate. The
// rectangle built from such points is still valid; interactive front ends use
// this to warn the user that the axis is probably mis-picked.
func AxisAligned(p1, p2 Point2) bool {
	return p1.X == p2.X || p1.Y == p2.Y
}

// Corners returns the corners as a slice in construction order.
func (r Rectangle) Corners() []Point2 {
	out := make([]Point2, len(r))
	copy(out, r[:])
	return out
}

// Ring returns the corners followed by the first corner again.
func (r Rectangle) Ring() []Point2 {
	return append(r.Corners(), r[0])
}

// Leg is the length of the sides parallel to the construction axis.
func (r Rectangle) Leg() float64 { return r[0].Distance(r[1]) }

// Width is the length of the sides perpendicular to the construction axis.
func (r Rectangle) Width() float64 { return r[0].Distance(r[3]) }

// Angle is the direction of the construction axis in radians.
func (r Rectangle) Angle() float64 { return r[0].AngleTo(r[1]) }

// Center returns the intersection of the diagonals.
func (r Rectangle) Center() Point2 { return r[0].Midpoint(r[2]) }

// Axis returns the two side midpoints the rectangle was built from.
func (r Rectangle) Axis() (p1, p2 Point2) {
	return r[0].Midpoint(r[3]), r[1].Midpoint(r[2])
}

// Bounds returns the axis-aligned bounding box of the rectangle.
func (r Rectangle) Bounds() (min, max Point2) {
	min = Point2{X: math.Inf(1), Y: math.Inf(1)}
	max = Point2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range r {
		min.X, min.Y = math.Min(min.X, c.X), math.Min(min.Y, c.Y)
		max.X, max.Y = math.Max(max.X, c.X), math.Max(max.Y, c.Y)
	}
	return min, max
}

// Lift places every corner at height z.
func (r Rectangle) Lift(z float64) []Point3 {
	out := make([]Point3, len(r))
	for i, c := range r {
		out[i] = c.Lift(z)
	}
	return out
}
