package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the absolute tolerance used by Near and by callers comparing
// computed coordinates.
const Tolerance = 1e-9

// Point2 is a point on the drawing plane.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point2{X: x, Y: y}.
func Pt(x, y float64) Point2 { return Point2{X: x, Y: y} }

// Add returns p+q.
func (p Point2) Add(q Point2) Point2 { return Point2{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point2) Sub(q Point2) Point2 { return Point2{X: p.X - q.X, Y: p.Y - q.Y} }

// Mul scales p by s.
func (p Point2) Mul(s float64) Point2 { return Point2{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product of p and q as vectors.
func (p Point2) Dot(q Point2) float64 { return p.X*q.X + p.Y*q.Y }

// Length returns the length of p as a vector.
func (p Point2) Length() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point2) Distance(q Point2) float64 { return p.Sub(q).Length() }

// Midpoint returns the point halfway between p and q.
func (p Point2) Midpoint(q Point2) Point2 {
	return Point2{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// AngleTo returns the direction from p to q in radians, in (-π, π].
func (p Point2) AngleTo(q Point2) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Near reports whether p and q coincide within Tolerance on both axes.
func (p Point2) Near(q Point2) bool {
	return scalar.EqualWithinAbs(p.X, q.X, Tolerance) && scalar.EqualWithinAbs(p.Y, q.Y, Tolerance)
}

// Lift places p at height z.
func (p Point2) Lift(z float64) Point3 { return Point3{X: p.X, Y: p.Y, Z: z} }

func (p Point2) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// String formats p as "(x, y)".
func (p Point2) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Polar returns the point at distance d from base in direction theta (radians).
func Polar(base Point2, theta, d float64) Point2 {
	return Point2{
		X: base.X + d*math.Cos(theta),
		Y: base.Y + d*math.Sin(theta),
	}
}

// Point3 is a point in drawing space.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p+q.
func (p Point3) Add(q Point3) Point3 { return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z} }

// Distance returns the Euclidean distance between p and q.
func (p Point3) Distance(q Point3) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Flat drops the Z coordinate.
func (p Point3) Flat() Point2 { return Point2{X: p.X, Y: p.Y} }

func (p Point3) finite() bool {
	return p.Flat().finite() && !math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// String formats p as "(x, y, z)".
func (p Point3) String() string { return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z) }
