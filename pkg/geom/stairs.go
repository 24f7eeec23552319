package geom

import (
	"math"
)

// Flight describes a straight flight of stairs. The flight starts at Origin,
// runs Length along +Y and climbs Rise along +Z; it is Width wide along +X.
type Flight struct {
	Length float64 `json:"length"`
	Rise   float64 `json:"rise"`
	Width  float64 `json:"width"`
	Origin Point3  `json:"origin"`
}

// Stairs is the outline of a flight: both stringers, the bottom nosing line
// and the top landing line.
type Stairs struct {
	Flight Flight
	Lines  [4]Line3
}

func (f Flight) validate() error {
	for _, v := range []float64{f.Length, f.Rise, f.Width} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return degenerate("stairs", "dimensions must be finite, got L=%g H=%g W=%g", f.Length, f.Rise, f.Width)
		}
	}
	if !f.Origin.finite() {
		return degenerate("stairs", "origin must be finite, got %s", f.Origin)
	}
	switch {
	case f.Width <= 0:
		return degenerate("stairs", "width must be positive, got %g", f.Width)
	case f.Length < 0:
		return degenerate("stairs", "length cannot be negative, got %g", f.Length)
	case f.Rise < 0:
		return degenerate("stairs", "rise cannot be negative, got %g", f.Rise)
	case f.Length == 0 && f.Rise == 0:
		return degenerate("stairs", "length and rise are both zero")
	}
	return nil
}

// BuildStairs returns the outline of f as four lines, in this order:
//
//	left stringer   (0,0,0) → (0,L,H)
//	right stringer  (W,0,0) → (W,L,H)
//	bottom edge     (0,0,0) → (W,0,0)
//	top edge        (0,L,H) → (W,L,H)
//
// with every point offset by f.Origin.
func BuildStairs(f Flight) (Stairs, error) {
	if err := f.validate(); err != nil {
		return Stairs{}, err
	}

	o := f.Origin
	at := func(x, y, z float64) Point3 { return o.Add(Point3{X: x, Y: y, Z: z}) }

	bottomLeft := at(0, 0, 0)
	bottomRight := at(f.Width, 0, 0)
	topLeft := at(0, f.Length, f.Rise)
	topRight := at(f.Width, f.Length, f.Rise)

	return Stairs{
		Flight: f,
		Lines: [4]Line3{
			{Start: bottomLeft, End: topLeft},
			{Start: bottomRight, End: topRight},
			{Start: bottomLeft, End: bottomRight},
			{Start: topLeft, End: topRight},
		},
	}, nil
}

// Outline returns the corners of the flight as a ring, bottom edge first:
// bottom-left, bottom-right, top-right, top-left.
func (s Stairs) Outline() []Point3 {
	return []Point3{s.Lines[2].Start, s.Lines[2].End, s.Lines[3].End, s.Lines[3].Start}
}

// Slope is the pitch of the flight in radians.
func (s Stairs) Slope() float64 {
	return math.Atan2(s.Flight.Rise, s.Flight.Length)
}

// RunLength is the length of each stringer.
func (s Stairs) RunLength() float64 {
	return math.Hypot(s.Flight.Length, s.Flight.Rise)
}

// Steps returns the number of risers needed so that none is taller than
// maxRiser. A flat flight needs zero, any positive rise at least one. A
// count beyond math.MaxInt32 is reported as degenerate.
func (f Flight) Steps(maxRiser float64) (int, error) {
	if math.IsNaN(maxRiser) || math.IsInf(maxRiser, 0) || maxRiser <= 0 {
		return 0, degenerate("stairs", "riser height must be positive, got %g", maxRiser)
	}
	if f.Rise <= 0 {
		return 0, nil
	}
	n := f.Rise / maxRiser
	if math.IsInf(n, 0) || n >= math.MaxInt32 {
		return 0, degenerate("stairs", "rise %g needs too many %g risers", f.Rise, maxRiser)
	}
	// Absorb rounding so 3.0/0.1 does not become 31.
	steps := int(math.Ceil(n - n*1e-12))
	return max(steps, 1), nil
}
