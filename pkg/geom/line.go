package geom

// Line3 is a straight segment in drawing space.
type Line3 struct {
	Start Point3 `json:"start"`
	End   Point3 `json:"end"`
}

// NewLine returns the segment from start to end. Zero-length and non-finite
// segments are rejected with a *DegenerateInputError.
func NewLine(start, end Point3) (Line3, error) {
	if !start.finite() || !end.finite() {
		return Line3{}, degenerate("line", "endpoints must be finite, got %s and %s", start, end)
	}
	if start == end {
		return Line3{}, degenerate("line", "endpoints coincide at %s", start)
	}
	return Line3{Start: start, End: end}, nil
}

// Length returns the distance between the endpoints.
func (l Line3) Length() float64 { return l.Start.Distance(l.End) }

// Points returns the endpoints in order.
func (l Line3) Points() []Point3 { return []Point3{l.Start, l.End} }
