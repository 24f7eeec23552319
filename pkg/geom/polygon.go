package geom

import (
	cgeom "github.com/ctessum/geom"
)

// Polygon converts the rectangle to a closed single-ring polygon for spatial
// queries and GeoJSON encoding.
func (r Rectangle) Polygon() cgeom.Polygon {
	return cgeom.Polygon{ring(r.Ring())}
}

// Area returns the enclosed area. For a rectangle built by BuildRectangle it
// equals Leg()*Width() up to rounding.
func (r Rectangle) Area() float64 {
	return r.Polygon().Area()
}

// Contains reports whether p lies inside the rectangle or on its boundary.
func (r Rectangle) Contains(p Point2) bool {
	return cgeom.Point{X: p.X, Y: p.Y}.Within(r.Polygon()) != cgeom.Outside
}

// PolygonXY projects a ring of 3-D points onto the XY plane. The ring is
// closed if it is not already.
func PolygonXY(pts []Point3) cgeom.Polygon {
	flat := make([]Point2, 0, len(pts)+1)
	for _, p := range pts {
		flat = append(flat, p.Flat())
	}
	if len(flat) > 0 && flat[0] != flat[len(flat)-1] {
		flat = append(flat, flat[0])
	}
	return cgeom.Polygon{ring(flat)}
}

// LineStringXY projects an open path of 3-D points onto the XY plane.
func LineStringXY(pts []Point3) cgeom.LineString {
	out := make(cgeom.LineString, len(pts))
	for i, p := range pts {
		out[i] = cgeom.Point{X: p.X, Y: p.Y}
	}
	return out
}

func ring(pts []Point2) []cgeom.Point {
	out := make([]cgeom.Point, len(pts))
	for i, p := range pts {
		out[i] = cgeom.Point{X: p.X, Y: p.Y}
	}
	return out
}
