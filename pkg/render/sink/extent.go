package sink

import (
	cgeom "github.com/ctessum/geom"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/geom"
)

// Extent returns the XY bounding box of entities. ok is false when there
// are no points to bound.
func Extent(entities []drawing.Entity) (b *cgeom.Bounds, ok bool) {
	b = cgeom.NewBounds()
	for _, e := range entities {
		if len(e.Points) == 0 {
			continue
		}
		b.Extend(geom.LineStringXY(e.Points).Bounds())
	}
	return b, !b.Empty()
}

// planGeom returns the XY projection of e as a ctessum geometry: a Polygon
// for closed polylines and a LineString otherwise.
func planGeom(e drawing.Entity) cgeom.Geom {
	if e.Closed {
		return geom.PolygonXY(e.Points)
	}
	return geom.LineStringXY(e.Points)
}
