package sink

import (
	"bytes"
	"slices"
	"strconv"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/geom"
)

// DXF polyline flags (group code 70).
const (
	dxfClosed     = 1
	dxf3DPolyline = 8
	dxf3DVertex   = 32
)

// dxfWriter emits group-code/value pairs.
type dxfWriter struct{ buf bytes.Buffer }

func (w *dxfWriter) pair(code int, value string) {
	w.buf.WriteString(strconv.Itoa(code))
	w.buf.WriteByte('\n')
	w.buf.WriteString(value)
	w.buf.WriteByte('\n')
}

func (w *dxfWriter) integer(code, v int) { w.pair(code, strconv.Itoa(v)) }

func (w *dxfWriter) number(code int, v float64) {
	w.pair(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (w *dxfWriter) point(base int, p geom.Point3) {
	w.number(base, p.X)
	w.number(base+10, p.Y)
	w.number(base+20, p.Z)
}

// RenderDXF writes entities as an ASCII DXF R12 file. Lines become LINE
// entities and polylines become 3-D POLYLINE/VERTEX/SEQEND sequences, so
// elevations survive the export.
func RenderDXF(entities []drawing.Entity) []byte {
	var w dxfWriter

	w.pair(0, "SECTION")
	w.pair(2, "HEADER")
	w.pair(9, "$ACADVER")
	w.pair(1, "AC1009")
	w.pair(0, "ENDSEC")

	layers := layerNames(entities)
	w.pair(0, "SECTION")
	w.pair(2, "TABLES")
	w.pair(0, "TABLE")
	w.pair(2, "LAYER")
	w.integer(70, len(layers))
	for _, name := range layers {
		w.pair(0, "LAYER")
		w.pair(2, name)
		w.integer(70, 0)
		w.integer(62, 7)
		w.pair(6, "CONTINUOUS")
	}
	w.pair(0, "ENDTAB")
	w.pair(0, "ENDSEC")

	w.pair(0, "SECTION")
	w.pair(2, "ENTITIES")
	for _, e := range entities {
		switch {
		case e.Kind == drawing.KindLine && len(e.Points) == 2:
			w.pair(0, "LINE")
			w.pair(8, e.Layer)
			w.point(10, e.Points[0])
			w.point(11, e.Points[1])
		case len(e.Points) >= 2:
			flags := dxf3DPolyline
			if e.Closed {
				flags |= dxfClosed
			}
			w.pair(0, "POLYLINE")
			w.pair(8, e.Layer)
			w.integer(66, 1)
			w.point(10, geom.Point3{})
			w.integer(70, flags)
			for _, p := range e.Points {
				w.pair(0, "VERTEX")
				w.pair(8, e.Layer)
				w.point(10, p)
				w.integer(70, dxf3DVertex)
			}
			w.pair(0, "SEQEND")
			w.pair(8, e.Layer)
		}
	}
	w.pair(0, "ENDSEC")
	w.pair(0, "EOF")
	return w.buf.Bytes()
}

// layerNames returns the distinct layers in use, always including the
// default layer.
func layerNames(entities []drawing.Entity) []string {
	names := []string{drawing.DefaultLayer}
	for _, e := range entities {
		if !slices.Contains(names, e.Layer) {
			names = append(names, e.Layer)
		}
	}
	slices.Sort(names)
	return names
}
