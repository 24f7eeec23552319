package sink

import (
	"bytes"
	"fmt"
	"math"

	cgeom "github.com/ctessum/geom"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
)

// SVG defaults.
const (
	DefaultCanvas = 800.0 // longest drawing side in pixels
	DefaultMargin = 20.0
	DefaultStroke = 2.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  Style
	canvas float64
	margin float64
	stroke float64
	labels bool
}

// WithStyle sets the style that draws shapes and labels. See [LookupStyle].
func WithStyle(s Style) SVGOption {
	return func(r *svgRenderer) {
		if s != nil {
			r.style = s
		}
	}
}

// WithLabels annotates each closed entity with its plan area and each open
// one with its length.
func WithLabels() SVGOption {
	return func(r *svgRenderer) {
		r.labels = true
	}
}

// WithMargin sets the blank border around the drawing in pixels.
func WithMargin(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px >= 0 {
			r.margin = px
		}
	}
}

// WithStroke sets the outline width in pixels.
func WithStroke(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.stroke = px
		}
	}
}

// WithCanvas sets the pixel length of the drawing's longest side.
func WithCanvas(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.canvas = px
		}
	}
}

// RenderSVG draws the plan view of entities. An empty entity list renders
// an empty canvas.
func RenderSVG(entities []drawing.Entity, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	p := newProjection(entities, r.canvas, r.margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		p.width, p.height, p.width, p.height)

	r.style.RenderDefs(&buf, p.width, p.height)
	for _, e := range entities {
		if len(e.Points) == 0 {
			continue
		}
		r.style.RenderShape(&buf, p.shape(e, r.stroke))
	}
	if r.labels {
		for _, e := range entities {
			if l, ok := p.label(e); ok {
				r.style.RenderLabel(&buf, l)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		style:  Simple{},
		canvas: DefaultCanvas,
		margin: DefaultMargin,
		stroke: DefaultStroke,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// projection maps drawing XY onto the canvas with +Y flipped to point down.
type projection struct {
	minX, maxY    float64
	scale, margin float64
	width, height float64
}

func newProjection(entities []drawing.Entity, canvas, margin float64) projection {
	b, ok := Extent(entities)
	if !ok {
		return projection{scale: 1, margin: margin, width: 2 * margin, height: 2 * margin}
	}
	w, h := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
	scale := 1.0
	if side := math.Max(w, h); side > 0 {
		scale = canvas / side
	}
	return projection{
		minX:   b.Min.X,
		maxY:   b.Max.Y,
		scale:  scale,
		margin: margin,
		width:  w*scale + 2*margin,
		height: h*scale + 2*margin,
	}
}

func (p projection) vec(x, y float64) Vec {
	return Vec{
		X: (x-p.minX)*p.scale + p.margin,
		Y: (p.maxY-y)*p.scale + p.margin,
	}
}

func (p projection) shape(e drawing.Entity, stroke float64) Shape {
	pts := make([]Vec, len(e.Points))
	for i, pt := range e.Points {
		pts[i] = p.vec(pt.X, pt.Y)
	}
	return Shape{
		ID:     e.ID.String(),
		Kind:   e.Kind,
		Layer:  e.Layer,
		Closed: e.Closed,
		Points: pts,
		Stroke: stroke,
	}
}

// label annotates lines with their 3-D length and closed outlines with
// their plan area.
func (p projection) label(e drawing.Entity) (Label, bool) {
	if len(e.Points) < 2 {
		return Label{}, false
	}
	if e.Closed {
		poly := planGeom(e).(cgeom.Polygon)
		area := poly.Area()
		if area == 0 {
			return Label{}, false
		}
		c := poly.Centroid()
		v := p.vec(c.X, c.Y)
		return Label{X: v.X, Y: v.Y, Text: fmt.Sprintf("A=%.2f", area)}, true
	}

	var length float64
	for i := 1; i < len(e.Points); i++ {
		length += e.Points[i-1].Distance(e.Points[i])
	}
	a, b := e.Points[0], e.Points[len(e.Points)-1]
	v := p.vec((a.X+b.X)/2, (a.Y+b.Y)/2)
	return Label{X: v.X, Y: v.Y, Text: fmt.Sprintf("%.2f", length)}, true
}
