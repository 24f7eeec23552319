package sink

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
)

// Style defines the visual appearance of SVG output.
type Style interface {
	// Name is the identifier used on the command line and in config.
	Name() string
	// RenderDefs writes the background and any <defs> content.
	RenderDefs(buf *bytes.Buffer, w, h float64)
	// RenderShape writes one projected entity.
	RenderShape(buf *bytes.Buffer, s Shape)
	// RenderLabel writes one dimension label.
	RenderLabel(buf *bytes.Buffer, l Label)
}

// Vec is a point in SVG canvas coordinates.
type Vec struct{ X, Y float64 }

// Shape is an entity projected onto the canvas.
type Shape struct {
	ID     string
	Kind   drawing.Kind
	Layer  string
	Closed bool
	Points []Vec
	Stroke float64
}

// Label is a dimension annotation in canvas coordinates.
type Label struct {
	X, Y float64
	Text string
}

// Style names.
const (
	StyleSimple    = "simple"
	StyleBlueprint = "blueprint"
)

var styles = map[string]Style{
	StyleSimple:    Simple{},
	StyleBlueprint: Blueprint{},
}

// LookupStyle returns the style registered under name.
func LookupStyle(name string) (Style, error) {
	s, ok := styles[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle,
			"unknown style %q (valid: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

// StyleNames lists registered style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Simple draws black outlines on a transparent background.
type Simple struct{}

func (Simple) Name() string { return StyleSimple }

func (Simple) RenderDefs(buf *bytes.Buffer, w, h float64) {}

func (Simple) RenderShape(buf *bytes.Buffer, s Shape) {
	writeShape(buf, s, "#222", "none")
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	writeLabel(buf, l, "#555")
}

// Blueprint draws white outlines over a blue grid.
type Blueprint struct{}

func (Blueprint) Name() string { return StyleBlueprint }

func (Blueprint) RenderDefs(buf *bytes.Buffer, w, h float64) {
	buf.WriteString(`  <defs>
    <pattern id="grid" width="20" height="20" patternUnits="userSpaceOnUse">
      <path d="M 20 0 L 0 0 0 20" fill="none" stroke="#3a6ea5" stroke-width="0.5"/>
    </pattern>
  </defs>
`)
	fmt.Fprintf(buf, `  <rect width="%.2f" height="%.2f" fill="#1e4d8c"/>`+"\n", w, h)
	fmt.Fprintf(buf, `  <rect width="%.2f" height="%.2f" fill="url(#grid)"/>`+"\n", w, h)
}

func (Blueprint) RenderShape(buf *bytes.Buffer, s Shape) {
	writeShape(buf, s, "#ffffff", "rgba(255,255,255,0.08)")
}

func (Blueprint) RenderLabel(buf *bytes.Buffer, l Label) {
	writeLabel(buf, l, "#cfe3ff")
}

func writeShape(buf *bytes.Buffer, s Shape, stroke, fill string) {
	attrs := fmt.Sprintf(`id="entity-%s" class="entity" data-layer="%s" stroke="%s" stroke-width="%.2f" stroke-linejoin="round"`,
		s.ID, escapeAttr(s.Layer), stroke, s.Stroke)

	switch {
	case s.Kind == drawing.KindLine && len(s.Points) == 2:
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s/>`+"\n",
			s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y, attrs)
	case s.Closed:
		fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" %s/>`+"\n", pointList(s.Points), fill, attrs)
	default:
		fmt.Fprintf(buf, `  <polyline points="%s" fill="none" %s/>`+"\n", pointList(s.Points), attrs)
	}
}

func writeLabel(buf *bytes.Buffer, l Label, color string) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" fill="%s" font-family="monospace" font-size="12" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		l.X, l.Y, color, escapeAttr(l.Text))
}

func pointList(pts []Vec) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
