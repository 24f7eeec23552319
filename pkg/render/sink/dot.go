package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
)

// dotExtent is the longest side of a DOT preview in points.
const dotExtent = 400.0

// RenderDOT converts entities to an undirected Graphviz graph with every
// vertex pinned at its plan position. Coincident vertices share a node, so
// connected outlines read as one figure.
func RenderDOT(entities []drawing.Entity) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.06];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	b, ok := Extent(entities)
	scale := 1.0
	if ok {
		if side := max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y); side > 0 {
			scale = dotExtent / side
		}
	}

	ids := map[string]string{}
	var edges bytes.Buffer
	node := func(x, y float64) string {
		px, py := (x-b.Min.X)*scale, (y-b.Min.Y)*scale
		key := fmt.Sprintf("%.3f,%.3f", px, py)
		if id, ok := ids[key]; ok {
			return id
		}
		id := "v" + strconv.Itoa(len(ids))
		ids[key] = id
		fmt.Fprintf(&buf, "  %s [pos=\"%s!\"];\n", id, key)
		return id
	}

	for _, e := range entities {
		n := len(e.Points)
		if n < 2 {
			continue
		}
		for i := 1; i < n; i++ {
			a := node(e.Points[i-1].X, e.Points[i-1].Y)
			c := node(e.Points[i].X, e.Points[i].Y)
			fmt.Fprintf(&edges, "  %s -- %s;\n", a, c)
		}
		if e.Closed && n > 2 {
			fmt.Fprintf(&edges, "  %s -- %s;\n", node(e.Points[n-1].X, e.Points[n-1].Y), node(e.Points[0].X, e.Points[0].Y))
		}
	}

	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraphviz lays out DOT source with neato and returns SVG.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> header, which carries pt units
// and a transform-dependent viewBox, with a plain pixel one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
