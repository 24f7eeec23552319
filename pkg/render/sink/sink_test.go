package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
)

// rectEntities draws the 10x4 rectangle from (0,0)-(10,0).
func rectEntities(t *testing.T) []drawing.Entity {
	t.Helper()
	r, err := geom.BuildRectangle(geom.Pt(0, 0), geom.Pt(10, 0), 4)
	if err != nil {
		t.Fatalf("BuildRectangle: %v", err)
	}
	doc := drawing.New("rect")
	err = doc.Update(context.Background(), func(tx *drawing.Tx) error {
		_, err := tx.AppendRectangle(r, 0)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	return doc.Entities()
}

// stairsEntities draws a 1 wide flight running 10 and climbing 5.
func stairsEntities(t *testing.T) []drawing.Entity {
	t.Helper()
	s, err := geom.BuildStairs(geom.Flight{Length: 10, Rise: 5, Width: 1})
	if err != nil {
		t.Fatalf("BuildStairs: %v", err)
	}
	doc := drawing.New("stairs")
	err = doc.Update(context.Background(), func(tx *drawing.Tx) error {
		if err := tx.SetLayer("stairs"); err != nil {
			return err
		}
		_, err := tx.AppendStairs(s)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	return doc.Entities()
}

func TestRenderSVG_Rectangle(t *testing.T) {
	svg := string(RenderSVG(rectEntities(t)))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output does not start with <svg: %.40s", svg)
	}
	// 10 units scaled to 800px plus a 20px margin either side.
	if !strings.Contains(svg, `viewBox="0 0 840.00 360.00"`) {
		t.Errorf("unexpected viewBox in %s", svg)
	}
	if strings.Count(svg, "<polygon") != 1 {
		t.Errorf("want one polygon, got %s", svg)
	}
	// +Y is up: corner (0,2) maps to the top-left margin.
	if !strings.Contains(svg, "20.00,20.00") || !strings.Contains(svg, "20.00,340.00") {
		t.Errorf("corners not projected with flipped Y: %s", svg)
	}
	if strings.Contains(svg, "<text") {
		t.Error("labels rendered without WithLabels")
	}
}

func TestRenderSVG_Options(t *testing.T) {
	ents := rectEntities(t)

	svg := string(RenderSVG(ents, WithMargin(0), WithCanvas(100), WithStroke(3), WithLabels(), WithStyle(Blueprint{})))
	if !strings.Contains(svg, `viewBox="0 0 100.00 40.00"`) {
		t.Errorf("canvas/margin not applied: %.120s", svg)
	}
	if !strings.Contains(svg, `stroke-width="3.00"`) {
		t.Error("stroke width not applied")
	}
	if !strings.Contains(svg, "url(#grid)") {
		t.Error("blueprint background missing")
	}
	if !strings.Contains(svg, "A=40.00") {
		t.Errorf("area label missing: %s", svg)
	}
}

func TestRenderSVG_NilStyle(t *testing.T) {
	svg := string(RenderSVG(rectEntities(t), WithStyle(nil)))
	if strings.Contains(svg, "url(#grid)") || strings.Count(svg, "<polygon") != 1 {
		t.Errorf("nil style should fall back to simple: %s", svg)
	}
}

func TestRenderSVG_Lines(t *testing.T) {
	svg := string(RenderSVG(stairsEntities(t), WithLabels()))

	if got := strings.Count(svg, "<line "); got != 4 {
		t.Errorf("want 4 <line> elements, got %d", got)
	}
	if !strings.Contains(svg, `data-layer="stairs"`) {
		t.Error("layer attribute missing")
	}
	// Stringer length is sqrt(10^2 + 5^2).
	if !strings.Contains(svg, ">11.18<") {
		t.Errorf("stringer length label missing: %s", svg)
	}
}

func TestRenderSVG_Empty(t *testing.T) {
	svg := string(RenderSVG(nil))
	if !strings.Contains(svg, `viewBox="0 0 40.00 40.00"`) {
		t.Errorf("empty drawing should render a margin-only canvas: %s", svg)
	}
}

func TestLookupStyle(t *testing.T) {
	for _, name := range StyleNames() {
		s, err := LookupStyle(name)
		if err != nil {
			t.Fatalf("LookupStyle(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("style %q reports name %q", name, s.Name())
		}
	}
	_, err := LookupStyle("handdrawn")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("unknown style error = %v, want INVALID_STYLE", err)
	}
}

func TestRenderJSON(t *testing.T) {
	ents := rectEntities(t)
	data, err := RenderJSON(ents, WithJSONName("rect"), WithJSONRevision(1), WithJSONHash("abc"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Name != "rect" || out.Revision != 1 || out.Hash != "abc" {
		t.Errorf("metadata = %+v", out)
	}
	if len(out.Entities) != 1 || out.Entities[0].ID != ents[0].ID {
		t.Fatalf("entities = %+v", out.Entities)
	}
	if out.Bounds == nil || out.Bounds.MaxX < 9.99 || out.Bounds.MaxY < 1.99 {
		t.Errorf("bounds = %+v", out.Bounds)
	}
}

func TestRenderJSON_Empty(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"entities": []`) {
		t.Errorf("empty entities should encode as []: %s", data)
	}
	if strings.Contains(string(data), "bounds") {
		t.Error("empty drawing should have no bounds")
	}
}

func TestRenderGeoJSON(t *testing.T) {
	tests := []struct {
		name     string
		ents     []drawing.Entity
		wantType string
		wantN    int
		wantMaxZ float64
	}{
		{"rectangle", rectEntities(t), "Polygon", 1, 0},
		{"stairs", stairsEntities(t), "LineString", 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderGeoJSON(tt.name, tt.ents)
			if err != nil {
				t.Fatalf("RenderGeoJSON: %v", err)
			}
			var fc struct {
				Type     string `json:"type"`
				Features []struct {
					Geometry struct {
						Type string `json:"type"`
					} `json:"geometry"`
					Properties featureProps `json:"properties"`
				} `json:"features"`
			}
			if err := json.Unmarshal(data, &fc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if fc.Type != "FeatureCollection" {
				t.Errorf("type = %q", fc.Type)
			}
			if len(fc.Features) != tt.wantN {
				t.Fatalf("features = %d, want %d", len(fc.Features), tt.wantN)
			}
			var maxZ float64
			for _, f := range fc.Features {
				if f.Geometry.Type != tt.wantType {
					t.Errorf("geometry type = %q, want %q", f.Geometry.Type, tt.wantType)
				}
				maxZ = max(maxZ, f.Properties.MaxZ)
			}
			if maxZ != tt.wantMaxZ {
				t.Errorf("max z = %g, want %g", maxZ, tt.wantMaxZ)
			}
		})
	}
}

func TestRenderDXF(t *testing.T) {
	rect := string(RenderDXF(rectEntities(t)))
	if !strings.Contains(rect, "$ACADVER\n1\nAC1009\n") {
		t.Error("missing R12 version header")
	}
	if strings.Count(rect, "\nPOLYLINE\n") != 1 || strings.Count(rect, "\nVERTEX\n") != 4 {
		t.Errorf("rectangle should be one 4-vertex polyline:\n%s", rect)
	}
	// closed | 3-D polyline
	if !strings.Contains(rect, "70\n9\n") {
		t.Error("closed 3-D polyline flag missing")
	}
	if !strings.HasSuffix(rect, "0\nENDSEC\n0\nEOF\n") {
		t.Error("file not terminated with EOF")
	}

	stairs := string(RenderDXF(stairsEntities(t)))
	if got := strings.Count(stairs, "\nLINE\n"); got != 4 {
		t.Errorf("LINE entities = %d, want 4", got)
	}
	if !strings.Contains(stairs, "8\nstairs\n") {
		t.Error("entity layer missing")
	}
	if !strings.Contains(stairs, "31\n5\n") {
		t.Error("stringer end elevation missing")
	}
}

func TestLayerNames(t *testing.T) {
	ents := []drawing.Entity{{Layer: "b"}, {Layer: "a"}, {Layer: "b"}}
	got := strings.Join(layerNames(ents), ",")
	if got != "0,a,b" {
		t.Errorf("layerNames = %s", got)
	}
}

func TestRenderDOT(t *testing.T) {
	tests := []struct {
		name      string
		ents      []drawing.Entity
		wantNodes int
		wantEdges int
	}{
		{"rectangle", rectEntities(t), 4, 4},
		{"stairs", stairsEntities(t), 4, 4},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := RenderDOT(tt.ents)
			if !strings.HasPrefix(dot, "graph G {") {
				t.Errorf("missing graph declaration: %s", dot)
			}
			if got := strings.Count(dot, "[pos="); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := strings.Count(dot, " -- "); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
		})
	}
}

func TestRenderGraphviz(t *testing.T) {
	svg, err := RenderGraphviz(context.Background(), RenderDOT(rectEntities(t)))
	if err != nil {
		t.Fatalf("RenderGraphviz: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("header not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="5pt" viewBox="0.00 0.00 10.00 5.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 5.00" width="10" height="5"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg>"))) != "<svg>" {
		t.Error("input without viewBox should pass through")
	}
}
