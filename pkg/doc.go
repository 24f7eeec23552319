// Package pkg holds the hyperstairs libraries.
//
// # Overview
//
// Hyperstairs builds simple CAD geometry (rectangles from two side
// midpoints and a width, straight stair flights, 3-D lines) and exports it
// in drawing and preview formats. The pkg directory is organized as:
//
//  1. [geom] - Points, rectangles, stair flights and their builders
//  2. [drawing] - Documents of entities with atomic transactions
//  3. [render/sink] - SVG, JSON, GeoJSON, DXF and DOT writers
//  4. [render] - PNG and PDF conversion of SVG output
//  5. [cache] - Artifact caching (file, Redis, none)
//  6. [pipeline] - Orchestration (draw → render, cached)
//  7. [errors] and [observability] - Structured errors and event hooks
//
// # Architecture
//
//	axis points + width / flight dimensions
//	         ↓
//	    [geom] builders (validate, compute corners/lines)
//	         ↓
//	    [drawing] transaction (commit or roll back as a unit)
//	         ↓
//	    [render/sink] writers, cached by document hash
//	         ↓
//	    SVG/JSON/GeoJSON/DXF/DOT/PNG/PDF output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Shape: pipeline.ShapeRectangle,
//	    P1:    geom.Pt(0, 0),
//	    P2:    geom.Pt(10, 0),
//	    Width: 4,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("rect.svg", result.Artifacts["svg"], 0o644)
//
// [geom]: github.com/matzehuels/hyperstairs/pkg/geom
// [drawing]: github.com/matzehuels/hyperstairs/pkg/drawing
// [render/sink]: github.com/matzehuels/hyperstairs/pkg/render/sink
// [render]: github.com/matzehuels/hyperstairs/pkg/render
// [cache]: github.com/matzehuels/hyperstairs/pkg/cache
// [pipeline]: github.com/matzehuels/hyperstairs/pkg/pipeline
// [errors]: github.com/matzehuels/hyperstairs/pkg/errors
// [observability]: github.com/matzehuels/hyperstairs/pkg/observability
package pkg
