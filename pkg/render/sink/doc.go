// Package sink renders drawing entities to output formats.
//
// # Overview
//
// Every sink takes a snapshot of committed entities (see
// [drawing.Document.Entities]) and produces bytes:
//
//   - [RenderSVG]: plan view (XY projection) with pluggable [Style]
//   - [RenderJSON]: entities with bounds and document metadata
//   - [RenderGeoJSON]: FeatureCollection of the plan view
//   - [RenderDXF]: ASCII DXF (R12) with full 3-D coordinates
//   - [RenderDOT] and [RenderGraphviz]: pinned-position Graphviz preview
//
// PNG and PDF are produced from the SVG via [render.ToPNG] and
// [render.ToPDF].
//
// # Coordinates
//
// Drawing space is right-handed with +Y up. SVG and Graphviz output flip the
// Y axis so the picture reads the same way it would in a CAD viewer. JSON,
// GeoJSON and DXF keep drawing coordinates unchanged.
//
// [drawing.Document.Entities]: github.com/matzehuels/hyperstairs/pkg/drawing.Document.Entities
// [render.ToPNG]: github.com/matzehuels/hyperstairs/pkg/render.ToPNG
// [render.ToPDF]: github.com/matzehuels/hyperstairs/pkg/render.ToPDF
package sink
