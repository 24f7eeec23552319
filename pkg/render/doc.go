// Package render converts rendered drawings between output formats.
//
// Vector output is produced by the [sink] subpackage. The [ToPDF] and
// [ToPNG] functions convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := sink.RenderSVG(doc.Entities(), sink.WithStyle(sink.Blueprint{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [sink]: github.com/matzehuels/hyperstairs/pkg/render/sink
package render
