package pipeline

import (
	"context"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/render"
	"github.com/matzehuels/hyperstairs/pkg/render/sink"
)

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:     "image/svg+xml",
	FormatJSON:    "application/json",
	FormatGeoJSON: "application/geo+json",
	FormatDXF:     "application/dxf",
	FormatDOT:     "text/vnd.graphviz",
	FormatPNG:     "image/png",
	FormatPDF:     "application/pdf",
}

// RenderSnapshot renders snap in each of formats. It does no caching.
func RenderSnapshot(ctx context.Context, snap drawing.Snapshot, formats []string, opts Options) (map[string][]byte, error) {
	style, err := sink.LookupStyle(opts.Style)
	if err != nil {
		return nil, err
	}

	// PNG and PDF are converted from the SVG, which is rendered at most once.
	var svg []byte
	svgBytes := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(snap.Entities, buildSVGOptions(style, opts)...)
		}
		return svg
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgBytes()
		case FormatJSON:
			data, err = sink.RenderJSON(snap.Entities,
				sink.WithJSONName(snap.Name),
				sink.WithJSONRevision(snap.Revision),
				sink.WithJSONHash(snap.Hash))
		case FormatGeoJSON:
			data, err = sink.RenderGeoJSON(snap.Name, snap.Entities)
		case FormatDXF:
			data = sink.RenderDXF(snap.Entities)
		case FormatDOT:
			data = []byte(sink.RenderDOT(snap.Entities))
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgBytes(), render.DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgBytes())
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(style sink.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithMargin(opts.margin()),
		sink.WithStroke(opts.StrokeWidth),
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	return svgOpts
}
