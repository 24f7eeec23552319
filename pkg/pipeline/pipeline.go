// Package pipeline runs the draw → render pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Draw: build geometry from the options and append it to a
//     [drawing.Document] inside one transaction
//  2. Render: produce artifacts (SVG, JSON, GeoJSON, DXF, DOT, PNG, PDF)
//     from a snapshot of the document, caching each one under the
//     document's content hash
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Shape:   pipeline.ShapeRectangle,
//	    P1:      geom.Pt(0, 0),
//	    P2:      geom.Pt(10, 0),
//	    Width:   4,
//	    Formats: []string{"svg", "dxf"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also run separately against a long-lived document:
//
//	ids, err := runner.Draw(ctx, doc, opts)
//	artifacts, info, err := runner.Render(ctx, doc, opts)
//
// [drawing.Document]: github.com/matzehuels/hyperstairs/pkg/drawing.Document
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hyperstairs/pkg/cache"
	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
	"github.com/matzehuels/hyperstairs/pkg/render/sink"
)

// Shapes the pipeline can draw.
const (
	ShapeRectangle = "rectangle"
	ShapeStairs    = "stairs"
	ShapeLine      = "line"
)

// Axis policies decide what happens when rectangle axis points share an X
// or a Y coordinate.
const (
	AxisWarn   = "warn"   // log a warning and draw
	AxisReject = "reject" // fail with INVALID_INPUT
	AxisIgnore = "ignore" // draw silently
)

// Output formats.
const (
	FormatSVG     = "svg"
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatDXF     = "dxf"
	FormatDOT     = "dot"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
)

// Defaults shared by the CLI, the config file and the HTTP API.
const (
	DefaultStyle       = sink.StyleSimple
	DefaultAxisPolicy  = AxisWarn
	DefaultMargin      = sink.DefaultMargin
	DefaultStrokeWidth = sink.DefaultStroke
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatJSON:    true,
	FormatGeoJSON: true,
	FormatDXF:     true,
	FormatDOT:     true,
	FormatPNG:     true,
	FormatPDF:     true,
}

// ValidShapes is the set of drawable shapes.
var ValidShapes = map[string]bool{
	ShapeRectangle: true,
	ShapeStairs:    true,
	ShapeLine:      true,
}

// ValidAxisPolicies is the set of axis policies.
var ValidAxisPolicies = map[string]bool{
	AxisWarn:   true,
	AxisReject: true,
	AxisIgnore: true,
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Name is the document name; it seeds entity IDs. Defaults to Shape.
	Name  string `json:"name,omitempty"`
	Shape string `json:"shape"`

	// Rectangle: axis points, width and elevation.
	P1        geom.Point2 `json:"p1"`
	P2        geom.Point2 `json:"p2"`
	Width     float64     `json:"width,omitempty"`
	Elevation float64     `json:"elevation,omitempty"`

	// Stairs.
	Flight geom.Flight `json:"flight"`

	// Line.
	Start geom.Point3 `json:"start"`
	End   geom.Point3 `json:"end"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Margin      *float64 `json:"margin,omitempty"` // nil means DefaultMargin; 0 is a real margin
	StrokeWidth float64  `json:"stroke_width,omitempty"`
	Labels      bool     `json:"labels,omitempty"`

	AxisPolicy string `json:"axis_policy,omitempty"`
	Layer      string `json:"layer,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document  *drawing.Document
	Snapshot  drawing.Snapshot
	IDs       []uuid.UUID
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities   int
	DrawTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo reports how many artifacts came from the cache.
type CacheInfo struct {
	Hits   int
	Misses int
}

// RenderHit is true when every artifact came from the cache.
func (c CacheInfo) RenderHit() bool { return c.Hits > 0 && c.Misses == 0 }

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is registered with the SVG sink.
func ValidateStyle(style string) error {
	_, err := sink.LookupStyle(style)
	return err
}

// ValidateShape checks that a shape is drawable.
func ValidateShape(shape string) error {
	if !ValidShapes[shape] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid shape: %q (must be one of: %s)",
			shape, strings.Join(sortedKeys(ValidShapes), ", "))
	}
	return nil
}

// ValidateAxisPolicy checks an axis policy name.
func ValidateAxisPolicy(policy string) error {
	if !ValidAxisPolicies[policy] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid axis_policy: %q (must be one of: %s)",
			policy, strings.Join(sortedKeys(ValidAxisPolicies), ", "))
	}
	return nil
}

// SetDefaults fills unset render and policy options. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Name == "" {
		o.Name = o.Shape
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Margin == nil {
		o.Margin = Margin(DefaultMargin)
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = DefaultStrokeWidth
	}
	if o.AxisPolicy == "" {
		o.AxisPolicy = DefaultAxisPolicy
	}
	if o.Layer == "" {
		o.Layer = drawing.DefaultLayer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForDraw applies defaults and checks the options the draw stage
// reads. Geometry itself is checked by the builders.
func (o *Options) ValidateForDraw() error {
	o.SetDefaults()
	if err := ValidateShape(o.Shape); err != nil {
		return err
	}
	if err := ValidateAxisPolicy(o.AxisPolicy); err != nil {
		return err
	}
	return errors.ValidateLayer(o.Layer)
}

// ValidateForRender applies defaults and checks the options the render
// stage reads.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.margin() < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin cannot be negative, got %g", o.margin())
	}
	return errors.ValidatePositive("stroke_width", o.StrokeWidth)
}

// Validate checks everything Execute needs.
func (o *Options) Validate() error {
	if err := o.ValidateForDraw(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// Margin returns a pointer to px for [Options.Margin].
func Margin(px float64) *float64 { return &px }

func (o *Options) margin() float64 {
	if o.Margin == nil {
		return DefaultMargin
	}
	return *o.Margin
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Style = o.Style
		k.Margin = o.margin()
		k.StrokeWidth = o.StrokeWidth
		k.Labels = o.Labels
	}
	return k
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
