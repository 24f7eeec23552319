package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
	"github.com/matzehuels/hyperstairs/pkg/render/sink"
)

// stdoutPath writes a single artifact to standard output.
const stdoutPath = "-"

// renderFlags holds the output flags shared by the drawing commands.
type renderFlags struct {
	output      string  // output file (single format) or base path
	formats     string  // comma-separated formats
	style       string  // svg style
	margin      float64 // svg margin in pixels
	strokeWidth float64 // svg stroke width in pixels
	labels      bool    // annotate svg with areas and lengths
	axisPolicy  string  // warn, reject or ignore
	layer       string  // target layer
	noCache     bool    // bypass the artifact cache
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, geojson, dxf, dot, png, pdf (comma-separated)")
	fs.StringVar(&f.style, "style", "", "svg style: "+strings.Join(sink.StyleNames(), ", "))
	fs.Float64Var(&f.margin, "margin", 0, "svg margin in pixels")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 0, "svg stroke width in pixels")
	fs.BoolVar(&f.labels, "labels", false, "label areas and lengths in svg output")
	fs.StringVar(&f.axisPolicy, "axis-policy", "", "axis-aligned rectangle input: warn (default), reject, ignore")
	fs.StringVar(&f.layer, "layer", "", "layer name for new entities")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable artifact caching")
}

// options builds pipeline options from the flags. Flags win over the config
// file, which wins over built-in defaults.
func (f *renderFlags) options(cmd *cobra.Command, cfg Config, shape string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Shape:       shape,
		Style:       f.style,
		StrokeWidth: f.strokeWidth,
		Labels:      f.labels,
		AxisPolicy:  f.axisPolicy,
		Layer:       f.layer,
	}
	if f.formats != "" {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return opts, err
		}
		opts.Formats = formats
	}
	if cmd.Flags().Changed("margin") {
		opts.Margin = pipeline.Margin(f.margin)
	}
	cfg.apply(&opts)
	if cmd.Flags().Changed("labels") {
		opts.Labels = f.labels
	}
	opts.SetDefaults()

	if f.output == stdoutPath && len(opts.Formats) > 1 {
		return opts, errors.New(errors.ErrCodeInvalidPath, "cannot write %d formats to stdout", len(opts.Formats))
	}
	return opts, nil
}

// draw runs the pipeline and writes every artifact. PNG and PDF conversion
// shells out, so a spinner is shown while it runs.
func (c *CLI) draw(ctx context.Context, f *renderFlags, opts pipeline.Options) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	var spinner *Spinner
	if slices.Contains(opts.Formats, pipeline.FormatPNG) || slices.Contains(opts.Formats, pipeline.FormatPDF) {
		spinner = newSpinnerWithContext(ctx, "Rendering...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	paths, err := writeArtifacts(f.output, opts.Name, opts.Formats, result.Artifacts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	if f.output != stdoutPath {
		printSuccess("Drew %s", opts.Name)
		printStats(result.Stats.Entities, result.CacheInfo.RenderHit())
		for _, p := range paths {
			printFile(p)
		}
	}
	return result, nil
}

// writeArtifacts writes artifacts in formats order and returns the paths
// written. With output "-" the single artifact goes to stdout.
func writeArtifacts(output, name string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if output == stdoutPath {
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	paths := outputPaths(output, name, formats)
	for i, format := range formats {
		if err := errors.ValidateOutputPath(paths[i]); err != nil {
			return nil, err
		}
		paths[i] = filepath.Clean(paths[i])
		if err := os.MkdirAll(filepath.Dir(paths[i]), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(paths[i], artifacts[format], 0o644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// outputPaths derives one file path per format. A single format with an
// explicit output path is written there as-is; otherwise the format is
// appended as an extension to the base path.
func outputPaths(output, name string, formats []string) []string {
	if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
		return []string{output}
	}
	base := basePath(output, name)
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, falling back to name
// when output is empty.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
