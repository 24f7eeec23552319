package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
)

// rectOpts holds the geometry flags of the rect command.
type rectOpts struct {
	p1, p2      string
	width       float64
	elevation   float64
	interactive bool
}

// rectCommand creates the rect command, which draws a rectangle from the
// midpoints of two opposite sides and the rectangle's width.
func (c *CLI) rectCommand() *cobra.Command {
	var opts rectOpts
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "rect",
		Short: "Draw a rectangle from two side midpoints and a width",
		Long: `Draw a rectangle whose axis runs from --p1 to --p2. Both points are the
midpoints of opposite sides; --width is the length of those sides.`,
		Example: `  hyperstairs rect --p1 0,0 --p2 10,0 --width 4
  hyperstairs rect --p1 0,0 --p2 3,4 --width 2 -f svg,dxf -o out/plate
  hyperstairs rect --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.interactive {
				if err := promptRect(ctx, &opts); err != nil {
					return err
				}
			} else if opts.p1 == "" || opts.p2 == "" || !cmd.Flags().Changed("width") {
				return errors.New(errors.ErrCodeInvalidInput, "--p1, --p2 and --width are required (or use --interactive)")
			}

			popts, err := flags.options(cmd, c.config, pipeline.ShapeRectangle)
			if err != nil {
				return err
			}
			if err := opts.apply(&popts); err != nil {
				return err
			}
			return c.runRect(ctx, &flags, popts)
		},
	}

	cmd.Flags().StringVar(&opts.p1, "p1", "", "first axis point x,y")
	cmd.Flags().StringVar(&opts.p2, "p2", "", "second axis point x,y")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "rectangle width across the axis")
	cmd.Flags().Float64Var(&opts.elevation, "elevation", 0, "z coordinate of the outline")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for points and width")
	flags.register(cmd)

	return cmd
}

func (o rectOpts) apply(opts *pipeline.Options) error {
	p1, err := pipeline.ParsePoint2(o.p1)
	if err != nil {
		return err
	}
	p2, err := pipeline.ParsePoint2(o.p2)
	if err != nil {
		return err
	}
	if err := errors.ValidateFinite("elevation", o.elevation); err != nil {
		return err
	}
	opts.P1, opts.P2 = p1, p2
	opts.Width = o.width
	opts.Elevation = o.elevation
	return nil
}

func (c *CLI) runRect(ctx context.Context, flags *renderFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Drawing rectangle %s → %s, width %g", opts.P1, opts.P2, opts.Width)

	result, err := c.draw(ctx, flags, opts)
	if err != nil {
		return err
	}
	if flags.output == stdoutPath {
		return nil
	}

	r, err := geom.BuildRectangle(opts.P1, opts.P2, opts.Width)
	if err != nil {
		return err
	}
	fmt.Println(pointTable([]string{"c1", "c2", "c3", "c4"}, r.Lift(opts.Elevation)))
	printKeyValue("Area", formatCoord(r.Area()))
	printKeyValue("ID", result.IDs[0].String())
	if geom.AxisAligned(opts.P1, opts.P2) && opts.AxisPolicy == pipeline.AxisWarn {
		printWarning("Axis points share a coordinate; the rectangle is axis-aligned")
	}
	return nil
}

// promptRect fills opts from an interactive form.
func promptRect(ctx context.Context, opts *rectOpts) error {
	m := newPromptModel("Rectangle",
		promptField{Label: "P1 (x,y)", Placeholder: "0,0", Value: opts.p1, Validate: validatePoint2},
		promptField{Label: "P2 (x,y)", Placeholder: "10,0", Value: opts.p2, Validate: validatePoint2},
		promptField{Label: "Width", Placeholder: "4", Value: formatFlag(opts.width), Validate: validatePositive("width")},
	)
	fm, err := runPrompt(ctx, m)
	if err != nil {
		return err
	}
	v := fm.Values()
	opts.p1, opts.p2 = v[0], v[1]
	opts.width, _ = strconv.ParseFloat(v[2], 64)
	return nil
}

func validatePoint2(s string) error {
	_, err := pipeline.ParsePoint2(s)
	return err
}

func validatePoint3(s string) error {
	_, err := pipeline.ParsePoint3(s)
	return err
}

func validatePositive(name string) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", name, s)
		}
		return errors.ValidatePositive(name, v)
	}
}

// formatFlag pre-fills a prompt field from a numeric flag; zero means unset.
func formatFlag(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
