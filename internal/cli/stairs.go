package cli

import (
	"context"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
)

type stairsOpts struct {
	length, rise, width float64
	origin              string
	riser               float64
	interactive         bool
}

// stairsCommand creates the stairs command, which draws the outline of a
// straight flight as four 3-D lines.
func (c *CLI) stairsCommand() *cobra.Command {
	opts := stairsOpts{origin: "0,0,0"}
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "stairs",
		Short: "Draw a straight flight of stairs",
		Long: `Draw the outline of a straight flight: two stringers, the bottom nosing
line and the top landing line. The flight runs --length along +Y and climbs
--rise along +Z from --origin; it is --width wide along +X.`,
		Example: `  hyperstairs stairs --length 3 --rise 2.7 --width 1.2
  hyperstairs stairs --length 3 --rise 2.7 --width 1.2 --riser 0.18 -f dxf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.interactive {
				if err := promptStairs(ctx, &opts); err != nil {
					return err
				}
			}

			popts, err := flags.options(cmd, c.config, pipeline.ShapeStairs)
			if err != nil {
				return err
			}
			origin, err := pipeline.ParsePoint3(opts.origin)
			if err != nil {
				return err
			}
			popts.Flight = geom.Flight{Length: opts.length, Rise: opts.rise, Width: opts.width, Origin: origin}

			return c.runStairs(ctx, &flags, popts, opts.riser)
		},
	}

	cmd.Flags().Float64Var(&opts.length, "length", 0, "horizontal run of the flight")
	cmd.Flags().Float64Var(&opts.rise, "rise", 0, "total height climbed")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "flight width")
	cmd.Flags().StringVar(&opts.origin, "origin", opts.origin, "bottom-left corner x,y,z")
	cmd.Flags().Float64Var(&opts.riser, "riser", 0, "maximum riser height; prints the step count")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for dimensions")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runStairs(ctx context.Context, flags *renderFlags, opts pipeline.Options, riser float64) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Drawing stairs L=%g H=%g W=%g", opts.Flight.Length, opts.Flight.Rise, opts.Flight.Width)

	var steps int
	if riser != 0 {
		n, err := opts.Flight.Steps(riser)
		if err != nil {
			return err
		}
		steps = n
	}

	if _, err := c.draw(ctx, flags, opts); err != nil {
		return err
	}
	if flags.output == stdoutPath {
		return nil
	}

	s, err := geom.BuildStairs(opts.Flight)
	if err != nil {
		return err
	}
	printKeyValue("Run", formatCoord(s.RunLength()))
	printKeyValue("Slope", strconv.FormatFloat(s.Slope()*180/math.Pi, 'f', 1, 64)+"°")
	if riser != 0 {
		printKeyValue("Steps", strconv.Itoa(steps))
		if steps > 0 {
			printDetail("riser %.4f, going %.4f", opts.Flight.Rise/float64(steps), opts.Flight.Length/float64(steps))
		}
	}
	return nil
}

func promptStairs(ctx context.Context, opts *stairsOpts) error {
	m := newPromptModel("Stairs",
		promptField{Label: "Length", Placeholder: "3", Value: formatFlag(opts.length), Validate: validatePositive("length")},
		promptField{Label: "Rise", Placeholder: "2.7", Value: formatFlag(opts.rise), Validate: validatePositive("rise")},
		promptField{Label: "Width", Placeholder: "1.2", Value: formatFlag(opts.width), Validate: validatePositive("width")},
		promptField{Label: "Origin", Placeholder: "0,0,0", Value: opts.origin, Validate: validatePoint3},
	)
	fm, err := runPrompt(ctx, m)
	if err != nil {
		return err
	}
	v := fm.Values()
	nums := []*float64{&opts.length, &opts.rise, &opts.width}
	for i, p := range nums {
		f, err := strconv.ParseFloat(v[i], 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", fm.Fields[i].Label)
		}
		*p = f
	}
	opts.origin = v[3]
	return nil
}
