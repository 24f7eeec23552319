package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
)

// lineCommand creates the line command, which draws one 3-D line.
func (c *CLI) lineCommand() *cobra.Command {
	var from, to string
	var flags renderFlags

	cmd := &cobra.Command{
		Use:     "line",
		Short:   "Draw a 3-D line between two points",
		Example: `  hyperstairs line --from 0,0,0 --to 3,4,0 -f dxf`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" || to == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--from and --to are required")
			}
			opts, err := flags.options(cmd, c.config, pipeline.ShapeLine)
			if err != nil {
				return err
			}
			if opts.Start, err = pipeline.ParsePoint3(from); err != nil {
				return err
			}
			if opts.End, err = pipeline.ParsePoint3(to); err != nil {
				return err
			}

			ctx := cmd.Context()
			loggerFromContext(ctx).Infof("Drawing line %s → %s", opts.Start, opts.End)
			if _, err := c.draw(ctx, &flags, opts); err != nil {
				return err
			}
			if flags.output != stdoutPath {
				printKeyValue("Length", formatCoord(opts.Start.Distance(opts.End)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start point x,y,z")
	cmd.Flags().StringVar(&to, "to", "", "end point x,y,z")
	flags.register(cmd)

	return cmd
}
