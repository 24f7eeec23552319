package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperstairs/internal/server"
	"github.com/matzehuels/hyperstairs/pkg/cache"
)

// apiKeyPrefix scopes HTTP API cache keys to the API version.
const apiKeyPrefix = "v1:"

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.config.Server.Addr != "" {
				addr = c.config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(nil, apiKeyPrefix)

			srv := server.New(runner, server.WithLogger(c.Logger), server.WithAddr(addr))
			printInfo("Serving on %s", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}
