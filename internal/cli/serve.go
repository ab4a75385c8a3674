package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/crateinfo/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve crate lookups over HTTP",
		Long: `Start an HTTP server that answers crate lookups from crates.io.

Routes:
  GET /healthz
  GET /api/v1/crates/{name}
  GET /api/v1/crates/{name}/latest[?order=date]

The server stops gracefully on interrupt.`,
		Example: `  crateinfo serve
  crateinfo serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := c.newClient()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			logger := loggerFromContext(cmd.Context())
			logger.Info("using registry", "api_root", client.BaseURL())
			return server.New(client, logger).ListenAndServe(cmd.Context(), addr, nil)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
