package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fileboard/internal/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dashboard MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.SeedServerURL = serverURL
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.NewApp(ctx, cfg, opts.logger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return app.RunMCPStdio(ctx)
		},
	}
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "remote file server URL used until one is saved")
	return cmd
}
