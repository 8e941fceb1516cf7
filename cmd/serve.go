package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/suture-cli/internal/bridge"
	"github.com/xkilldash9x/suture-cli/internal/config"
	"github.com/xkilldash9x/suture-cli/internal/observability"
)

// newServeCmd creates and configures the `serve` command.
func newServeCmd() *cobra.Command {
	var listenAddr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP command bridge",
		Long: `Starts an HTTP server exposing the report and query operations as JSON
commands, so assistants and automation can drive the tool without invoking
the CLI for every request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}

			defer observability.Sync()

			srv, err := bridge.NewServer(ctx, serveConfig(cfg, listenAddr), observability.GetLogger())
			if err != nil {
				return fmt.Errorf("failed to initialize bridge server: %w", err)
			}
			return srv.Start(ctx)
		},
	}

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config)")

	return serveCmd
}

// serveConfig returns the configuration the server runs with. The --listen
// override lands on a copy so the shared config in the command context
// stays untouched.
func serveConfig(cfg *config.Config, listenAddr string) *config.Config {
	srvCfg := *cfg
	if listenAddr != "" {
		srvCfg.Bridge.ListenAddr = listenAddr
	}
	return &srvCfg
}
