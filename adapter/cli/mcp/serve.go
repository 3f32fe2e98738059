package mcp

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/app"
	mcpinternal "github.com/felixgeelhaar/lifecycles/internal/mcp"
	"github.com/felixgeelhaar/lifecycles/pkg/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the lifecycle registry tools over streamable HTTP until
interrupted. MCP_ADDR and MCP_AUTH_TOKEN configure the listener.`,
	Annotations: map[string]string{cli.SkipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		logger := app.NewLogger(cfg, cmd.ErrOrStderr(), cli.Version)
		return mcpinternal.Run(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides MCP_ADDR)")
}
