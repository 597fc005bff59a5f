package commands

import (
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/tools"
	"github.com/vibelang/vibe/logger"
	"github.com/vibelang/vibe/server"
)

// LspCmd serves LSP on stdin/stdout for editors that spawn the server
var LspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Serve LSP on stdin/stdout",
	Long: `Serve the Vibe language server over stdio for a single editor.

Logs go to stderr. The catalog is the built-in one plus
catalog.extensions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		service, err := newService(cfg)
		if err != nil {
			return err
		}

		logger.Infow("Serving LSP on stdio", logger.FieldCount, service.Catalog().Len())
		return server.NewStdioServer(service, cfg.GetServerName(), cfg.GetMaxDocuments()).RunStdio()
	},
}

// McpCmd serves MCP on stdin/stdout for agents
var McpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP on stdin/stdout",
	Long: `Serve the Vibe language tools to MCP clients over stdio.

Tools: vibe_tokenize, vibe_complete, vibe_hover, vibe_signature_help,
vibe_highlight, vibe_catalog, vibe_diagnostics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		theme, err := cfg.ResolveTheme()
		if err != nil {
			return err
		}
		service, err := newService(cfg)
		if err != nil {
			return err
		}

		logger.Infow("Serving MCP on stdio", logger.FieldCount, service.Catalog().Len())
		if err := tools.NewMCPServer(service, theme).Serve(); err != nil {
			return errors.Wrap(err, "MCP server failed")
		}
		return nil
	},
}
