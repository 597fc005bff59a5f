package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/cmd/vibe/commands"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/logger"
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "Vibe - language tooling for the Vibe language",
	Long: `Vibe - language tooling for the Vibe language.

Tokenizing, highlighting, completion, hover and signature help for Vibe
source, served to editors over LSP, to agents over MCP and to everything
else over a JSON API.

Available commands:
  server     - Serve LSP (WebSocket), the JSON API and MCP over HTTP
  lsp        - Serve LSP on stdin/stdout
  mcp        - Serve MCP on stdin/stdout
  tokens     - Print the tokens of a file
  highlight  - Highlight a file (ANSI, or HTML with --html / --tokens)
  catalog    - List keywords, built-ins, constants, datatypes and snippets
  am         - Manage configuration ("I am")
  playground - Interactive editor line with live highlighting

Examples:
  vibe server -v               # Start the server on the configured port
  vibe tokens hello.vibe       # Show the token stream
  vibe highlight --html a.vibe # Render static HTML
  vibe catalog --format yaml   # Dump the catalog`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if !cmd.Flags().Changed("log-json") {
			jsonLogs = am.GetBool("log.json")
		}
		if err := logger.InitializeWithOptions(logger.Options{
			JSON:      jsonLogs,
			Verbosity: verbosity,
			Stderr:    commands.UsesStdout(cmd),
		}); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Read configuration from this file only (default: system, user and project am.toml)")

	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.HighlightCmd)
	rootCmd.AddCommand(commands.LspCmd)
	rootCmd.AddCommand(commands.McpCmd)
	rootCmd.AddCommand(commands.PlaygroundCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.TokensCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}
		os.Exit(1)
	}
}
