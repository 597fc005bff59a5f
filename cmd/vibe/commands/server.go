package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/server"
)

// ServerCmd starts the language server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Serve LSP over WebSocket, the JSON analysis API and MCP over HTTP",
	Long: `Start the Vibe language server.

Endpoints:
  /lsp      LSP 3.16 over WebSocket
  /api/*    JSON analysis API (tokens, complete, hover, signature, highlight, ...)
  /mcp      MCP over streamable HTTP
  /health   Liveness and build info

The port comes from server.port (VIBE_SERVER_PORT); when it is taken the
next free port is used.`,
	RunE: runServer,
}

var serverPort int

func init() {
	ServerCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (overrides server.port)")
}

func runServer(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	cfg, configFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	srv, err := server.New(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}
	if configFile != "" {
		srv.SetConfigFile(configFile)
	}

	printStartupBanner(verbosity, cfg.Server.Port, srv.Service().Catalog().Len(), srv.Theme().Name)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.Server.Port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-sigChan:
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}
