// Package commands implements the vibe CLI subcommands.
package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/lsp"
)

// UsesStdout reports whether cmd owns stdout (a protocol stream or a full
// screen UI), in which case logs must go to stderr
func UsesStdout(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case LspCmd.Name(), McpCmd.Name(), PlaygroundCmd.Name():
		return true
	}
	return false
}

// loadConfig reads the --config file when given, otherwise the discovered
// system, user and project configuration
func loadConfig(cmd *cobra.Command) (*am.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := am.LoadFromFile(path)
		return cfg, path, err
	}
	cfg, err := am.Load()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load config")
	}
	return cfg, "", nil
}

// newService builds a language service over the built-in catalog plus the
// configured extensions
func newService(cfg *am.Config) (*lsp.Service, error) {
	cat, err := catalog.LoadWithExtensions(cfg.Catalog.Extensions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load catalog")
	}
	return lsp.NewService(cat), nil
}

// readSource reads the named file, or stdin when no file or "-" is given
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", args[0])
	}
	return string(data), nil
}
