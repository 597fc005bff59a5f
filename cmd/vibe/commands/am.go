package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/display"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/internal/httpclient"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage vibe configuration",
	Long: `am - Manage vibe configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/vibe/am.toml)
3. User config (~/.vibe/am.toml)
4. Project config (nearest am.toml, searching up from the working directory)
5. Environment variables (VIBE_* prefix, e.g. VIBE_SERVER_PORT)

Examples:
  vibe am show                    # Show current configuration
  vibe am show --format json      # Show configuration in JSON format
  vibe am show --sources          # Show where each setting comes from
  vibe am init                    # Write a default ~/.vibe/am.toml
  vibe am validate                # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective vibe configuration merged from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration as TOML to path (default ~/.vibe/am.toml).
An existing file is left alone unless --force is given, in which case it is
backed up first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the effective configuration, including theme styles and catalog extension files",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var (
	configFormat  string
	configSources bool
	initForce     bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().BoolVar(&configSources, "sources", false, "Show the source of every setting")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file (a backup is kept)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amValidateCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if configSources {
		return showSources(cmd)
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case display.FormatJSON, display.FormatYAML:
		return display.Write(out, configFormat, "vibe configuration", cfg)
	case "toml":
		data, err := am.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# vibe configuration\n%s", data)
		return nil
	}
	return display.UnsupportedFormat(configFormat, "toml", display.FormatJSON, display.FormatYAML)
}

func showSources(cmd *cobra.Command) error {
	intro := am.Introspect()
	out := cmd.OutOrStdout()

	if configFormat == display.FormatJSON || configFormat == display.FormatYAML {
		return display.Write(out, configFormat, "vibe configuration sources", intro)
	}

	pterm.Fprintln(out, pterm.LightCyan("Configuration files (later overrides earlier):"))
	if len(intro.Files) == 0 {
		pterm.Fprintln(out, pterm.Gray("  none, using defaults"))
	}
	for i, f := range intro.Files {
		pterm.Fprintln(out, fmt.Sprintf("  %d. %s", i+1, f))
	}
	pterm.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source"}}
	for _, s := range intro.Settings {
		source := string(s.Source)
		if s.SourcePath != "" {
			source += " (" + s.SourcePath + ")"
		}
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), source})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	summary := intro.Summary()
	pterm.Fprintln(out, pterm.Gray(fmt.Sprintf("%d default, %d system, %d user, %d project, %d environment",
		summary[am.SourceDefault], summary[am.SourceSystem], summary[am.SourceUser],
		summary[am.SourceProject], summary[am.SourceEnvironment])))
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.UserConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.WithHint(errors.New("cannot determine home directory"), "pass a path: vibe am init ./am.toml")
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if err := am.WriteDefault(path, initForce); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	for _, ext := range cfg.Catalog.Extensions {
		if httpclient.IsRemote(ext) {
			continue
		}
		if _, err := os.Stat(ext); err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "catalog extension %s", ext),
				"fix or remove the path in catalog.extensions",
			)
		}
	}
	// loads remote extensions too
	if _, err := newService(cfg); err != nil {
		return err
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}
