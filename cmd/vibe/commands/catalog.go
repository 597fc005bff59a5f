package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/display"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/catalog"
)

// CatalogCmd lists the active symbol catalog
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List keywords, built-ins, constants, datatypes and snippets",
	Long: `List the catalog the language service uses: the built-in Vibe
vocabulary plus any catalog.extensions files.

Examples:
  vibe catalog                          # Table of every entry
  vibe catalog --category snippet       # Only snippets
  vibe catalog --format yaml            # Machine-readable dump`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var (
	catalogFormat   string
	catalogCategory string
)

func init() {
	CatalogCmd.Flags().StringVar(&catalogFormat, "format", "table", "Output format: table, json, yaml")
	CatalogCmd.Flags().StringVar(&catalogCategory, "category", "", "Only list one category (keyword, builtin-function, constant, datatype, snippet)")
}

// catalogDump is the json/yaml shape of the catalog
type catalogDump struct {
	Version  string          `json:"version" yaml:"version"`
	Symbols  []catalog.Entry `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Snippets []catalog.Entry `json:"snippets,omitempty" yaml:"snippets,omitempty"`
}

func runCatalog(cmd *cobra.Command, args []string) error {
	switch catalogFormat {
	case display.FormatTable, display.FormatJSON, display.FormatYAML:
	default:
		return display.UnsupportedFormat(catalogFormat, display.FormatTable, display.FormatJSON, display.FormatYAML)
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	service, err := newService(cfg)
	if err != nil {
		return err
	}
	cat := service.Catalog()

	entries := cat.All()
	if catalogCategory != "" {
		category, err := catalog.ParseCategory(catalogCategory)
		if err != nil {
			return err
		}
		kept := entries[:0]
		for _, e := range entries {
			if e.Category == category {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	dump := catalogDump{Version: cat.Version().String()}
	for _, e := range entries {
		if e.IsSnippet() {
			dump.Snippets = append(dump.Snippets, e)
		} else {
			dump.Symbols = append(dump.Symbols, e)
		}
	}

	out := cmd.OutOrStdout()
	if catalogFormat != display.FormatTable {
		return display.Write(out, catalogFormat, fmt.Sprintf("Vibe %s catalog", dump.Version), dump)
	}

	data := pterm.TableData{{"Name", "Category", "Documentation", "Signature"}}
	for _, e := range entries {
		signature := ""
		if sig, ok := cat.Signature(e.Name); ok && !e.IsSnippet() {
			signature = sig.Label
		}
		data = append(data, []string{e.Name, e.Category.String(), firstLine(e.Documentation), signature})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	pterm.Fprintln(out, pterm.Gray(fmt.Sprintf("Vibe %s, %d entries", dump.Version, len(entries))))
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
