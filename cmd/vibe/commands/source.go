package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/display"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lexer"
)

// TokensCmd prints the token stream of a file
var TokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the tokens of a Vibe file",
	Long: `Tokenize a file (or stdin) and print one row per token with its
position, kind and text. Whitespace is hidden unless --all is given.

Lexical problems (unexpected characters, unclosed strings, invalid
escapes) are listed after the table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

// HighlightCmd renders a file with syntax highlighting
var HighlightCmd = &cobra.Command{
	Use:   "highlight [file]",
	Short: "Highlight a Vibe file",
	Long: `Highlight a file (or stdin).

By default the output is ANSI-coloured for the terminal using the
configured theme. --html renders the fixed-palette static HTML used by
documentation pages; --tokens renders HTML from the lexer's tokens with
the configured theme.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHighlight,
}

var (
	tokensFormat   string
	tokensAll      bool
	highlightHTML  bool
	highlightToken bool
)

func init() {
	TokensCmd.Flags().StringVar(&tokensFormat, "format", "table", "Output format: table, json")
	TokensCmd.Flags().BoolVar(&tokensAll, "all", false, "Include whitespace tokens")

	HighlightCmd.Flags().BoolVar(&highlightHTML, "html", false, "Render static HTML")
	HighlightCmd.Flags().BoolVar(&highlightToken, "tokens", false, "Render token-driven HTML with the configured theme")
	HighlightCmd.MarkFlagsMutuallyExclusive("html", "tokens")
}

func runTokens(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	service, err := newService(cfg)
	if err != nil {
		return err
	}
	text, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	var tokens []lexer.Token
	for _, tok := range service.Tokenize(text) {
		if tok.Kind == lexer.Whitespace && !tokensAll {
			continue
		}
		tokens = append(tokens, tok)
	}

	switch tokensFormat {
	case display.FormatJSON:
		return display.Write(cmd.OutOrStdout(), display.FormatJSON, "", tokens)
	case display.FormatTable:
	default:
		return display.UnsupportedFormat(tokensFormat, display.FormatTable, display.FormatJSON)
	}

	data := pterm.TableData{{"Pos", "Kind", "Text"}}
	for _, tok := range tokens {
		data = append(data, []string{
			fmt.Sprintf("%d:%d", tok.Range.Start.Line, tok.Range.Start.Character+1),
			tok.Kind.String(),
			strconv.Quote(tok.Text),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	for _, d := range service.Diagnostics(text) {
		printer := pterm.Error
		if d.Severity == lexer.SeverityWarning {
			printer = pterm.Warning
		}
		printer.Printfln("%d:%d %s (%s)", d.Range.Start.Line, d.Range.Start.Character+1, d.Message, d.Code)
	}
	return nil
}

func runHighlight(cmd *cobra.Command, args []string) error {
	text, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	if highlightHTML {
		fmt.Fprintln(cmd.OutOrStdout(), highlight.Render(text))
		return nil
	}

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

	tokens := service.Tokenize(text)
	if highlightToken {
		fmt.Fprintln(cmd.OutOrStdout(), highlight.RenderTokens(tokens, theme))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), highlight.RenderANSI(tokens, theme))
	return nil
}
