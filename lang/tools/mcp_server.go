// Package tools exposes the Vibe language service to agents over the Model
// Context Protocol.
package tools

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lexer"
	"github.com/vibelang/vibe/lang/lsp"
	"github.com/vibelang/vibe/logger"
	"github.com/vibelang/vibe/version"
)

// Tool names.
const (
	ToolTokenize      = "vibe_tokenize"
	ToolComplete      = "vibe_complete"
	ToolHover         = "vibe_hover"
	ToolSignatureHelp = "vibe_signature_help"
	ToolHighlight     = "vibe_highlight"
	ToolCatalog       = "vibe_catalog"
	ToolDiagnostics   = "vibe_diagnostics"
)

// MCPServer serves the language service as MCP tools.
type MCPServer struct {
	service *lsp.Service
	theme   atomic.Pointer[highlight.Theme]
	server  *server.MCPServer
}

// NewMCPServer creates an MCP server over service. theme styles the
// vibe_highlight tool's token mode.
func NewMCPServer(service *lsp.Service, theme highlight.Theme) *MCPServer {
	s := &MCPServer{
		service: service,
		server: server.NewMCPServer(
			"vibe",
			version.Get().Version,
			server.WithToolCapabilities(true),
			server.WithInstructions("Lexical tooling for the Vibe language. Lines and columns are 1-based."),
		),
	}
	s.theme.Store(&theme)
	s.registerTools()
	return s
}

// SetTheme replaces the theme used by the token highlight mode.
func (s *MCPServer) SetTheme(theme highlight.Theme) {
	s.theme.Store(&theme)
}

func positionArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full Vibe document text"),
		),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("Cursor line (1-based)"),
		),
		mcp.WithNumber("column",
			mcp.Required(),
			mcp.Description("Cursor column (1-based)"),
		),
	}
}

func (s *MCPServer) registerTools() {
	s.server.AddTool(mcp.NewTool(ToolTokenize,
		mcp.WithDescription("Split Vibe source into classified tokens"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Vibe source text"),
		),
		mcp.WithBoolean("include_whitespace",
			mcp.Description("Include whitespace tokens (default: false)"),
		),
	), s.handleTokenize)

	s.server.AddTool(mcp.NewTool(ToolComplete, append([]mcp.ToolOption{
		mcp.WithDescription("List completion candidates at a cursor position"),
		mcp.WithBoolean("filter",
			mcp.Description("Keep only candidates starting with the typed prefix (default: false)"),
		),
	}, positionArgs()...)...), s.handleComplete)

	s.server.AddTool(mcp.NewTool(ToolHover, append([]mcp.ToolOption{
		mcp.WithDescription("Documentation for the Vibe word under the cursor"),
	}, positionArgs()...)...), s.handleHover)

	s.server.AddTool(mcp.NewTool(ToolSignatureHelp, append([]mcp.ToolOption{
		mcp.WithDescription("Signature of the built-in call the cursor is inside"),
	}, positionArgs()...)...), s.handleSignatureHelp)

	s.server.AddTool(mcp.NewTool(ToolHighlight,
		mcp.WithDescription("Render Vibe source as highlighted HTML"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Vibe source text"),
		),
		mcp.WithString("mode",
			mcp.Description("static (documentation style) or tokens (exact, themed)"),
			mcp.Enum("static", "tokens"),
			mcp.DefaultString("static"),
		),
	), s.handleHighlight)

	s.server.AddTool(mcp.NewTool(ToolCatalog,
		mcp.WithDescription("List the Vibe symbol catalog"),
		mcp.WithString("category",
			mcp.Description("Only entries of this category"),
			mcp.Enum("keyword", "builtin-function", "constant", "datatype", "snippet"),
		),
	), s.handleCatalog)

	s.server.AddTool(mcp.NewTool(ToolDiagnostics,
		mcp.WithDescription("Report lexical problems in Vibe source"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Vibe source text"),
		),
	), s.handleDiagnostics)
}

type position struct {
	text   string
	line   int
	column int
}

func requirePosition(request mcp.CallToolRequest) (position, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return position{}, err
	}
	line, err := request.RequireInt("line")
	if err != nil {
		return position{}, err
	}
	column, err := request.RequireInt("column")
	if err != nil {
		return position{}, err
	}
	return position{text: text, line: line, column: column}, nil
}

func (s *MCPServer) handleTokenize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	withSpace := request.GetBool("include_whitespace", false)

	tokens := s.service.Tokenize(text)
	if !withSpace {
		kept := tokens[:0]
		for _, tok := range tokens {
			if tok.Kind != lexer.Whitespace {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	logger.Debugw("MCP tokenize", logger.FieldTool, ToolTokenize, logger.FieldCount, len(tokens))
	return mcp.NewToolResultJSON(tokens)
}

func (s *MCPServer) handleComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := requirePosition(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	candidates := s.service.Complete(pos.text, pos.line, pos.column)
	if request.GetBool("filter", false) {
		prefix := lsp.TypedPrefix(pos.text, pos.line, pos.column)
		kept := candidates[:0]
		for _, c := range candidates {
			if strings.HasPrefix(c.Label, prefix) {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	logger.Debugw("MCP complete", logger.FieldTool, ToolComplete, logger.FieldCount, len(candidates))
	return mcp.NewToolResultJSON(candidates)
}

func (s *MCPServer) handleHover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := requirePosition(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	hover := s.service.Hover(pos.text, pos.line, pos.column)
	if hover == nil {
		return mcp.NewToolResultText("No hover information available"), nil
	}
	return mcp.NewToolResultStructured(hover, hover.Markdown()), nil
}

func (s *MCPServer) handleSignatureHelp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := requirePosition(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	help := s.service.SignatureHelp(pos.text, pos.line, pos.column)
	if help == nil {
		return mcp.NewToolResultText("No open built-in call at the cursor"), nil
	}

	sig := help.Signatures[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", sig.Label, sig.Documentation)
	for _, p := range sig.Parameters {
		fmt.Fprintf(&sb, "  - %s: %s\n", p.Name, p.Documentation)
	}
	return mcp.NewToolResultStructured(help, sb.String()), nil
}

func (s *MCPServer) handleHighlight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch mode := request.GetString("mode", "static"); mode {
	case "static":
		return mcp.NewToolResultText(highlight.Render(code)), nil
	case "tokens":
		return mcp.NewToolResultText(highlight.RenderTokens(s.service.Tokenize(code), *s.theme.Load())), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q (use static or tokens)", mode)), nil
	}
}

func (s *MCPServer) handleCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.service.Catalog().All()

	if name := request.GetString("category", ""); name != "" {
		category, err := catalog.ParseCategory(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kept := entries[:0]
		for _, e := range entries {
			if e.Category == category {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	return mcp.NewToolResultJSON(entries)
}

func (s *MCPServer) handleDiagnostics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diags := s.service.Diagnostics(text)
	if len(diags) == 0 {
		return mcp.NewToolResultText("No problems found"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d problem(s):\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "%d. %d:%d %s: %s\n", i+1, d.Range.Start.Line, d.Range.Start.Character+1, d.Severity, d.Message)
	}
	return mcp.NewToolResultStructured(diags, sb.String()), nil
}

// Server returns the underlying MCP server.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// Serve runs the MCP server on stdio until stdin closes.
func (s *MCPServer) Serve() error {
	return server.ServeStdio(s.server)
}

// HTTPHandler serves the MCP server over streamable HTTP.
func (s *MCPServer) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.server, server.WithStateLess(true))
}
