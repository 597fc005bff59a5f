package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lsp"
)

func setupServer(t *testing.T) *MCPServer {
	t.Helper()
	return NewMCPServer(lsp.NewService(catalog.Default()), highlight.DefaultTheme())
}

func call(t *testing.T, s *MCPServer, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	st := s.Server().GetTool(tool)
	require.NotNil(t, st, "tool %s not registered", tool)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := st.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestToolsRegistered(t *testing.T) {
	tools := setupServer(t).Server().ListTools()
	for _, name := range []string{ToolTokenize, ToolComplete, ToolHover, ToolSignatureHelp, ToolHighlight, ToolCatalog, ToolDiagnostics} {
		assert.Contains(t, tools, name)
	}
}

func TestTokenizeTool(t *testing.T) {
	s := setupServer(t)

	result := call(t, s, ToolTokenize, map[string]any{"text": "smash(noCap)"})
	assert.False(t, result.IsError)

	var tokens []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &tokens))
	require.Len(t, tokens, 4)
	assert.Equal(t, "keyword", tokens[0].Kind)
	assert.Equal(t, "constant", tokens[2].Kind)

	withSpace := call(t, s, ToolTokenize, map[string]any{"text": "a b", "include_whitespace": true})
	require.NoError(t, json.Unmarshal([]byte(text(t, withSpace)), &tokens))
	assert.Len(t, tokens, 3)
}

func TestCompleteTool(t *testing.T) {
	s := setupServer(t)
	args := map[string]any{"text": "sho", "line": float64(1), "column": float64(4)}

	var all []lsp.CompletionCandidate
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, s, ToolComplete, args))), &all))
	assert.Len(t, all, catalog.Default().Len())

	args["filter"] = true
	var filtered []lsp.CompletionCandidate
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, s, ToolComplete, args))), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "shoutout", filtered[0].Label)
}

func TestHoverTool(t *testing.T) {
	s := setupServer(t)

	result := call(t, s, ToolHover, map[string]any{"text": "smash(x) { }", "line": 1, "column": 3})
	assert.Equal(t, "**smash**\n\nConditional statement (if)", text(t, result))

	none := call(t, s, ToolHover, map[string]any{"text": "smash(x) { }", "line": 1, "column": 7})
	assert.Equal(t, "No hover information available", text(t, none))
}

func TestSignatureHelpTool(t *testing.T) {
	s := setupServer(t)

	result := call(t, s, ToolSignatureHelp, map[string]any{"text": "shoutout(", "line": 1, "column": 10})
	assert.Contains(t, text(t, result), "shoutout(message)")
	assert.Contains(t, text(t, result), "message: The message to display")

	closed := call(t, s, ToolSignatureHelp, map[string]any{"text": "shoutout()", "line": 1, "column": 11})
	assert.Equal(t, "No open built-in call at the cursor", text(t, closed))
}

func TestHighlightTool(t *testing.T) {
	s := setupServer(t)

	static := call(t, s, ToolHighlight, map[string]any{"code": "smash"})
	assert.Contains(t, text(t, static), "#C586C0")

	tokens := call(t, s, ToolHighlight, map[string]any{"code": "smash", "mode": "tokens"})
	assert.Contains(t, text(t, tokens), `class="vibe-keyword"`)

	bad := call(t, s, ToolHighlight, map[string]any{"code": "smash", "mode": "neon"})
	assert.True(t, bad.IsError)
}

func TestCatalogTool(t *testing.T) {
	s := setupServer(t)

	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, s, ToolCatalog, map[string]any{"category": "constant"}))), &entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"noCap", "cap", "ghosted"}, names)

	bad := call(t, s, ToolCatalog, map[string]any{"category": "macro"})
	assert.True(t, bad.IsError)
}

func TestDiagnosticsTool(t *testing.T) {
	s := setupServer(t)

	clean := call(t, s, ToolDiagnostics, map[string]any{"text": "shoutout(\"hi\");"})
	assert.Equal(t, "No problems found", text(t, clean))

	result := call(t, s, ToolDiagnostics, map[string]any{"text": "shoutout(\"hi"})
	assert.Contains(t, text(t, result), "1:10 error: unclosed string literal")
}

func TestMissingArguments(t *testing.T) {
	s := setupServer(t)

	for _, tool := range []string{ToolTokenize, ToolComplete, ToolHover, ToolSignatureHelp, ToolHighlight, ToolDiagnostics} {
		t.Run(tool, func(t *testing.T) {
			result := call(t, s, tool, map[string]any{})
			assert.True(t, result.IsError)
		})
	}

	result := call(t, s, ToolHover, map[string]any{"text": "x", "line": "one", "column": 1})
	assert.True(t, result.IsError)
}
