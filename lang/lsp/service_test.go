package lsp

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/lexer"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	return NewService(catalog.Default())
}

func TestHover(t *testing.T) {
	svc := setupService(t)

	tests := []struct {
		name   string
		text   string
		line   int
		column int
		want   string // label, empty for none
	}{
		{"inside keyword", "smash(x) { }", 1, 3, "smash"},
		{"on argument", "smash(x) { }", 1, 7, ""},
		{"just after word", "smash(x) { }", 1, 6, "smash"},
		{"start of word", "smash(x) { }", 1, 1, "smash"},
		{"on brace", "smash(x) { }", 1, 10, ""},
		{"whitespace", "a   b", 1, 3, ""},
		{"second line", "starterPack {\n  shoutout(\"hi\")\n}", 2, 5, "shoutout"},
		{"constant", "mood m = noCap", 1, 12, "noCap"},
		{"datatype", "mood m = noCap", 1, 2, "mood"},
		{"snippet label", "vibeblock", 1, 4, "vibeblock"},
		{"hyphenated keyword", "tryhard-flopped {", 1, 4, "tryhard-flopped"},
		{"hyphenated keyword second half", "tryhard-flopped {", 1, 12, "tryhard-flopped"},
		{"catch keyword", "} flopped {", 1, 4, "flopped"},
		{"unknown word", "vibes", 1, 2, ""},
		{"case sensitive", "SMASH", 1, 2, ""},
		{"line out of range", "smash", 3, 1, ""},
		{"empty document", "", 1, 1, ""},
		{"column past end", "cap", 1, 40, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Hover(tt.text, tt.line, tt.column)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Label)
			assert.NotEmpty(t, got.Documentation)
		})
	}
}

func TestHoverResultDetails(t *testing.T) {
	h := setupService(t).Hover("  smash(x)", 1, 4)
	require.NotNil(t, h)

	assert.Equal(t, catalog.CategoryKeyword, h.Category)
	assert.Equal(t, "Conditional statement (if)", h.Documentation)
	assert.Equal(t, Range{Start: Position{1, 3}, End: Position{1, 8}}, h.Range)
	assert.Equal(t, "**smash**\n\nConditional statement (if)", h.Markdown())
}

func TestSignatureHelp(t *testing.T) {
	svc := setupService(t)

	tests := []struct {
		name   string
		text   string
		line   int
		column int
		callee string // empty for none
	}{
		{"open call", "shoutout(", 1, 10, "shoutout"},
		{"closed call", "shoutout()", 1, 11, ""},
		{"cursor inside closed call", "shoutout()", 1, 10, "shoutout"},
		{"space before paren", "grind  (x < 3", 1, 14, "grind"},
		{"argument typed", `shoutout("hello`, 1, 16, "shoutout"},
		{"keyword construct", "smash(", 1, 7, "smash"},
		{"unknown callee", "myFunc(", 1, 8, ""},
		{"not a call", "shoutout", 1, 9, ""},
		{"call spans lines", "itsGiving(\n  x", 2, 4, "itsGiving"},
		{"earlier lines closed", "shoutout(a)\nyeet(", 2, 6, "yeet"},
		{"leftmost open call wins", "shoutout(itsGiving(", 1, 20, "shoutout"},
		{"line out of range", "shoutout(", 5, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.SignatureHelp(tt.text, tt.line, tt.column)
			if tt.callee == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.callee, got.Callee)
			require.Len(t, got.Signatures, 1)
			assert.Equal(t, 0, got.ActiveSignature)
			assert.Equal(t, 0, got.ActiveParameter)
		})
	}
}

func TestSignatureHelpShoutout(t *testing.T) {
	got := setupService(t).SignatureHelp("shoutout(", 1, 10)
	require.NotNil(t, got)

	sig := got.Signatures[0]
	assert.Equal(t, "shoutout(message)", sig.Label)
	require.Len(t, sig.Parameters, 1)
	assert.Equal(t, "message", sig.Parameters[0].Name)
}

func TestCompleteReturnsWholeCatalog(t *testing.T) {
	svc := setupService(t)
	cat := svc.Catalog()

	got := svc.Complete("sm", 1, 3)
	require.Len(t, got, cat.Len())

	all := cat.All()
	for i, c := range got {
		assert.Equal(t, all[i].Name, c.Label)
		assert.Equal(t, all[i].Category, c.Category)
		assert.Equal(t, all[i].InsertTemplate, c.InsertTemplate)
	}

	first := got[0]
	assert.Equal(t, "starterPack", first.Label)
	assert.True(t, first.Placeholders)

	var staph CompletionCandidate
	for _, c := range got {
		if c.Label == "staph" {
			staph = c
		}
	}
	assert.False(t, staph.Placeholders)
}

func TestCompleteIsDeterministic(t *testing.T) {
	svc := setupService(t)
	text := "starterPack {\n  sh\n}"
	assert.Equal(t, svc.Complete(text, 2, 5), svc.Complete(text, 2, 5))
}

// The replace range is keyed to the candidate label, not to the typed
// prefix. With "sm" typed after "x = ", "smash" reaches back over "= ",
// "spillTheTea" is clamped at column 1 and "cap" starts on the space.
func TestCompleteReplaceRangeFollowsLabelLength(t *testing.T) {
	svc := setupService(t)
	text := "x = sm"

	byLabel := map[string]CompletionCandidate{}
	for _, c := range svc.Complete(text, 1, 7) {
		byLabel[c.Label] = c
	}

	typed := TypedPrefix(text, 1, 7)
	require.Equal(t, "sm", typed)

	// what a prefix-keyed range would be: columns 5..7
	prefixStart := 7 - len(typed)

	smash := byLabel["smash"].ReplaceRange
	assert.Equal(t, Position{Line: 1, Column: 2}, smash.Start)
	assert.Equal(t, Position{Line: 1, Column: 7}, smash.End)
	assert.NotEqual(t, prefixStart, smash.Start.Column, "label-keyed range over-reaches the typed prefix")

	spill := byLabel["spillTheTea"].ReplaceRange
	assert.Equal(t, 1, spill.Start.Column, "clamped at column 1")

	capRange := byLabel["cap"].ReplaceRange
	assert.Equal(t, 4, capRange.Start.Column)
}

func TestCompleteClampsPosition(t *testing.T) {
	got := setupService(t).Complete("", 0, 0)
	require.NotEmpty(t, got)
	assert.Equal(t, Range{Start: Position{1, 1}, End: Position{1, 1}}, got[0].ReplaceRange)
}

func TestTypedPrefix(t *testing.T) {
	assert.Equal(t, "shou", TypedPrefix("  shou", 1, 7))
	assert.Equal(t, "", TypedPrefix("smash(", 1, 7))
	assert.Equal(t, "no", TypedPrefix("a\nno", 2, 3))
	assert.Equal(t, "", TypedPrefix("a", 4, 1))
}

func TestFoldingRanges(t *testing.T) {
	text := "starterPack {\n  smash(x) {\n    shoutout(\"{\")\n  }\n  ~ {\n}\nyeet(i) { }"
	got := setupService(t).FoldingRanges(text)

	assert.Equal(t, []FoldingRange{
		{StartLine: 1, EndLine: 5},
		{StartLine: 2, EndLine: 3},
	}, got)
}

func TestFoldingRangesUnbalanced(t *testing.T) {
	assert.Empty(t, setupService(t).FoldingRanges("}\n{\n\n"))
}

func TestSemanticTokens(t *testing.T) {
	data := setupService(t).SemanticTokens("smash(x)\n  ~ hi")

	assert.Equal(t, []uint32{
		0, 0, 5, TokenTypeKeyword, 0,
		0, 5, 1, TokenTypeOperator, 0,
		0, 1, 1, TokenTypeVariable, 0,
		0, 1, 1, TokenTypeOperator, 0,
		1, 2, 4, TokenTypeComment, 0,
	}, data)
}

func TestSemanticTokensCountUTF16(t *testing.T) {
	data := setupService(t).SemanticTokens("shoutout(\"💯\") smash\n\"😀\" x")

	assert.Equal(t, []uint32{
		0, 0, 8, TokenTypeFunction, 0,
		0, 8, 1, TokenTypeOperator, 0,
		0, 1, 4, TokenTypeString, 0,
		0, 4, 1, TokenTypeOperator, 0,
		0, 2, 5, TokenTypeKeyword, 0,
		1, 0, 4, TokenTypeString, 0,
		0, 5, 1, TokenTypeVariable, 0,
	}, data)
}

func TestUTF16Columns(t *testing.T) {
	text := "a💯b\nplain"

	assert.Equal(t, 0, UTF16Column(text, Position{Line: 1, Column: 1}))
	assert.Equal(t, 1, UTF16Column(text, Position{Line: 1, Column: 2}))
	assert.Equal(t, 3, UTF16Column(text, Position{Line: 1, Column: 3}))
	assert.Equal(t, 4, UTF16Column(text, Position{Line: 1, Column: 9}), "clamped to line end")
	assert.Equal(t, 2, UTF16Column(text, Position{Line: 2, Column: 3}))

	assert.Equal(t, 1, ColumnFromUTF16(text, 1, 0))
	assert.Equal(t, 2, ColumnFromUTF16(text, 1, 1))
	assert.Equal(t, 3, ColumnFromUTF16(text, 1, 3))
	assert.Equal(t, 3, ColumnFromUTF16(text, 1, 2), "inside the surrogate pair")
	assert.Equal(t, 4, ColumnFromUTF16(text, 1, 40))
	assert.Equal(t, 6, ColumnFromUTF16(text, 7, 5), "missing line")
}

func TestSemanticTokenLegendMatchesIndices(t *testing.T) {
	assert.Equal(t, "keyword", SemanticTokenTypes[TokenTypeKeyword])
	assert.Equal(t, "enumMember", SemanticTokenTypes[TokenTypeEnumMember])
	assert.Equal(t, "type", SemanticTokenTypes[TokenTypeType])
	assert.Equal(t, "variable", SemanticTokenTypes[TokenTypeVariable])
	assert.Len(t, SemanticTokenTypes, len(channelTokenTypes))
}

func TestDiagnostics(t *testing.T) {
	diags := setupService(t).Diagnostics("shoutout(\"oops")
	require.Len(t, diags, 1)
	assert.Equal(t, lexer.CodeUnclosedString, diags[0].Code)
}

func TestRegistration(t *testing.T) {
	reg := NewRegistration()
	assert.Equal(t, "vibe", reg.ID)
	assert.Equal(t, []string{"", " ", ".", "{", "("}, reg.CompletionTriggerCharacters)
	assert.Equal(t, []string{"("}, reg.SignatureTriggerCharacters)
	assert.Equal(t, "~", reg.Configuration.LineComment)
	assert.Len(t, reg.Configuration.AutoClosingPairs, 4)
	assert.Len(t, reg.TokenChannels, len(lexer.Kinds()))

	// callers get copies
	reg.CompletionTriggerCharacters[0] = "x"
	assert.Equal(t, "", CompletionTriggerCharacters[0])
}

func writeExtension(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ext.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReloadSwapsCatalog(t *testing.T) {
	svc := setupService(t)
	assert.Nil(t, svc.Hover("vibeCheck", 1, 2))

	path := writeExtension(t, "entries:\n  - name: vibeCheck\n    category: builtin-function\n    documentation: Assert a condition\n    signature:\n      parameters:\n        - name: condition\n          documentation: Must hold\n")
	cat, err := svc.Reload([]string{path})
	require.NoError(t, err)
	assert.Same(t, cat, svc.Catalog())

	h := svc.Hover("vibeCheck", 1, 2)
	require.NotNil(t, h)
	assert.Equal(t, "Assert a condition", h.Documentation)

	sig := svc.SignatureHelp("vibeCheck(", 1, 11)
	require.NotNil(t, sig)
	assert.Equal(t, "vibeCheck(condition)", sig.Signatures[0].Label)

	assert.Equal(t, lexer.Function, svc.Tokenize("vibeCheck")[0].Kind)
}

func TestReloadFailureKeepsCatalog(t *testing.T) {
	svc := setupService(t)
	before := svc.Catalog()

	path := writeExtension(t, "entries:\n  - name: smash\n    category: keyword\n    documentation: dup\n")
	_, err := svc.Reload([]string{path})
	require.Error(t, err)
	assert.Same(t, before, svc.Catalog())
}

func TestSwap(t *testing.T) {
	svc := setupService(t)
	first := svc.Catalog()
	next := catalog.Default()

	prev := svc.Swap(next)
	assert.Same(t, first, prev)
	assert.Same(t, next, svc.Catalog())
}

func TestConcurrentQueriesDuringReload(t *testing.T) {
	svc := setupService(t)
	before := svc.Catalog().All()
	text := "starterPack {\n  smash(noCap) { shoutout(\n}"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				svc.Tokenize(text)
				svc.Complete(text, 2, 8)
				svc.Hover(text, 2, 4)
				svc.SignatureHelp(text, 2, 27)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		svc.Swap(catalog.Default())
	}
	wg.Wait()

	assert.Equal(t, before, svc.Catalog().All())
}

func TestQueriesArePure(t *testing.T) {
	svc := setupService(t)
	cat := svc.Catalog()
	before := cat.All()
	text := "smash(x) { }"

	assert.Equal(t, svc.Hover(text, 1, 3), svc.Hover(text, 1, 3))
	assert.Equal(t, svc.Tokenize(text), svc.Tokenize(text))
	assert.Equal(t, before, cat.All())
}
