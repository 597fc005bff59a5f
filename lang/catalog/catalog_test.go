package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelang/vibe/errors"
)

func TestDefaultContainsRequiredVocabulary(t *testing.T) {
	cat := Default()

	tests := []struct {
		name     string
		category Category
	}{
		{"starterPack", CategoryKeyword},
		{"smash", CategoryKeyword},
		{"maybe", CategoryKeyword},
		{"pass", CategoryKeyword},
		{"grind", CategoryKeyword},
		{"yeet", CategoryKeyword},
		{"serve", CategoryKeyword},
		{"staph", CategoryKeyword},
		{"tryhard-flopped", CategoryKeyword},
		{"noCap", CategoryConstant},
		{"cap", CategoryConstant},
		{"ghosted", CategoryConstant},
		{"clout", CategoryDatatype},
		{"ratio", CategoryDatatype},
		{"tea", CategoryDatatype},
		{"mood", CategoryDatatype},
		{"gang", CategoryDatatype},
		{"wiki", CategoryDatatype},
		{"shoutout", CategoryBuiltinFunction},
		{"itsGiving", CategoryBuiltinFunction},
		{"spillTheTea", CategoryBuiltinFunction},
		{"chooseYourFighter", CategoryBuiltinFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := cat.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.category, e.Category)
			assert.NotEmpty(t, e.Documentation)
			assert.NotEmpty(t, e.InsertTemplate)
		})
	}
}

func TestAllOrdersSymbolsBeforeSnippets(t *testing.T) {
	cat := Default()
	all := cat.All()
	require.Len(t, all, cat.Len())

	seenSnippet := false
	for _, e := range all {
		if e.IsSnippet() {
			seenSnippet = true
			continue
		}
		assert.False(t, seenSnippet, "%s listed after a snippet", e.Name)
	}
	assert.Equal(t, "starterPack", all[0].Name)
	assert.Equal(t, "vibeblock", all[len(cat.Symbols())].Name)
	assert.Equal(t, all, cat.All(), "order must be stable")
}

func TestCatalogIsNotMutatedThroughCopies(t *testing.T) {
	cat := Default()

	all := cat.All()
	all[0].Name = "mutated"
	sig, ok := cat.Signature("shoutout")
	require.True(t, ok)
	sig.Parameters[0].Name = "mutated"

	e, ok := cat.Lookup("shoutout")
	require.True(t, ok)
	e.Signature.Parameters[0].Documentation = "mutated"

	assert.Equal(t, "starterPack", cat.All()[0].Name)
	again, _ := cat.Signature("shoutout")
	assert.Equal(t, "message", again.Parameters[0].Name)
	assert.Equal(t, "The message to display", again.Parameters[0].Documentation)
}

func TestResolvePrefersSymbolsThenSnippets(t *testing.T) {
	cat := Default()

	e, ok := cat.Resolve("smash")
	require.True(t, ok)
	assert.Equal(t, CategoryKeyword, e.Category)

	e, ok = cat.Resolve("vibeblock")
	require.True(t, ok)
	assert.Equal(t, CategorySnippet, e.Category)
	assert.True(t, e.HasPlaceholders())

	_, ok = cat.Resolve("Smash")
	assert.False(t, ok, "lookup is case-sensitive")
	_, ok = cat.Resolve("")
	assert.False(t, ok)
}

func TestSignatures(t *testing.T) {
	sigs := Default().Signatures()
	assert.Len(t, sigs, 8)

	for _, name := range []string{"shoutout", "itsGiving", "spillTheTea", "chooseYourFighter", "smash", "maybe", "grind", "yeet"} {
		sig, ok := sigs[name]
		require.True(t, ok, name)
		assert.Len(t, sig.Parameters, 1)
		assert.Contains(t, sig.Label, name+"(")
	}
	assert.Equal(t, "message", sigs["shoutout"].Parameters[0].Name)
}

func TestHyphenatedNames(t *testing.T) {
	assert.Equal(t, []string{"tryhard-flopped"}, Default().HyphenatedNames())
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	valid := Entry{Name: "vibe", Category: CategoryKeyword, Documentation: "d", InsertTemplate: "vibe"}

	tests := []struct {
		name     string
		symbols  []Entry
		snippets []Entry
		conflict bool
	}{
		{"bad name", []Entry{{Name: "1up", Category: CategoryKeyword, Documentation: "d", InsertTemplate: "x"}}, nil, false},
		{"trailing hyphen", []Entry{{Name: "try-", Category: CategoryKeyword, Documentation: "d", InsertTemplate: "x"}}, nil, false},
		{"no documentation", []Entry{{Name: "x", Category: CategoryKeyword, Documentation: " ", InsertTemplate: "x"}}, nil, false},
		{"no template", []Entry{{Name: "x", Category: CategoryKeyword, Documentation: "d"}}, nil, false},
		{"unknown category", []Entry{{Name: "x", Category: Category(42), Documentation: "d", InsertTemplate: "x"}}, nil, false},
		{"snippet among symbols", []Entry{{Name: "x", Category: CategorySnippet, Documentation: "d", InsertTemplate: "x"}}, nil, false},
		{"symbol among snippets", nil, []Entry{valid}, false},
		{"snippet signature", nil, []Entry{{Name: "x", Category: CategorySnippet, Documentation: "d", InsertTemplate: "x", Signature: &Signature{Label: "x()"}}}, false},
		{"duplicate symbol", []Entry{valid, valid}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.symbols, tt.snippets)
			require.Error(t, err)
			if tt.conflict {
				assert.True(t, errors.IsConflictError(err))
			} else {
				assert.True(t, errors.IsInvalidRequestError(err))
			}
		})
	}
}

func TestSnippetLabelMayShadowNothing(t *testing.T) {
	// a snippet label shares no namespace with symbols
	cat, err := New(
		[]Entry{{Name: "loop", Category: CategoryKeyword, Documentation: "kw", InsertTemplate: "loop"}},
		[]Entry{{Name: "loop", Category: CategorySnippet, Documentation: "snip", InsertTemplate: "loop {\n\t$0\n}"}},
	)
	require.NoError(t, err)

	e, ok := cat.Resolve("loop")
	require.True(t, ok)
	assert.Equal(t, "kw", e.Documentation)
	assert.Equal(t, 2, cat.Len())
}

func TestCategoryText(t *testing.T) {
	for c := CategoryKeyword; c <= CategorySnippet; c++ {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Category
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	_, err := ParseCategory("macro")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Equal(t, "unknown", Category(-1).String())
}

func TestDefaultReturnsIndependentCatalogs(t *testing.T) {
	a, b := Default(), Default()
	assert.NotSame(t, a, b)
	assert.Equal(t, a.All(), b.All())
	assert.Equal(t, LanguageVersion, a.Version().String())
}
