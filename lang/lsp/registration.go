package lsp

import "github.com/vibelang/vibe/lang/highlight"

// LanguageID is the id hosts register Vibe under.
const LanguageID = "vibe"

// FileExtensions are the source file extensions of Vibe.
var FileExtensions = []string{".vibe"}

// Pair is an opening/closing character pair.
type Pair struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// LanguageConfiguration is the editor-side behaviour of the language.
type LanguageConfiguration struct {
	LineComment      string            `json:"lineComment"`
	Brackets         [][2]string       `json:"brackets"`
	AutoClosingPairs []Pair            `json:"autoClosingPairs"`
	SurroundingPairs []Pair            `json:"surroundingPairs"`
	FoldingMarkers   map[string]string `json:"foldingMarkers"`
	WordPattern      string            `json:"wordPattern"`
}

// Registration is everything a text-editing host needs to declare Vibe as
// a language: providers are reached through the Service, this carries the
// static half.
type Registration struct {
	ID                          string                       `json:"id"`
	Extensions                  []string                     `json:"extensions"`
	CompletionTriggerCharacters []string                     `json:"completionTriggerCharacters"`
	SignatureTriggerCharacters  []string                     `json:"signatureTriggerCharacters"`
	TokenChannels               map[string]highlight.Channel `json:"tokenChannels"`
	SemanticTokenTypes          []string                     `json:"semanticTokenTypes"`
	Configuration               LanguageConfiguration        `json:"configuration"`
}

// NewRegistration builds the registration descriptor.
func NewRegistration() Registration {
	pairs := func() []Pair {
		return []Pair{{"{", "}"}, {"[", "]"}, {"(", ")"}, {`"`, `"`}}
	}
	return Registration{
		ID:                          LanguageID,
		Extensions:                  append([]string(nil), FileExtensions...),
		CompletionTriggerCharacters: append([]string(nil), CompletionTriggerCharacters...),
		SignatureTriggerCharacters:  append([]string(nil), SignatureTriggerCharacters...),
		TokenChannels:               highlight.ChannelMap(),
		SemanticTokenTypes:          append([]string(nil), SemanticTokenTypes...),
		Configuration: LanguageConfiguration{
			LineComment:      "~",
			Brackets:         [][2]string{{"{", "}"}, {"[", "]"}, {"(", ")"}},
			AutoClosingPairs: pairs(),
			SurroundingPairs: pairs(),
			FoldingMarkers: map[string]string{
				"start": `^\s*\{\s*$`,
				"end":   `^\s*\}\s*$`,
			},
			WordPattern: `(-?\d*\.\d\w*)|([^` + "`" + `~!@#%^&*()\-=+\[{\]}\\|;:'",.<>/?\s]+)`,
		},
	}
}
