package lsp

import "github.com/vibelang/vibe/lang/catalog"

// CompletionTriggerCharacters re-invoke completion when typed. The empty
// string stands for an explicit, proactive request.
var CompletionTriggerCharacters = []string{"", " ", ".", "{", "("}

// CompletionCandidate is one completion suggestion.
type CompletionCandidate struct {
	Label          string           `json:"label"`
	Category       catalog.Category `json:"category"`
	Documentation  string           `json:"documentation"`
	InsertTemplate string           `json:"insertTemplate"`
	// Placeholders is set when InsertTemplate has cursor stops ($0, $1...)
	Placeholders bool  `json:"placeholders"`
	ReplaceRange Range `json:"replaceRange"`
}

// Complete returns every catalog entry, symbols first then snippets, as
// candidates for the cursor at (line, column). Nothing is filtered by
// context or by the typed prefix; ranking is the host's job.
//
// Each candidate's replace range ends at the cursor and starts the label's
// length to the left of it (never before column 1). The range is keyed to
// the label, not to what was typed, so it over-reaches when the typed
// prefix is shorter than the label.
func (s *Service) Complete(text string, line, column int) []CompletionCandidate {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}

	entries := s.snap().cat.All()
	out := make([]CompletionCandidate, len(entries))
	for i, e := range entries {
		out[i] = CompletionCandidate{
			Label:          e.Name,
			Category:       e.Category,
			Documentation:  e.Documentation,
			InsertTemplate: e.InsertTemplate,
			Placeholders:   e.HasPlaceholders(),
			ReplaceRange: Range{
				Start: Position{Line: line, Column: max(1, column-runeLen(e.Name))},
				End:   Position{Line: line, Column: column},
			},
		}
	}
	return out
}

// TypedPrefix returns the identifier characters immediately before the
// cursor. Hosts that want prefix filtering can use it; Complete does not.
func TypedPrefix(text string, line, column int) string {
	l, ok := lineAt(text, line)
	if !ok {
		return ""
	}
	end := columnOffset(l, column)
	start := end
	for start > 0 && isIdentByte(l[start-1]) {
		start--
	}
	return l[start:end]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
