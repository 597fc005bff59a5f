package lsp

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vibelang/vibe/lang/catalog"
)

// HoverResult is the documentation shown for the word under the cursor.
type HoverResult struct {
	Label         string           `json:"label"`
	Category      catalog.Category `json:"category"`
	Documentation string           `json:"documentation"`
	Range         Range            `json:"range"`
}

// Markdown renders the hover as a bold label followed by the documentation.
func (h HoverResult) Markdown() string {
	return fmt.Sprintf("**%s**\n\n%s", h.Label, h.Documentation)
}

// characters that end a word for hover purposes
const wordSeparators = "`~!@#%^&*()-=+[{]}\\|;:'\",.<>/?"

func isWordRune(r rune) bool {
	return !unicode.IsSpace(r) && !strings.ContainsRune(wordSeparators, r)
}

// Hover looks up the word at (line, column) in the catalog, symbols first
// and then snippet labels. It returns nil when there is no word there or
// the word is unknown.
func (s *Service) Hover(text string, line, column int) *HoverResult {
	cat := s.snap().cat

	l, ok := lineAt(text, line)
	if !ok {
		return nil
	}

	// hyphenated names span a separator, so try them first
	for _, name := range cat.HyphenatedNames() {
		if start, ok := coveringMatch(l, name, column); ok {
			return hoverFor(cat, name, line, start)
		}
	}

	word, start, ok := wordAt(l, column)
	if !ok {
		return nil
	}
	return hoverFor(cat, word, line, start)
}

func hoverFor(cat *catalog.Catalog, word string, line, startColumn int) *HoverResult {
	e, ok := cat.Resolve(word)
	if !ok {
		return nil
	}
	return &HoverResult{
		Label:         e.Name,
		Category:      e.Category,
		Documentation: e.Documentation,
		Range: Range{
			Start: Position{Line: line, Column: startColumn},
			End:   Position{Line: line, Column: startColumn + runeLen(word)},
		},
	}
}

// wordAt finds the word containing column, or ending right before it, and
// returns it with its starting column.
func wordAt(line string, column int) (string, int, bool) {
	runes := []rune(line)
	i := column - 1
	if i < 0 || i > len(runes) {
		return "", 0, false
	}
	if i == len(runes) || !isWordRune(runes[i]) {
		if i == 0 || !isWordRune(runes[i-1]) {
			return "", 0, false
		}
		i--
	}

	start, end := i, i+1
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end]), start + 1, true
}

// coveringMatch reports whether an occurrence of name that stands alone as
// a word covers column (inclusive of the column just past its end), and
// returns the occurrence's starting column.
func coveringMatch(line, name string, column int) (int, bool) {
	for from := 0; from < len(line); {
		idx := strings.Index(line[from:], name)
		if idx < 0 {
			return 0, false
		}
		idx += from
		end := idx + len(name)

		before, _ := utf8.DecodeLastRuneInString(line[:idx])
		after, _ := utf8.DecodeRuneInString(line[end:])
		standalone := (idx == 0 || !isIdentRune(before)) && (end == len(line) || !isIdentRune(after))

		startCol := runeLen(line[:idx]) + 1
		endCol := startCol + runeLen(name)
		if standalone && column >= startCol && column <= endCol {
			return startCol, true
		}
		from = idx + 1
	}
	return 0, false
}

func isIdentRune(r rune) bool {
	return r < utf8.RuneSelf && isIdentByte(byte(r))
}
