// Package lexer splits Vibe source into classified tokens.
//
// Tokenization is total: every byte of the input lands in exactly one
// token, and input no rule accepts becomes an Invalid token. Word
// classification comes from the catalog the Lexer was built with, so a
// name added to the catalog is highlighted without touching this package.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/vibelang/vibe/lang/catalog"
)

// wordRule maps one catalog category to a token kind. Rules are tried in
// slice order.
type wordRule struct {
	category catalog.Category
	kind     TokenKind
	names    map[string]struct{}
}

// Lexer tokenizes Vibe source against a fixed catalog. It holds no mutable
// state and is safe for concurrent use.
type Lexer struct {
	rules      []wordRule
	hyphenated []string
}

// New builds a lexer whose word rules are derived from cat.
func New(cat *catalog.Catalog) *Lexer {
	order := []struct {
		category catalog.Category
		kind     TokenKind
	}{
		{catalog.CategoryKeyword, Keyword},
		{catalog.CategoryDatatype, Datatype},
		{catalog.CategoryBuiltinFunction, Function},
		{catalog.CategoryConstant, Constant},
	}

	l := &Lexer{hyphenated: cat.HyphenatedNames()}
	for _, o := range order {
		names := make(map[string]struct{})
		for _, n := range cat.Names(o.category) {
			names[n] = struct{}{}
		}
		l.rules = append(l.rules, wordRule{category: o.category, kind: o.kind, names: names})
	}
	return l
}

// Words returns every name the lexer classifies, with the kind it assigns.
func (l *Lexer) Words() map[string]TokenKind {
	out := make(map[string]TokenKind)
	for _, r := range l.rules {
		for n := range r.names {
			if _, seen := out[n]; !seen {
				out[n] = r.kind
			}
		}
	}
	return out
}

func (l *Lexer) classify(word string) TokenKind {
	for _, r := range l.rules {
		if _, ok := r.names[word]; ok {
			return r.kind
		}
	}
	return Identifier
}

// Tokenize splits text into contiguous tokens covering all of it. Text may
// be a single line or a whole document.
func (l *Lexer) Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text)/3+1)
	pt := newPositionTracker()

	for i := 0; i < len(text); {
		kind, end := l.scan(text, i)
		start := pt.mark()
		pt.advance(text[i:end])
		tokens = append(tokens, Token{
			Kind:  kind,
			Text:  text[i:end],
			Start: i,
			End:   end,
			Range: Range{Start: start, End: pt.mark()},
		})
		i = end
	}
	return tokens
}

// scan returns the kind and end offset of the token starting at i. end is
// always greater than i.
func (l *Lexer) scan(text string, i int) (TokenKind, int) {
	c := text[i]
	switch {
	case c == '~':
		return Comment, lineEnd(text, i)
	case c == '"':
		end, _ := scanString(text, i)
		return String, end
	case c == '\\':
		// an escape outside a string; swallow the escaped rune so "\~" does
		// not open a comment
		end := i + 1
		if end < len(text) && text[end] != '\n' {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		return Invalid, end
	case isSpace(c):
		end := i + 1
		for end < len(text) && isSpace(text[end]) {
			end++
		}
		return Whitespace, end
	case isDigit(c):
		return Number, scanNumber(text, i)
	case isWordStart(c):
		for _, name := range l.hyphenated {
			if strings.HasPrefix(text[i:], name) && !continuesWord(text, i+len(name)) {
				return l.classify(name), i + len(name)
			}
		}
		end := i + 1
		for end < len(text) && (isWordChar(text[end]) || text[end] == '$') {
			end++
		}
		return l.classify(text[i:end]), end
	case strings.IndexByte("{}()[]", c) >= 0:
		return Bracket, i + 1
	case isOperator(c):
		end := i + 1
		for end < len(text) && isOperator(text[end]) {
			end++
		}
		return Operator, end
	}

	_, size := utf8.DecodeRuneInString(text[i:])
	return Invalid, i + size
}

func lineEnd(text string, i int) int {
	if n := strings.IndexByte(text[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(text)
}

// scanString scans a double-quoted literal starting at the quote at i. An
// unterminated literal runs to the end of the line, excluding the newline.
func scanString(text string, i int) (end int, closed bool) {
	j := i + 1
	for j < len(text) {
		switch text[j] {
		case '\\':
			if j+1 >= len(text) || text[j+1] == '\n' {
				return j + 1, false
			}
			_, size := utf8.DecodeRuneInString(text[j+1:])
			j += 1 + size
		case '"':
			return j + 1, true
		case '\n':
			return j, false
		default:
			j++
		}
	}
	return j, false
}

func scanNumber(text string, i int) int {
	end := i
	for end < len(text) && isDigit(text[end]) {
		end++
	}
	if end+1 < len(text) && text[end] == '.' && isDigit(text[end+1]) {
		end++
		for end < len(text) && isDigit(text[end]) {
			end++
		}
	}
	return end
}

func continuesWord(text string, i int) bool {
	return i < len(text) && (isWordChar(text[i]) || text[i] == '$')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool { return isWordStart(c) || isDigit(c) }

func isOperator(c byte) bool { return strings.IndexByte("+-*/=<>!&|", c) >= 0 }
