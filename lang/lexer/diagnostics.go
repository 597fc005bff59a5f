package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Severity of a lexical diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic codes.
const (
	CodeUnexpectedCharacter = "unexpected-character"
	CodeUnclosedString      = "unclosed-string"
	CodeInvalidEscape       = "invalid-escape"
)

// Diagnostic is a lexical problem. It never blocks tokenization.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// punctuation the language uses but the lexer has no rule for
const punctuation = ";,.:"

// Diagnose tokenizes text and reports lexical problems in source order.
func (l *Lexer) Diagnose(text string) []Diagnostic {
	return DiagnoseTokens(l.Tokenize(text))
}

// DiagnoseTokens reports lexical problems found in a token stream.
func DiagnoseTokens(tokens []Token) []Diagnostic {
	var diags []Diagnostic
	for _, tok := range tokens {
		switch tok.Kind {
		case Invalid:
			if len(tok.Text) == 1 && strings.Contains(punctuation, tok.Text) {
				continue
			}
			diags = append(diags, Diagnostic{
				Range:    tok.Range,
				Severity: SeverityError,
				Code:     CodeUnexpectedCharacter,
				Message:  fmt.Sprintf("unexpected character %q", tok.Text),
			})
		case String:
			diags = append(diags, stringDiagnostics(tok)...)
		}
	}
	return diags
}

func stringDiagnostics(tok Token) []Diagnostic {
	var diags []Diagnostic
	text := tok.Text
	closed := false

	for j := 1; j < len(text); {
		switch text[j] {
		case '\\':
			if j+1 >= len(text) {
				j++
				continue
			}
			r, size := utf8.DecodeRuneInString(text[j+1:])
			if !strings.ContainsRune(`"\nt`, r) {
				start := within(tok.Range.Start, text[:j])
				diags = append(diags, Diagnostic{
					Range:    Range{Start: start, End: within(start, text[j:j+1+size])},
					Severity: SeverityWarning,
					Code:     CodeInvalidEscape,
					Message:  fmt.Sprintf("invalid escape sequence \\%c", r),
				})
			}
			j += 1 + size
		case '"':
			closed = j == len(text)-1
			j++
		default:
			j++
		}
	}

	if !closed {
		diags = append(diags, Diagnostic{
			Range:    tok.Range,
			Severity: SeverityError,
			Code:     CodeUnclosedString,
			Message:  "unclosed string literal",
		})
	}
	return diags
}
