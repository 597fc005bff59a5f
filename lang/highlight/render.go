package highlight

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vibelang/vibe/lang/lexer"
)

// RenderTokens renders a token stream as HTML spans styled from the theme.
// Text is HTML-escaped and whitespace is emitted unwrapped, so the output
// lines up exactly with the source inside a <pre>.
func RenderTokens(tokens []lexer.Token, theme Theme) string {
	var sb strings.Builder
	for _, tok := range tokens {
		text := html.EscapeString(tok.Text)
		if tok.Kind == lexer.Whitespace {
			sb.WriteString(text)
			continue
		}
		ch := ChannelFor(tok.Kind)
		fmt.Fprintf(&sb, `<span class="vibe-%s" style="%s">%s</span>`, ch, cssFor(theme.Style(ch)), text)
	}
	return sb.String()
}

func cssFor(s Style) string {
	css := "color: " + s.Color + ";"
	if s.Bold {
		css += " font-weight: bold;"
	}
	if s.Italic {
		css += " font-style: italic;"
	}
	return css
}

// ANSI renders token streams for terminals with lipgloss styles. Build one
// per theme and reuse it.
type ANSI struct {
	styles map[Channel]lipgloss.Style
}

// NewANSI prepares lipgloss styles for every channel of the theme.
func NewANSI(theme Theme) *ANSI {
	a := &ANSI{styles: make(map[Channel]lipgloss.Style)}
	for _, ch := range Channels() {
		s := theme.Style(ch)
		a.styles[ch] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Color)).
			Bold(s.Bold).
			Italic(s.Italic)
	}
	return a
}

// Render styles each token. Whitespace passes through untouched so tabs
// and newlines survive.
func (a *ANSI) Render(tokens []lexer.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Kind == lexer.Whitespace {
			sb.WriteString(tok.Text)
			continue
		}
		sb.WriteString(a.styles[ChannelFor(tok.Kind)].Render(tok.Text))
	}
	return sb.String()
}

// RenderANSI is a convenience wrapper around NewANSI(theme).Render.
func RenderANSI(tokens []lexer.Token, theme Theme) string {
	return NewANSI(theme).Render(tokens)
}
