// Package highlight turns Vibe source into styled output.
//
// Render is the static documentation highlighter: a line-by-line chain of
// pattern substitutions that is cheap and good enough for fixed,
// human-reviewed samples. The substitutions run over text that earlier
// substitutions already wrapped, so spans can nest oddly (a keyword inside
// a string literal gets its own span). Editable text goes through the
// lexer instead; see RenderTokens and RenderANSI.
package highlight

import (
	"regexp"
	"strings"
)

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order to every non-comment line.
var staticSubstitutions = []substitution{
	{regexp.MustCompile(`("(.*?)")`), `<span style="color: #CE9178;">$1</span>`},
	{regexp.MustCompile(`\b(starterPack|smash|pass|maybe|grind)\b`), `<span style="color: #C586C0; font-weight: bold;">$1</span>`},
	{regexp.MustCompile(`\b(shoutout)\b`), `<span style="color: #DCDCAA; font-weight: medium;">$1</span>`},
	{regexp.MustCompile(`\b(clout|ratio|gang|tea|mood|wiki)\b`), `<span style="color: #34D399; font-weight: medium;">$1</span>`},
	{regexp.MustCompile(`\b(cap|noCap|ghosted)\b`), `<span style="color: #3D9CD6; font-weight: medium;">$1</span>`},
	{regexp.MustCompile(`([{}()])`), `<span style="color: #60A5FA;">$1</span>`},
}

const (
	staticCommentOpen = `<span style="color: #34D399;">`
	staticDefaultOpen = `<span style="color: #78DCFE;">`
	spanClose         = `</span>`
)

// Render highlights a fixed code sample as HTML spans, one output line per
// input line. A line whose first non-space character is '~' is a comment
// and is not substituted. Input is not HTML-escaped.
func Render(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = renderStaticLine(line)
	}
	return strings.Join(lines, "\n")
}

func renderStaticLine(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "~") {
		return staticCommentOpen + line + spanClose
	}
	for _, s := range staticSubstitutions {
		line = s.pattern.ReplaceAllString(line, s.replacement)
	}
	return staticDefaultOpen + line + spanClose
}
