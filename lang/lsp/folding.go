package lsp

import (
	"sort"

	"github.com/vibelang/vibe/lang/lexer"
)

// FoldingRange is a foldable block. StartLine holds the opening brace and
// EndLine is the last line hidden when folded, so the closing brace stays
// visible. Both are 1-based.
type FoldingRange struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// FoldingRanges pairs brace tokens. Braces inside strings and comments are
// not tokens, so they never fold; unbalanced braces are ignored.
func (s *Service) FoldingRanges(text string) []FoldingRange {
	var open []int
	var ranges []FoldingRange

	for _, tok := range s.Tokenize(text) {
		if tok.Kind != lexer.Bracket {
			continue
		}
		switch tok.Text {
		case "{":
			open = append(open, tok.Range.Start.Line)
		case "}":
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if end := tok.Range.Start.Line - 1; end > start {
				ranges = append(ranges, FoldingRange{StartLine: start, EndLine: end})
			}
		}
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine != ranges[j].StartLine {
			return ranges[i].StartLine < ranges[j].StartLine
		}
		return ranges[i].EndLine > ranges[j].EndLine
	})
	return ranges
}
