package lexer

// Position is a point in source text.
// Lines are 1-based, characters are 0-based rune offsets within the line.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
	Offset    int `json:"offset"` // byte offset in the whole source
}

// Range is a half-open span [Start, End).
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// positionTracker walks source text and reports the position reached.
type positionTracker struct {
	line      int
	character int
	offset    int
}

func newPositionTracker() *positionTracker {
	return &positionTracker{line: 1}
}

// advance moves past text, which must be the next slice of the source.
func (pt *positionTracker) advance(text string) {
	for _, ch := range text {
		if ch == '\n' {
			pt.line++
			pt.character = 0
		} else {
			pt.character++
		}
	}
	pt.offset += len(text)
}

func (pt *positionTracker) mark() Position {
	return Position{Line: pt.line, Character: pt.character, Offset: pt.offset}
}

// within returns the position reached after consuming prefix, starting from
// start. prefix must not contain a newline.
func within(start Position, prefix string) Position {
	n := 0
	for range prefix {
		n++
	}
	return Position{Line: start.Line, Character: start.Character + n, Offset: start.Offset + len(prefix)}
}
