package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count runes, and column
// n sits before the n-th rune of the line.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans two positions on possibly different lines.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// lineAt returns line n (1-based) of text without its terminator.
func lineAt(text string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	for i := 1; i < n; i++ {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			return "", false
		}
		text = text[nl+1:]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return strings.TrimSuffix(text, "\r"), true
}

// offsetAt converts a position into a byte offset in text, clamping the
// column to the line. ok is false when the line does not exist.
func offsetAt(text string, pos Position) (int, bool) {
	if pos.Line < 1 {
		return 0, false
	}
	offset := 0
	for i := 1; i < pos.Line; i++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return 0, false
		}
		offset += nl + 1
	}
	line, _ := lineAt(text[offset:], 1)
	return offset + columnOffset(line, pos.Column), true
}

// columnOffset returns the byte offset of column col (1-based) in line,
// clamped to [0, len(line)].
func columnOffset(line string, col int) int {
	if col <= 1 {
		return 0
	}
	i := 0
	for n := 1; n < col && i < len(line); n++ {
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
	}
	return i
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// UTF16Column returns the 0-based UTF-16 offset of pos within its line,
// the unit LSP clients count characters in. Columns past the end of the
// line clamp to it.
func UTF16Column(text string, pos Position) int {
	line, ok := lineAt(text, pos.Line)
	if !ok {
		return max(0, pos.Column-1)
	}
	units, col := 0, 1
	for _, r := range line {
		if col >= pos.Column {
			break
		}
		units += utf16Len(r)
		col++
	}
	return units
}

// ColumnFromUTF16 converts a 0-based UTF-16 offset on line (1-based) to a
// rune column. An offset inside a surrogate pair lands after the pair.
func ColumnFromUTF16(text string, line, char int) int {
	l, ok := lineAt(text, line)
	if !ok {
		return char + 1
	}
	units, col := 0, 1
	for _, r := range l {
		if units >= char {
			break
		}
		units += utf16Len(r)
		col++
	}
	return col
}
