package lsp

import (
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lexer"
)

// LSP semantic token type indices.
// Must match the order of SemanticTokenTypes.
const (
	TokenTypeKeyword    uint32 = 0
	TokenTypeEnumMember uint32 = 1 // constants
	TokenTypeString     uint32 = 2
	TokenTypeNumber     uint32 = 3
	TokenTypeComment    uint32 = 4
	TokenTypeOperator   uint32 = 5 // operators and brackets
	TokenTypeFunction   uint32 = 6
	TokenTypeVariable   uint32 = 7 // identifiers
	TokenTypeType       uint32 = 8 // datatypes
)

// SemanticTokenTypes is the legend sent to LSP clients, one entry per
// style channel in highlight.Channels order.
var SemanticTokenTypes = []string{
	"keyword",
	"enumMember",
	"string",
	"number",
	"comment",
	"operator",
	"function",
	"variable",
	"type",
}

var channelTokenTypes = map[highlight.Channel]uint32{
	highlight.ChannelKeyword:    TokenTypeKeyword,
	highlight.ChannelConstant:   TokenTypeEnumMember,
	highlight.ChannelString:     TokenTypeString,
	highlight.ChannelNumber:     TokenTypeNumber,
	highlight.ChannelComment:    TokenTypeComment,
	highlight.ChannelOperator:   TokenTypeOperator,
	highlight.ChannelFunction:   TokenTypeFunction,
	highlight.ChannelIdentifier: TokenTypeVariable,
	highlight.ChannelDatatype:   TokenTypeType,
}

// SemanticTokens encodes the tokens of text in the LSP relative format:
// 5-tuples of (deltaLine, deltaStart, length, tokenType, modifiers), each
// position relative to the previous token. Lines are 0-based; characters
// and lengths count UTF-16 code units. Whitespace and invalid tokens are
// skipped.
func (s *Service) SemanticTokens(text string) []uint32 {
	return EncodeSemanticTokens(s.Tokenize(text))
}

// EncodeSemanticTokens encodes a complete token stream as produced by the
// lexer. Skipped tokens still advance the UTF-16 column, so tokens must
// cover the input from its start.
func EncodeSemanticTokens(tokens []lexer.Token) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevChar, col uint32

	for _, tok := range tokens {
		char := col
		length := uint32(0)
		for _, r := range tok.Text {
			if r == '\n' {
				col = 0
				continue
			}
			n := uint32(utf16Len(r))
			col += n
			length += n
		}

		if tok.Kind == lexer.Whitespace || tok.Kind == lexer.Invalid {
			continue
		}
		line := uint32(tok.Range.Start.Line - 1)

		deltaStart := char
		if line == prevLine {
			deltaStart = char - prevChar
		}
		data = append(data, line-prevLine, deltaStart, length, channelTokenTypes[highlight.ChannelFor(tok.Kind)], 0)

		prevLine, prevChar = line, char
	}
	return data
}
