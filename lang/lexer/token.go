package lexer

import "fmt"

// TokenKind classifies a token.
type TokenKind int

const (
	Keyword TokenKind = iota
	Datatype
	Function
	Constant
	String
	Number
	Comment
	Bracket
	Operator
	Identifier
	Whitespace
	Invalid
)

var kindNames = [...]string{
	Keyword:    "keyword",
	Datatype:   "datatype",
	Function:   "function",
	Constant:   "constant",
	String:     "string",
	Number:     "number",
	Comment:    "comment",
	Bracket:    "bracket",
	Operator:   "operator",
	Identifier: "identifier",
	Whitespace: "whitespace",
	Invalid:    "invalid",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return kindNames[k]
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Kinds lists every token kind in declaration order.
func Kinds() []TokenKind {
	out := make([]TokenKind, len(kindNames))
	for i := range kindNames {
		out[i] = TokenKind(i)
	}
	return out
}

// Token is a classified slice of the input. Start and End are byte offsets
// with End exclusive; Text == input[Start:End].
type Token struct {
	Kind  TokenKind `json:"kind"`
	Text  string    `json:"text"`
	Start int       `json:"start"`
	End   int       `json:"end"`
	Range Range     `json:"range"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q [%d,%d)", t.Kind, t.Text, t.Start, t.End)
}
