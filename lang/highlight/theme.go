package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/lexer"
)

// Channel is a named style slot. Hosts map channels to concrete colours.
type Channel string

const (
	ChannelKeyword    Channel = "keyword"
	ChannelConstant   Channel = "constant"
	ChannelString     Channel = "string"
	ChannelNumber     Channel = "number"
	ChannelComment    Channel = "comment"
	ChannelOperator   Channel = "operator"
	ChannelFunction   Channel = "function"
	ChannelIdentifier Channel = "identifier"
	ChannelDatatype   Channel = "datatype"
)

// Channels lists every style channel.
func Channels() []Channel {
	return []Channel{
		ChannelKeyword, ChannelConstant, ChannelString, ChannelNumber, ChannelComment,
		ChannelOperator, ChannelFunction, ChannelIdentifier, ChannelDatatype,
	}
}

var kindChannels = map[lexer.TokenKind]Channel{
	lexer.Keyword:    ChannelKeyword,
	lexer.Datatype:   ChannelDatatype,
	lexer.Function:   ChannelFunction,
	lexer.Constant:   ChannelConstant,
	lexer.String:     ChannelString,
	lexer.Number:     ChannelNumber,
	lexer.Comment:    ChannelComment,
	lexer.Bracket:    ChannelOperator,
	lexer.Operator:   ChannelOperator,
	lexer.Identifier: ChannelIdentifier,
	lexer.Whitespace: ChannelIdentifier,
	lexer.Invalid:    ChannelIdentifier,
}

// ChannelFor returns the style channel of a token kind. Every kind maps to
// exactly one channel.
func ChannelFor(kind lexer.TokenKind) Channel {
	if ch, ok := kindChannels[kind]; ok {
		return ch
	}
	return ChannelIdentifier
}

// ChannelMap returns the kind to channel mapping keyed by kind name.
func ChannelMap() map[string]Channel {
	out := make(map[string]Channel, len(kindChannels))
	for k, ch := range kindChannels {
		out[k.String()] = ch
	}
	return out
}

// Style is how one channel is drawn.
type Style struct {
	Color  string `json:"color" yaml:"color"` // #RRGGBB
	Bold   bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
}

func (s Style) String() string {
	parts := []string{s.Color}
	if s.Bold {
		parts = append(parts, "bold")
	}
	if s.Italic {
		parts = append(parts, "italic")
	}
	return strings.Join(parts, " ")
}

var colorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// ParseStyle parses "#RRGGBB [bold] [italic]". The leading '#' is optional.
func ParseStyle(s string) (Style, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Style{}, errors.NewInvalidRequestError("empty style")
	}
	if !colorPattern.MatchString(fields[0]) {
		return Style{}, errors.WithHint(
			errors.NewInvalidRequestError("invalid colour %q", fields[0]),
			"colours are six hex digits, e.g. #C586C0",
		)
	}
	style := Style{Color: "#" + strings.ToUpper(strings.TrimPrefix(fields[0], "#"))}
	for _, f := range fields[1:] {
		switch strings.ToLower(f) {
		case "bold":
			style.Bold = true
		case "italic":
			style.Italic = true
		default:
			return Style{}, errors.NewInvalidRequestError("unknown style modifier %q", f)
		}
	}
	return style, nil
}

// Theme assigns a style to every channel.
type Theme struct {
	Name   string
	Styles map[Channel]Style
}

// DefaultThemeName is the name of the built-in theme.
const DefaultThemeName = "vibe-purple"

// DefaultTheme returns the built-in vibe-purple palette.
func DefaultTheme() Theme {
	return Theme{
		Name: DefaultThemeName,
		Styles: map[Channel]Style{
			ChannelKeyword:    {Color: "#C586C0", Bold: true},
			ChannelConstant:   {Color: "#569CD6"},
			ChannelString:     {Color: "#CE9178"},
			ChannelNumber:     {Color: "#B5CEA8"},
			ChannelComment:    {Color: "#6A9955", Italic: true},
			ChannelOperator:   {Color: "#D4D4D4"},
			ChannelFunction:   {Color: "#DCDCAA"},
			ChannelIdentifier: {Color: "#9CDCFE"},
			ChannelDatatype:   {Color: "#4EC9B0", Italic: true},
		},
	}
}

// Style returns the style of a channel, falling back to the identifier
// style.
func (t Theme) Style(ch Channel) Style {
	if s, ok := t.Styles[ch]; ok {
		return s
	}
	return t.Styles[ChannelIdentifier]
}

// WithOverrides returns a copy of t with the given channel styles replaced.
// Keys are channel names, values are ParseStyle strings.
func (t Theme) WithOverrides(overrides map[string]string) (Theme, error) {
	out := Theme{Name: t.Name, Styles: make(map[Channel]Style, len(t.Styles))}
	for ch, s := range t.Styles {
		out.Styles[ch] = s
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	known := make(map[Channel]bool)
	for _, ch := range Channels() {
		known[ch] = true
	}
	for _, k := range keys {
		ch := Channel(strings.ToLower(k))
		if !known[ch] {
			return Theme{}, errors.WithHint(
				errors.NewInvalidRequestError("unknown style channel %q", k),
				"channels: keyword, constant, string, number, comment, operator, function, identifier, datatype",
			)
		}
		style, err := ParseStyle(overrides[k])
		if err != nil {
			return Theme{}, errors.Wrapf(err, "theme.%s", k)
		}
		out.Styles[ch] = style
	}
	if len(overrides) > 0 {
		out.Name = t.Name + "+custom"
	}
	return out, nil
}
