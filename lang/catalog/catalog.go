// Package catalog holds the Vibe symbol catalog: every keyword, built-in
// function, constant and datatype name with its documentation and
// insertion template, plus the multi-line snippet templates.
//
// A Catalog is immutable once built. Callers that need different contents
// build a new Catalog (see Extend) and swap it in; nothing mutates a
// Catalog that requests may be reading.
package catalog

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/vibelang/vibe/errors"
)

// LanguageVersion is the version of the Vibe lexical grammar described by
// the built-in catalog. Extensions declare a semver constraint against it.
const LanguageVersion = "1.0.0"

// Category classifies a catalog entry. Every entry has exactly one.
type Category int

const (
	CategoryKeyword Category = iota
	CategoryBuiltinFunction
	CategoryConstant
	CategoryDatatype
	CategorySnippet
)

var categoryNames = [...]string{
	CategoryKeyword:         "keyword",
	CategoryBuiltinFunction: "builtin-function",
	CategoryConstant:        "constant",
	CategoryDatatype:        "datatype",
	CategorySnippet:         "snippet",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory converts a category name back into a Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, errors.WithHint(
		errors.NewInvalidRequestError("unknown category %q", s),
		"use one of: "+strings.Join(categoryNames[:], ", "),
	)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parameter documents one argument of a callable construct.
type Parameter struct {
	Name          string `json:"name" yaml:"name"`
	Documentation string `json:"documentation" yaml:"documentation"`
}

// Signature describes a callable built-in for signature help.
type Signature struct {
	Label         string      `json:"label" yaml:"label"`
	Documentation string      `json:"documentation" yaml:"documentation"`
	Parameters    []Parameter `json:"parameters" yaml:"parameters"`
}

// Entry is one catalog row.
type Entry struct {
	Name           string     `json:"name" yaml:"name"`
	Category       Category   `json:"category" yaml:"category"`
	Documentation  string     `json:"documentation" yaml:"documentation"`
	InsertTemplate string     `json:"insertTemplate" yaml:"insert_template"`
	Signature      *Signature `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// IsSnippet reports whether the entry is a snippet template rather than a
// language token.
func (e Entry) IsSnippet() bool {
	return e.Category == CategorySnippet
}

var placeholderPattern = regexp.MustCompile(`\$\d+`)

// HasPlaceholders reports whether the insertion template contains cursor
// stops ($0, $1, ...).
func (e Entry) HasPlaceholders() bool {
	return placeholderPattern.MatchString(e.InsertTemplate)
}

func (e Entry) clone() Entry {
	if e.Signature != nil {
		sig := *e.Signature
		sig.Parameters = append([]Parameter(nil), e.Signature.Parameters...)
		e.Signature = &sig
	}
	return e
}

// namePattern accepts identifiers optionally joined by hyphens
// (tryhard-flopped).
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(-[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidName reports whether s can be a catalog name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// Catalog is the immutable symbol table shared by the lexer, completion,
// hover and signature help.
type Catalog struct {
	version  *semver.Version
	symbols  []Entry
	snippets []Entry
	symbol   map[string]int
	snippet  map[string]int
}

// New builds a catalog from symbol entries and snippet entries, both in
// declaration order. Symbol names must be unique across all non-snippet
// categories; snippet labels must be unique among snippets.
func New(symbols, snippets []Entry) (*Catalog, error) {
	c := &Catalog{
		version:  semver.MustParse(LanguageVersion),
		symbols:  make([]Entry, 0, len(symbols)),
		snippets: make([]Entry, 0, len(snippets)),
		symbol:   make(map[string]int, len(symbols)),
		snippet:  make(map[string]int, len(snippets)),
	}

	for _, e := range symbols {
		if err := validateEntry(e); err != nil {
			return nil, err
		}
		if e.IsSnippet() {
			return nil, errors.WithHint(
				errors.NewInvalidRequestError("%q is a snippet but was listed with the symbols", e.Name),
				"pass snippets in the second argument",
			)
		}
		if _, dup := c.symbol[e.Name]; dup {
			return nil, errors.NewConflictError("symbol %q is defined more than once", e.Name)
		}
		c.symbol[e.Name] = len(c.symbols)
		c.symbols = append(c.symbols, e.clone())
	}

	for _, e := range snippets {
		if err := validateEntry(e); err != nil {
			return nil, err
		}
		if !e.IsSnippet() {
			return nil, errors.NewInvalidRequestError("%q has category %s but was listed with the snippets", e.Name, e.Category)
		}
		if _, dup := c.snippet[e.Name]; dup {
			return nil, errors.NewConflictError("snippet %q is defined more than once", e.Name)
		}
		c.snippet[e.Name] = len(c.snippets)
		c.snippets = append(c.snippets, e.clone())
	}

	return c, nil
}

func validateEntry(e Entry) error {
	if !ValidName(e.Name) {
		return errors.WithHint(
			errors.NewInvalidRequestError("invalid name %q", e.Name),
			"names start with a letter or '_' and may contain letters, digits, '_' and single '-' separators",
		)
	}
	if e.Category < CategoryKeyword || e.Category > CategorySnippet {
		return errors.NewInvalidRequestError("%q has an unknown category", e.Name)
	}
	if strings.TrimSpace(e.Documentation) == "" {
		return errors.NewInvalidRequestError("%q has no documentation", e.Name)
	}
	if e.InsertTemplate == "" {
		return errors.NewInvalidRequestError("%q has no insertion template", e.Name)
	}
	if e.Signature != nil && e.IsSnippet() {
		return errors.NewInvalidRequestError("snippet %q cannot carry a signature", e.Name)
	}
	return nil
}

// Version returns the language version this catalog describes.
func (c *Catalog) Version() *semver.Version {
	return c.version
}

// Len returns the number of symbols plus snippets.
func (c *Catalog) Len() int {
	return len(c.symbols) + len(c.snippets)
}

// Lookup finds a keyword, built-in, constant or datatype by exact name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.symbol[name]
	if !ok {
		return Entry{}, false
	}
	return c.symbols[i].clone(), true
}

// LookupSnippet finds a snippet by its label.
func (c *Catalog) LookupSnippet(label string) (Entry, bool) {
	i, ok := c.snippet[label]
	if !ok {
		return Entry{}, false
	}
	return c.snippets[i].clone(), true
}

// Resolve looks a word up against symbols first, then snippet labels.
// Matching is exact and case-sensitive.
func (c *Catalog) Resolve(word string) (Entry, bool) {
	if e, ok := c.Lookup(word); ok {
		return e, true
	}
	return c.LookupSnippet(word)
}

// All returns every entry: symbols in declaration order, then snippets in
// declaration order. The slice is a fresh copy.
func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, c.Len())
	for _, e := range c.symbols {
		out = append(out, e.clone())
	}
	for _, e := range c.snippets {
		out = append(out, e.clone())
	}
	return out
}

// Symbols returns the non-snippet entries in declaration order.
func (c *Catalog) Symbols() []Entry {
	out := make([]Entry, len(c.symbols))
	for i, e := range c.symbols {
		out[i] = e.clone()
	}
	return out
}

// Snippets returns the snippet entries in declaration order.
func (c *Catalog) Snippets() []Entry {
	out := make([]Entry, len(c.snippets))
	for i, e := range c.snippets {
		out[i] = e.clone()
	}
	return out
}

// Names returns the symbol names of one category in declaration order.
func (c *Catalog) Names(category Category) []string {
	var names []string
	for _, e := range c.symbols {
		if e.Category == category {
			names = append(names, e.Name)
		}
	}
	return names
}

// CategoryOf returns the category of a symbol name.
func (c *Catalog) CategoryOf(name string) (Category, bool) {
	i, ok := c.symbol[name]
	if !ok {
		return 0, false
	}
	return c.symbols[i].Category, true
}

// HyphenatedNames returns symbol names containing '-', longest first, so
// the lexer can match them before splitting on the operator.
func (c *Catalog) HyphenatedNames() []string {
	var names []string
	for _, e := range c.symbols {
		if strings.Contains(e.Name, "-") {
			names = append(names, e.Name)
		}
	}
	// insertion sort: the list is tiny
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && len(names[j]) > len(names[j-1]); j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

// Signature returns the signature for a callable name, if one is authored.
func (c *Catalog) Signature(name string) (Signature, bool) {
	i, ok := c.symbol[name]
	if !ok || c.symbols[i].Signature == nil {
		return Signature{}, false
	}
	return *c.symbols[i].clone().Signature, true
}

// Signatures returns every authored signature keyed by callee name.
func (c *Catalog) Signatures() map[string]Signature {
	out := make(map[string]Signature)
	for _, e := range c.symbols {
		if e.Signature != nil {
			out[e.Name] = *e.clone().Signature
		}
	}
	return out
}
