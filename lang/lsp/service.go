// Package lsp provides language intelligence for Vibe source: completion,
// hover, signature help, semantic tokens, folding ranges and lexical
// diagnostics.
//
// The Service is transport-agnostic. The server package wraps it in glsp
// handlers for LSP over WebSocket and stdio, and lang/tools exposes it as
// MCP tools. Positions at this layer are 1-based lines and columns, the
// way editors display them; hosts convert at their boundary.
package lsp

import (
	"sync"
	"sync/atomic"

	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/lexer"
)

// snapshot pairs a catalog with the lexer built from it so a request never
// sees one without the other.
type snapshot struct {
	cat *catalog.Catalog
	lex *lexer.Lexer
}

func newSnapshot(cat *catalog.Catalog) *snapshot {
	return &snapshot{cat: cat, lex: lexer.New(cat)}
}

// Service answers language queries against the current catalog. Queries
// are pure and may run concurrently; catalog replacement is serialized and
// never disturbs a query already running.
type Service struct {
	reload  sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewService creates a language service over cat.
func NewService(cat *catalog.Catalog) *Service {
	s := &Service{}
	s.current.Store(newSnapshot(cat))
	return s
}

func (s *Service) snap() *snapshot {
	return s.current.Load()
}

// Catalog returns the catalog queries currently run against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.snap().cat
}

// Swap installs a new catalog and returns the previous one.
func (s *Service) Swap(cat *catalog.Catalog) *catalog.Catalog {
	s.reload.Lock()
	defer s.reload.Unlock()
	return s.current.Swap(newSnapshot(cat)).cat
}

// Reload rebuilds the catalog from the built-ins plus the given extension
// files and swaps it in. On error the current catalog stays in place.
func (s *Service) Reload(extensions []string) (*catalog.Catalog, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	cat, err := catalog.LoadWithExtensions(extensions)
	if err != nil {
		return nil, err
	}
	s.current.Store(newSnapshot(cat))
	return cat, nil
}

// Tokenize classifies every character of text.
func (s *Service) Tokenize(text string) []lexer.Token {
	return s.snap().lex.Tokenize(text)
}

// Diagnostics reports lexical problems in text.
func (s *Service) Diagnostics(text string) []lexer.Diagnostic {
	return s.snap().lex.Diagnose(text)
}
