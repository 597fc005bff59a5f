package lsp

import (
	"regexp"

	"github.com/vibelang/vibe/lang/catalog"
)

// SignatureTriggerCharacters re-invoke signature help when typed.
var SignatureTriggerCharacters = []string{"("}

// SignatureHelp describes the call the cursor is inside. Only a single
// signature with a single active slot is ever reported.
type SignatureHelp struct {
	Callee          string              `json:"callee"`
	Signatures      []catalog.Signature `json:"signatures"`
	ActiveSignature int                 `json:"activeSignature"`
	ActiveParameter int                 `json:"activeParameter"`
}

// an identifier, then '(' with no ')' anywhere after it
var openCallPattern = regexp.MustCompile(`(\w+)\s*\([^)]*$`)

// SignatureHelp inspects the text from the start of the document to the
// cursor for an unterminated call and returns the callee's signature when
// the catalog has one. User-defined functions are never resolved.
func (s *Service) SignatureHelp(text string, line, column int) *SignatureHelp {
	end, ok := offsetAt(text, Position{Line: line, Column: column})
	if !ok {
		return nil
	}

	m := openCallPattern.FindStringSubmatch(text[:end])
	if m == nil {
		return nil
	}
	callee := m[1]

	sig, ok := s.snap().cat.Signature(callee)
	if !ok {
		return nil
	}
	return &SignatureHelp{
		Callee:     callee,
		Signatures: []catalog.Signature{sig},
	}
}
