package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/internal/util"
	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/lexer"
	"github.com/vibelang/vibe/lang/lsp"
	"github.com/vibelang/vibe/logger"
	"github.com/vibelang/vibe/version"
)

const diagnosticSource = "vibe"

// GLSPHandler implements LSP protocol handlers for one client session.
// It keeps the client's open documents and answers every request from the
// shared lsp.Service, so it serves WebSocket and stdio clients alike.
type GLSPHandler struct {
	service      *lsp.Service
	logger       *zap.SugaredLogger
	serverName   string
	maxDocuments int
	sessionID    string

	documents map[string]string // URI → document content
	mu        sync.RWMutex
}

// NewGLSPHandler creates a handler for a new session
func NewGLSPHandler(service *lsp.Service, serverName string, maxDocuments int) *GLSPHandler {
	id := uuid.NewString()
	return &GLSPHandler{
		service:      service,
		logger:       logger.ComponentLogger("lsp").With(logger.FieldSessionID, shortID(id)),
		serverName:   serverName,
		maxDocuments: maxDocuments,
		sessionID:    id,
		documents:    make(map[string]string),
	}
}

// SessionID identifies the session in logs
func (h *GLSPHandler) SessionID() string {
	return h.sessionID
}

// Protocol returns the glsp handler table for this session
func (h *GLSPHandler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentCompletion:         h.TextDocumentCompletion,
		TextDocumentHover:              h.TextDocumentHover,
		TextDocumentSignatureHelp:      h.TextDocumentSignatureHelp,
		TextDocumentFoldingRange:       h.TextDocumentFoldingRange,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}
}

// Initialize handles LSP initialize request
func (h *GLSPHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	client := "unknown"
	if params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	h.logger.Infow("LSP client initializing", logger.FieldClient, client)

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: lsp.CompletionTriggerCharacters,
		},
		HoverProvider: &protocol.HoverOptions{},
		SignatureHelpProvider: &protocol.SignatureHelpOptions{
			TriggerCharacters: lsp.SignatureTriggerCharacters,
		},
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: util.Ptr(true),
			Change:    &syncKind,
		},
		FoldingRangeProvider: true,
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     lsp.SemanticTokenTypes,
				TokenModifiers: []string{},
			},
			Full: true,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    h.serverName,
			Version: util.Ptr(version.Get().Short()),
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *GLSPHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.logger.Infow("LSP client initialized")
	return nil
}

// Shutdown handles LSP shutdown request
func (h *GLSPHandler) Shutdown(ctx *glsp.Context) error {
	h.logger.Infow("LSP client shutting down")
	h.mu.Lock()
	h.documents = make(map[string]string)
	h.mu.Unlock()
	return nil
}

// SetTrace accepts $/setTrace so clients that send it get no error
func (h *GLSPHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen caches the document and publishes its diagnostics
func (h *GLSPHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	text := params.TextDocument.Text

	h.mu.Lock()
	if _, exists := h.documents[uri]; !exists && len(h.documents) >= h.maxDocuments {
		count := len(h.documents)
		h.mu.Unlock()
		h.logger.Warnw("Document limit reached, rejecting document",
			logger.FieldURI, uri,
			logger.FieldCount, count,
			"max_allowed", h.maxDocuments,
		)
		return errors.Newf("document limit reached (%d documents open)", h.maxDocuments)
	}
	h.documents[uri] = text
	count := len(h.documents)
	h.mu.Unlock()

	h.logger.Debugw("Document opened",
		logger.FieldURI, uri,
		logger.FieldLength, len(text),
		logger.FieldCount, count,
	)

	h.publishDiagnostics(ctx, params.TextDocument.URI, &params.TextDocument.Version, text)
	return nil
}

// TextDocumentDidChange replaces an open document (full sync) and
// republishes its diagnostics. Changes for documents never opened are
// dropped so they cannot grow the store past maxDocuments.
func (h *GLSPHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	h.mu.Lock()
	text, ok := h.documents[uri]
	if !ok {
		h.mu.Unlock()
		h.logger.Warnw("Change for unopened document ignored", logger.FieldURI, uri)
		return nil
	}
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			text = whole.Text
		}
	}
	h.documents[uri] = text
	h.mu.Unlock()

	h.logger.Debugw("Document changed",
		logger.FieldURI, uri,
		"changes", len(params.ContentChanges),
	)

	h.publishDiagnostics(ctx, params.TextDocument.URI, &params.TextDocument.Version, text)
	return nil
}

// TextDocumentDidClose forgets the document and clears its diagnostics
func (h *GLSPHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	h.mu.Lock()
	delete(h.documents, uri)
	h.mu.Unlock()

	h.logger.Debugw("Document closed", logger.FieldURI, uri)

	if ctx != nil && ctx.Notify != nil {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// TextDocumentCompletion offers the whole catalog at the cursor
func (h *GLSPHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in completion handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result = []protocol.CompletionItem{}
			err = nil
		}
	}()

	text, _ := h.document(params.TextDocument.URI)
	line, column := fromProtocol(text, params.Position)

	candidates := h.service.Complete(text, line, column)
	items := make([]protocol.CompletionItem, len(candidates))
	for i, c := range candidates {
		items[i] = completionItem(text, c)
	}

	h.logger.Debugw("LSP completion",
		logger.FieldURI, params.TextDocument.URI,
		logger.FieldLine, line,
		logger.FieldColumn, column,
		logger.FieldCount, len(items),
	)
	return items, nil
}

// TextDocumentHover documents the catalog word under the cursor
func (h *GLSPHandler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in hover handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result = nil
			err = nil
		}
	}()

	text, ok := h.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	line, column := fromProtocol(text, params.Position)

	hover := h.service.Hover(text, line, column)
	if hover == nil {
		return nil, nil
	}

	h.logger.Debugw("LSP hover", logger.FieldWord, hover.Label, logger.FieldLine, line, logger.FieldColumn, column)

	r := toProtocolRange(text, hover.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hover.Markdown(),
		},
		Range: &r,
	}, nil
}

// TextDocumentSignatureHelp shows the signature of the built-in being called
func (h *GLSPHandler) TextDocumentSignatureHelp(ctx *glsp.Context, params *protocol.SignatureHelpParams) (result *protocol.SignatureHelp, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in signature help handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result = nil
			err = nil
		}
	}()

	text, ok := h.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	line, column := fromProtocol(text, params.Position)

	help := h.service.SignatureHelp(text, line, column)
	if help == nil {
		return nil, nil
	}

	sigs := make([]protocol.SignatureInformation, len(help.Signatures))
	for i, sig := range help.Signatures {
		sigs[i] = signatureInformation(sig)
	}
	return &protocol.SignatureHelp{
		Signatures:      sigs,
		ActiveSignature: util.Ptr(protocol.UInteger(help.ActiveSignature)),
		ActiveParameter: util.Ptr(protocol.UInteger(help.ActiveParameter)),
	}, nil
}

// TextDocumentFoldingRange reports brace-delimited blocks
func (h *GLSPHandler) TextDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) (result []protocol.FoldingRange, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in folding range handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result = []protocol.FoldingRange{}
			err = nil
		}
	}()

	text, _ := h.document(params.TextDocument.URI)
	kind := string(protocol.FoldingRangeKindRegion)

	ranges := h.service.FoldingRanges(text)
	out := make([]protocol.FoldingRange, len(ranges))
	for i, fr := range ranges {
		out[i] = protocol.FoldingRange{
			StartLine: protocol.UInteger(fr.StartLine - 1),
			EndLine:   protocol.UInteger(fr.EndLine - 1),
			Kind:      &kind,
		}
	}
	return out, nil
}

// TextDocumentSemanticTokensFull encodes every classified token
func (h *GLSPHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (result *protocol.SemanticTokens, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in semantic tokens handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result = &protocol.SemanticTokens{Data: []uint32{}}
			err = nil
		}
	}()

	text, _ := h.document(params.TextDocument.URI)
	data := h.service.SemanticTokens(text)
	if data == nil {
		data = []uint32{}
	}

	h.logger.Debugw("LSP semantic tokens", logger.FieldURI, params.TextDocument.URI, logger.FieldCount, len(data)/5)
	return &protocol.SemanticTokens{Data: data}, nil
}

func (h *GLSPHandler) document(uri protocol.DocumentUri) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.documents[string(uri)]
	return text, ok
}

func (h *GLSPHandler) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, version *protocol.Integer, text string) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	diags := h.service.Diagnostics(text)
	out := make([]protocol.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = toProtocolDiagnostic(text, d)
	}

	params := protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: out}
	if version != nil && *version >= 0 {
		params.Version = util.Ptr(protocol.UInteger(*version))
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// fromProtocol converts a 0-based LSP position, whose character counts
// UTF-16 code units, to the service's 1-based line and rune column.
func fromProtocol(text string, p protocol.Position) (int, int) {
	line := int(p.Line) + 1
	return line, lsp.ColumnFromUTF16(text, line, int(p.Character))
}

func toProtocolPosition(text string, p lsp.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(0, p.Line-1)),
		Character: protocol.UInteger(lsp.UTF16Column(text, p)),
	}
}

func toProtocolRange(text string, r lsp.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(text, r.Start), End: toProtocolPosition(text, r.End)}
}

func toProtocolDiagnostic(text string, d lexer.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == lexer.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	pos := func(p lexer.Position) protocol.Position {
		return toProtocolPosition(text, lsp.Position{Line: p.Line, Column: p.Character + 1})
	}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos(d.Range.Start), End: pos(d.Range.End)},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   util.Ptr(diagnosticSource),
		Message:  d.Message,
	}
}

func completionItem(text string, c lsp.CompletionCandidate) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:  c.Label,
		Kind:   mapCompletionKind(c.Category),
		Detail: util.Ptr(c.Category.String()),
		Documentation: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: c.Documentation,
		},
		TextEdit: protocol.TextEdit{
			Range:   toProtocolRange(text, c.ReplaceRange),
			NewText: c.InsertTemplate,
		},
	}
	format := protocol.InsertTextFormatPlainText
	if c.Placeholders {
		format = protocol.InsertTextFormatSnippet
	}
	item.InsertTextFormat = &format
	return item
}

// mapCompletionKind maps catalog categories to LSP CompletionItemKind
func mapCompletionKind(cat catalog.Category) *protocol.CompletionItemKind {
	var k protocol.CompletionItemKind
	switch cat {
	case catalog.CategoryKeyword:
		k = protocol.CompletionItemKindKeyword
	case catalog.CategoryBuiltinFunction:
		k = protocol.CompletionItemKindFunction
	case catalog.CategoryConstant:
		k = protocol.CompletionItemKindConstant
	case catalog.CategoryDatatype:
		k = protocol.CompletionItemKindClass
	case catalog.CategorySnippet:
		k = protocol.CompletionItemKindSnippet
	default:
		k = protocol.CompletionItemKindText
	}
	return &k
}

func signatureInformation(sig catalog.Signature) protocol.SignatureInformation {
	params := make([]protocol.ParameterInformation, len(sig.Parameters))
	for i, p := range sig.Parameters {
		params[i] = protocol.ParameterInformation{Label: p.Name, Documentation: p.Documentation}
	}
	return protocol.SignatureInformation{
		Label:         sig.Label,
		Documentation: sig.Documentation,
		Parameters:    params,
	}
}

// NewStdioServer builds a glsp server for a single client on stdin/stdout
func NewStdioServer(service *lsp.Service, serverName string, maxDocuments int) *glspserver.Server {
	h := NewGLSPHandler(service, serverName, maxDocuments)
	return glspserver.NewServer(h.Protocol(), serverName, false)
}

// HandleGLSPWebSocket upgrades HTTP to WebSocket and serves LSP on it until
// the client disconnects
func (s *Server) HandleGLSPWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	cfg := s.Config()
	h := NewGLSPHandler(s.service, cfg.GetServerName(), cfg.GetMaxDocuments())
	sess := &session{id: h.SessionID(), remote: r.RemoteAddr}
	if !s.registerSession(sess) {
		s.logger.Warnw("LSP session limit reached", logger.FieldRemote, r.RemoteAddr, "max_sessions", MaxSessions)
		writeError(w, http.StatusServiceUnavailable, "too many LSP sessions")
		return
	}
	defer s.unregisterSession(sess.id)

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("Failed to upgrade WebSocket", logger.FieldError, err, logger.FieldRemote, r.RemoteAddr)
		return
	}

	s.logger.Infow("Serving LSP over WebSocket",
		logger.FieldSessionID, shortID(sess.id),
		logger.FieldRemote, r.RemoteAddr,
		"sessions", s.SessionCount(),
	)

	glspserver.NewServer(h.Protocol(), cfg.GetServerName(), false).ServeWebSocket(conn)

	s.logger.Infow("LSP WebSocket connection closed", logger.FieldSessionID, shortID(sess.id))
}
