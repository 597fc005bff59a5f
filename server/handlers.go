package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lexer"
	"github.com/vibelang/vibe/lang/lsp"
	"github.com/vibelang/vibe/logger"
	"github.com/vibelang/vibe/version"
)

// HandleHealth reports liveness, build info and the state of the service
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	info := version.Get()
	state := s.getState()
	status := "ok"
	code := http.StatusOK
	if state != ServerStateRunning {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	_ = writeJSON(w, code, HealthResponse{
		Status:      status,
		Version:     info.Version,
		Commit:      info.CommitHash,
		BuildTime:   info.BuildTime,
		State:       stateString(state),
		Sessions:    s.SessionCount(),
		CatalogSize: s.service.Catalog().Len(),
		Theme:       s.Theme().Name,
	})
}

// HandleTokens classifies every character of the posted text
func (s *Server) HandleTokens(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	tokens := s.service.Tokenize(req.Text)
	if tokens == nil {
		tokens = []lexer.Token{}
	}
	s.logRequest(r, "tokens", len(tokens))
	_ = writeJSON(w, http.StatusOK, tokens)
}

// HandleComplete lists completion candidates at the posted cursor
func (s *Server) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !s.decodePosition(w, r, &req) {
		return
	}
	candidates := s.service.Complete(req.Text, req.Line, req.Column)
	s.logRequest(r, "complete", len(candidates))
	_ = writeJSON(w, http.StatusOK, candidates)
}

// HandleHover documents the word at the posted cursor, or answers null
func (s *Server) HandleHover(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !s.decodePosition(w, r, &req) {
		return
	}
	hover := s.service.Hover(req.Text, req.Line, req.Column)
	if hover == nil {
		_ = writeJSON(w, http.StatusOK, nil)
		return
	}
	_ = writeJSON(w, http.StatusOK, struct {
		*lsp.HoverResult
		Markdown string `json:"markdown"`
	}{hover, hover.Markdown()})
}

// HandleSignature reports the signature of the call around the posted
// cursor, or answers null
func (s *Server) HandleSignature(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !s.decodePosition(w, r, &req) {
		return
	}
	help := s.service.SignatureHelp(req.Text, req.Line, req.Column)
	if help == nil {
		_ = writeJSON(w, http.StatusOK, nil)
		return
	}
	_ = writeJSON(w, http.StatusOK, help)
}

// HandleHighlight renders posted code as HTML. Mode "static" uses the
// fixed-palette highlighter, "tokens" the lexer and the active theme.
func (s *Server) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if !s.decode(w, r, &req) {
		return
	}

	var html string
	switch req.Mode {
	case "", "static":
		req.Mode = "static"
		html = highlight.Render(req.Code)
	case "tokens":
		html = highlight.RenderTokens(s.service.Tokenize(req.Code), s.Theme())
	default:
		writeErr(w, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidRequest, "unknown highlight mode %q", req.Mode),
			"use \"static\" or \"tokens\"",
		))
		return
	}
	s.logRequest(r, "highlight", len(req.Code))
	_ = writeJSON(w, http.StatusOK, HighlightResponse{Mode: req.Mode, HTML: html})
}

// HandleDiagnostics reports lexical problems in the posted text
func (s *Server) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	diags := s.service.Diagnostics(req.Text)
	if diags == nil {
		diags = []lexer.Diagnostic{}
	}
	s.logRequest(r, "diagnostics", len(diags))
	_ = writeJSON(w, http.StatusOK, diags)
}

// HandleFolding reports foldable blocks in the posted text
func (s *Server) HandleFolding(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	ranges := s.service.FoldingRanges(req.Text)
	if ranges == nil {
		ranges = []lsp.FoldingRange{}
	}
	_ = writeJSON(w, http.StatusOK, ranges)
}

// HandleCatalog lists the active catalog
func (s *Server) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	cat := s.service.Catalog()
	_ = writeJSON(w, http.StatusOK, CatalogResponse{
		Version:  cat.Version().String(),
		Symbols:  cat.Symbols(),
		Snippets: cat.Snippets(),
	})
}

// HandleLanguage serves the language registration descriptor
func (s *Server) HandleLanguage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	_ = writeJSON(w, http.StatusOK, lsp.NewRegistration())
}

// decode requires POST and reads the JSON body into v
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if !requireMethod(w, r, http.MethodPost) {
		return false
	}
	if err := readJSON(w, r, v); err != nil {
		s.requestLogger(r).Debugw("Rejected request body",
			logger.FieldPath, r.URL.Path,
			logger.FieldError, err,
		)
		return false
	}
	return true
}

// decodePosition decodes a PositionRequest and checks the cursor is 1-based
func (s *Server) decodePosition(w http.ResponseWriter, r *http.Request, req *PositionRequest) bool {
	if !s.decode(w, r, req) {
		return false
	}
	if req.Line < 1 || req.Column < 1 {
		writeErr(w, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidRequest, "position %d:%d out of range", req.Line, req.Column),
			"line and column are 1-based",
		))
		return false
	}
	return true
}

func (s *Server) logRequest(r *http.Request, op string, count int) {
	s.requestLogger(r).Debugw("API request",
		logger.FieldMethod, op,
		logger.FieldPath, r.URL.Path,
		logger.FieldCount, count,
		logger.FieldDurationMS, sinceStart(r),
	)
}

// requestLogger returns the server logger tagged with the request's id
func (s *Server) requestLogger(r *http.Request) *zap.SugaredLogger {
	return logger.ChildLogger(s.logger, logger.FieldsFromContext(r.Context())...)
}

type startKey struct{}

// sinceStart returns milliseconds since the request id middleware saw r
func sinceStart(r *http.Request) int64 {
	if t, ok := r.Context().Value(startKey{}).(time.Time); ok {
		return time.Since(t).Milliseconds()
	}
	return 0
}
