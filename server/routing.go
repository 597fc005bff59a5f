package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vibelang/vibe/logger"
)

// RequestIDHeader carries the request id back to the caller
const RequestIDHeader = "X-Request-ID"

// Handler returns the server's HTTP handler, registering routes on first use
func (s *Server) Handler() http.Handler {
	s.routesOnce.Do(s.setupHTTPRoutes)
	return s.mux
}

// setupHTTPRoutes configures all HTTP handlers
func (s *Server) setupHTTPRoutes() {
	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.corsMiddleware(s.requestIDMiddleware(s.rateLimitMiddleware(h)))
	}

	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	s.mux.HandleFunc("/lsp", s.corsMiddleware(s.HandleGLSPWebSocket)) // LSP 3.16 JSON-RPC over WebSocket
	s.mux.Handle("/mcp", s.mcp.HTTPHandler())                         // MCP streamable HTTP

	s.mux.HandleFunc("/api/tokens", api(s.HandleTokens))           // POST {text}
	s.mux.HandleFunc("/api/complete", api(s.HandleComplete))       // POST {text, line, column}
	s.mux.HandleFunc("/api/hover", api(s.HandleHover))             // POST {text, line, column}
	s.mux.HandleFunc("/api/signature", api(s.HandleSignature))     // POST {text, line, column}
	s.mux.HandleFunc("/api/highlight", api(s.HandleHighlight))     // POST {code, mode}
	s.mux.HandleFunc("/api/diagnostics", api(s.HandleDiagnostics)) // POST {text}
	s.mux.HandleFunc("/api/folding", api(s.HandleFolding))         // POST {text}
	s.mux.HandleFunc("/api/catalog", api(s.HandleCatalog))         // GET
	s.mux.HandleFunc("/api/language", api(s.HandleLanguage))       // GET
}

// corsMiddleware adds CORS headers for allowed origins and answers
// preflight requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requestIDMiddleware tags each request with an id, reusing the caller's
// when one is sent
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(logger.WithRequestID(r.Context(), id), startKey{}, time.Now())
		next(w, r.WithContext(ctx))
	}
}
