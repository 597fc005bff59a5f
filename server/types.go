package server

import (
	"time"

	"github.com/vibelang/vibe/lang/catalog"
)

const (
	// MaxSessions is the maximum number of concurrent LSP WebSocket sessions
	MaxSessions = 100
	// MaxRequestBytes caps JSON request bodies on the analysis API
	MaxRequestBytes = 1 << 20
	// ShutdownTimeout is how long to wait for in-flight requests on Stop
	ShutdownTimeout = 10 * time.Second
	// limiterIdleTTL is how long an idle client's token bucket is kept
	limiterIdleTTL = 10 * time.Minute
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// TextRequest is the body of /api/tokens and /api/diagnostics
type TextRequest struct {
	Text string `json:"text"`
}

// PositionRequest is the body of the cursor-based endpoints. Line and
// column are 1-based.
type PositionRequest struct {
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// HighlightRequest is the body of /api/highlight
type HighlightRequest struct {
	Code string `json:"code"`
	Mode string `json:"mode"` // "static" (default) or "tokens"
}

// HighlightResponse carries rendered markup
type HighlightResponse struct {
	Mode string `json:"mode"`
	HTML string `json:"html"`
}

// CatalogResponse lists the active catalog
type CatalogResponse struct {
	Version  string          `json:"version"`
	Symbols  []catalog.Entry `json:"symbols"`
	Snippets []catalog.Entry `json:"snippets"`
}

// HealthResponse is served at /health
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"build_time"`
	State       string `json:"state"`
	Sessions    int    `json:"sessions"`
	CatalogSize int    `json:"catalog_size"`
	Theme       string `json:"theme"`
}
