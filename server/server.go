// Package server hosts the Vibe language service over HTTP: LSP over
// WebSocket, a JSON analysis API, MCP over streamable HTTP and a health
// endpoint.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lsp"
	"github.com/vibelang/vibe/lang/tools"
	"github.com/vibelang/vibe/logger"
)

// Server serves the Vibe language service
type Server struct {
	service *lsp.Service
	mcp     *tools.MCPServer
	limiter *clientLimiter
	logger  *zap.SugaredLogger

	cfg   atomic.Pointer[am.Config]
	theme atomic.Pointer[highlight.Theme]

	sessions map[string]*session // active LSP sessions by id
	mu       sync.RWMutex

	configWatcher *am.ConfigWatcher
	configFile    string // explicit --config file, empty for discovery
	mux           *http.ServeMux
	httpServer    *http.Server
	routesOnce    sync.Once

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	state  atomic.Int32
}

// session is one connected LSP client
type session struct {
	id     string
	remote string
}

// New creates a server from a validated configuration. The catalog is the
// built-in one extended by cfg.Catalog.Extensions.
func New(cfg *am.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	cat, err := catalog.LoadWithExtensions(cfg.Catalog.Extensions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load catalog")
	}
	theme, err := cfg.ResolveTheme()
	if err != nil {
		return nil, err
	}

	service := lsp.NewService(cat)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		service:  service,
		mcp:      tools.NewMCPServer(service, theme),
		limiter:  newClientLimiter(cfg.Server.RateLimit),
		logger:   logger.ComponentLogger("server"),
		sessions: make(map[string]*session),
		mux:      http.NewServeMux(),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.cfg.Store(cfg)
	s.theme.Store(&theme)
	s.state.Store(int32(ServerStateRunning))

	s.logger.Infow("Language service ready",
		logger.FieldCount, cat.Len(),
		"extensions", len(cfg.Catalog.Extensions),
		"theme", theme.Name,
	)
	return s, nil
}

// Service returns the language service
func (s *Server) Service() *lsp.Service {
	return s.service
}

// Config returns the active configuration
func (s *Server) Config() *am.Config {
	return s.cfg.Load()
}

// SetConfigFile pins configuration to one file. Reloads then read only that
// file instead of rediscovering system, user and project files.
func (s *Server) SetConfigFile(path string) {
	s.configFile = path
}

// Theme returns the active theme
func (s *Server) Theme() highlight.Theme {
	return *s.theme.Load()
}

// ApplyConfig swaps in a reloaded configuration: the catalog is rebuilt
// from its extensions and swapped into the service, the theme, origins and
// rate limits follow. An invalid configuration leaves everything as it was.
func (s *Server) ApplyConfig(cfg *am.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "reloaded config rejected")
	}
	theme, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}

	cat, err := s.service.Reload(cfg.Catalog.Extensions)
	if err != nil {
		return errors.Wrap(err, "catalog reload failed, keeping previous catalog")
	}

	s.cfg.Store(cfg)
	s.theme.Store(&theme)
	s.mcp.SetTheme(theme)
	s.limiter.configure(cfg.Server.RateLimit)

	s.logger.Infow("Configuration applied",
		logger.FieldCount, cat.Len(),
		"theme", theme.Name,
		"rate_limit", cfg.Server.RateLimit.RequestsPerSecond,
	)
	return nil
}

// registerSession records a new LSP session, refusing beyond MaxSessions
func (s *Server) registerSession(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= MaxSessions {
		return false
	}
	s.sessions[sess.id] = sess
	return true
}

func (s *Server) unregisterSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SessionCount returns the number of connected LSP clients
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
