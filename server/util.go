package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/errors"
)

// upgrader returns a WebSocket upgrader using the configured origin check
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates the request origin against server.allowed_origins.
// Requests without an Origin header (editors, CLI clients, tests) pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return originAllowed(origin, s.Config().GetServerAllowedOrigins())
}

// originAllowed prefix-matches origin so any port of an allowed host passes.
// The character after the prefix must end the host, so http://localhost
// does not admit http://localhost.evil.com.
func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" {
			return true
		}
		if !strings.HasPrefix(origin, a) {
			continue
		}
		rest := origin[len(a):]
		if rest == "" || rest[0] == ':' || rest[0] == '/' {
			return true
		}
	}
	return false
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close() // best-effort check, the real bind may still fail
	return true
}

// findAvailablePort tries the requested port, then the default port, then
// the ten ports above the requested one
func findAvailablePort(requestedPort int) (int, error) {
	if isPortAvailable(requestedPort) {
		return requestedPort, nil
	}
	if requestedPort != am.DefaultServerPort && isPortAvailable(am.DefaultServerPort) {
		return am.DefaultServerPort, nil
	}
	for port := requestedPort + 1; port <= requestedPort+10 && port <= 65535; port++ {
		if isPortAvailable(port) {
			return port, nil
		}
	}
	return 0, errors.WithHint(
		errors.Newf("no available ports found (tried %d, %d and %d-%d)", requestedPort, am.DefaultServerPort, requestedPort+1, requestedPort+10),
		"set server.port or VIBE_SERVER_PORT to a free port",
	)
}
