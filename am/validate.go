package am

import (
	"strings"

	"github.com/vibelang/vibe/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Server port: 0 is invalid (omit for default), out of range is invalid
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.WithHint(
			errors.NewInvalidRequestError("server.port must be in 1..65535, got %d", c.Server.Port),
			"omit server.port for the default 7733",
		)
	}

	// Rate limit: 0 = unlimited, negative = invalid
	if c.Server.RateLimit.RequestsPerSecond < 0 {
		return errors.NewInvalidRequestError("server.rate_limit.requests_per_second must be >= 0, got %g", c.Server.RateLimit.RequestsPerSecond)
	}
	if c.Server.RateLimit.Burst < 0 {
		return errors.NewInvalidRequestError("server.rate_limit.burst must be >= 0, got %d", c.Server.RateLimit.Burst)
	}
	// A limiter with a rate but no burst rejects every request
	if c.Server.RateLimit.RequestsPerSecond > 0 && c.Server.RateLimit.Burst == 0 {
		return errors.NewInvalidRequestError("server.rate_limit.burst must be >= 1 when requests_per_second is set")
	}

	if c.LSP.MaxDocuments <= 0 {
		return errors.NewInvalidRequestError("lsp.max_documents must be > 0, got %d", c.LSP.MaxDocuments)
	}

	for i, path := range c.Catalog.Extensions {
		if strings.TrimSpace(path) == "" {
			return errors.NewInvalidRequestError("catalog.extensions[%d] is empty", i)
		}
	}

	if _, err := c.ResolveTheme(); err != nil {
		return err
	}

	return nil
}
