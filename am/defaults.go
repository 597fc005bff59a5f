package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vibelang/vibe/lang/highlight"
)

// DefaultAllowedOrigins are the browser origins accepted on the WebSocket
// endpoints when none are configured.
func DefaultAllowedOrigins() []string {
	return []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	}
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", DefaultAllowedOrigins())
	v.SetDefault("server.rate_limit.requests_per_second", DefaultRatePerSec)
	v.SetDefault("server.rate_limit.burst", DefaultRateBurst)

	v.SetDefault("lsp.max_documents", DefaultMaxDocuments)
	v.SetDefault("lsp.server_name", DefaultServerName)

	v.SetDefault("catalog.extensions", []string{})
	v.SetDefault("catalog.watch", true)

	v.SetDefault("log.json", false)
}

// BindEnvVars binds keys AutomaticEnv cannot discover on its own. Theme
// channels have no defaults, so VIBE_THEME_<CHANNEL> is bound explicitly.
func BindEnvVars(v *viper.Viper) {
	for _, ch := range highlight.Channels() {
		_ = v.BindEnv("theme." + string(ch))
	}
}

// GetServerPort returns the configured server port, or DefaultServerPort
// when configuration cannot be loaded
func GetServerPort() int {
	cfg, err := Load()
	if err != nil || cfg.Server.Port == 0 {
		return DefaultServerPort
	}
	return cfg.Server.Port
}

// GetServerAllowedOrigins returns the allowed WebSocket origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return DefaultAllowedOrigins()
	}
	return c.Server.AllowedOrigins
}

// GetMaxDocuments returns the per-client document cap
func (c *Config) GetMaxDocuments() int {
	if c.LSP.MaxDocuments <= 0 {
		return DefaultMaxDocuments
	}
	return c.LSP.MaxDocuments
}

// GetServerName returns the name reported to LSP clients
func (c *Config) GetServerName() string {
	if c.LSP.ServerName == "" {
		return DefaultServerName
	}
	return c.LSP.ServerName
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Port: %d, RateLimit: %g/%d}, LSP: {MaxDocuments: %d}, Catalog: {Extensions: %d, Watch: %t}, Theme: %d overrides}",
		c.Server.Port, c.Server.RateLimit.RequestsPerSecond, c.Server.RateLimit.Burst,
		c.LSP.MaxDocuments, len(c.Catalog.Extensions), c.Catalog.Watch, len(c.Theme))
}
