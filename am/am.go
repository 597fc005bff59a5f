// Package am holds vibe's own settings: where the server listens, how the
// language service is sized, which catalog extensions load and how tokens
// are coloured.
package am

import (
	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/lang/highlight"
)

// Config represents the vibe configuration
type Config struct {
	Server  ServerConfig      `mapstructure:"server" toml:"server" yaml:"server" json:"server"`
	LSP     LSPConfig         `mapstructure:"lsp" toml:"lsp" yaml:"lsp" json:"lsp"`
	Catalog CatalogConfig     `mapstructure:"catalog" toml:"catalog" yaml:"catalog" json:"catalog"`
	Theme   map[string]string `mapstructure:"theme" toml:"theme,omitempty" yaml:"theme,omitempty" json:"theme,omitempty" comment:"Per-channel style overrides, e.g. keyword = \"#FF79C6 bold\""`
	Log     LogConfig         `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
}

// ServerConfig configures the HTTP host
type ServerConfig struct {
	Port           int             `mapstructure:"port" toml:"port" yaml:"port" json:"port"`
	AllowedOrigins []string        `mapstructure:"allowed_origins" toml:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit" toml:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig configures the per-client token bucket on the analysis API.
// RequestsPerSecond 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `mapstructure:"burst" toml:"burst" yaml:"burst" json:"burst"`
}

// LSPConfig configures language server sessions
type LSPConfig struct {
	MaxDocuments int    `mapstructure:"max_documents" toml:"max_documents" yaml:"max_documents" json:"max_documents"` // open documents per client
	ServerName   string `mapstructure:"server_name" toml:"server_name" yaml:"server_name" json:"server_name"`
}

// CatalogConfig configures symbol catalog extensions
type CatalogConfig struct {
	Extensions []string `mapstructure:"extensions" toml:"extensions" yaml:"extensions" json:"extensions"` // .toml / .yaml files
	Watch      bool     `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
}

// Defaults
const (
	DefaultServerPort   = 7733
	DefaultMaxDocuments = 100
	DefaultServerName   = "vibe"
	DefaultRatePerSec   = 50
	DefaultRateBurst    = 100
)

// File names and locations
const (
	ConfigFileName   = "am.toml"
	EnvPrefix        = "VIBE"
	SystemConfigPath = "/etc/vibe/am.toml"
	UserConfigDir    = ".vibe"
)

// File system constants
const (
	DefaultDirPermissions  = 0750
	DefaultFilePermissions = 0644
)

// ResolveTheme applies the configured overrides to the built-in palette.
func (c *Config) ResolveTheme() (highlight.Theme, error) {
	theme, err := highlight.DefaultTheme().WithOverrides(c.Theme)
	if err != nil {
		return highlight.Theme{}, errors.Wrap(err, "invalid theme")
	}
	return theme, nil
}
