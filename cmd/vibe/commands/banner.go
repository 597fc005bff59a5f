package commands

import (
	"fmt"

	"github.com/vibelang/vibe/logger"
	"github.com/vibelang/vibe/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity, port, catalogSize int, theme string) {
	magenta := "\033[35m"
	green := "\033[32m"
	yellow := "\033[33m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	versionInfo := version.Get()

	fmt.Printf("\n%s%s", magenta, bold)
	fmt.Printf("   ╔═══════════════════════════════════════════╗\n")
	fmt.Printf("   ║                                           ║\n")
	fmt.Printf("   ║   ██    ██ ██ ██████  ███████             ║\n")
	fmt.Printf("   ║   ██    ██ ██ ██   ██ ██                  ║\n")
	fmt.Printf("   ║   ██    ██ ██ ██████  █████               ║\n")
	fmt.Printf("   ║    ██  ██  ██ ██   ██ ██                  ║\n")
	fmt.Printf("   ║     ████   ██ ██████  ███████             ║\n")
	fmt.Printf("   ║                                           ║\n")
	fmt.Printf("   ╚═══════════════════════════════════════════╝%s\n\n", reset)

	fmt.Printf("%s%s┌─ Vibe Info ───────────────────────────────────┐%s\n", green, bold, reset)
	fmt.Printf("%s│%s Version:   %s (commit %s)\n", green, reset, versionInfo.Version, versionInfo.Short())
	fmt.Printf("%s│%s Built:     %s\n", green, reset, versionInfo.BuildTime)
	fmt.Printf("%s│%s Verbosity: %s\n", green, reset, logger.LevelName(verbosity))
	fmt.Printf("%s│%s Catalog:   %d entries\n", green, reset, catalogSize)
	fmt.Printf("%s│%s Theme:     %s\n", green, reset, theme)
	fmt.Printf("%s│%s LSP:       ws://localhost:%d/lsp\n", green, reset, port)
	fmt.Printf("%s└───────────────────────────────────────────────┘%s\n", green, reset)

	fmt.Printf("\n%s%s✨ Point your editor's LSP client at /lsp%s\n", yellow, bold, reset)
	fmt.Printf("%s💡 Press Ctrl+C to stop%s\n\n", blue, reset)
}
