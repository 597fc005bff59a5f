package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/display"
	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vibe version information",
	Long:  `Display version, build time, commit hash, platform and the Vibe language version the built-in catalog targets.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		info := version.Get()
		out := cmd.OutOrStdout()

		if jsonOutput {
			return display.Write(out, display.FormatJSON, "", struct {
				version.Info
				Language string `json:"language"`
			}{info, catalog.LanguageVersion})
		}

		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Language: Vibe %s\n", catalog.LanguageVersion)
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
