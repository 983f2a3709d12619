package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bytehatacademy/academy/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFlags *StandardFlags
	versionShort bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the version, commit, build time, Go version, and platform.

Examples:
  academy version              # Version and platform
  academy version --short      # Version only
  academy version --detailed   # Every build field
  academy version --format json`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionFlags = AddStandardFlags(versionCmd, "output")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	detailed, _ := cmd.Flags().GetBool("detailed")

	if versionFlags.Format == "json" {
		return outputVersionJSON(out)
	}

	switch {
	case versionShort:
		fmt.Fprintln(out, version.Short())
	case detailed:
		fmt.Fprintln(out, version.Detailed())
		if version.IsRelease() {
			fmt.Fprintln(out, "Build type: release")
		} else {
			fmt.Fprintln(out, "Build type: development")
		}
	default:
		info := version.Get()
		fmt.Fprintf(out, "academy %s\n", version.Short())
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
	}
	return nil
}

func outputVersionJSON(w io.Writer) error {
	info := version.Get()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		version.BuildInfo
		IsRelease bool `json:"is_release"`
	}{info, version.IsRelease()})
}
