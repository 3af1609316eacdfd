package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scopebind/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit hash and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show scopebind build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionPayload{
			Tool:      "scopebind",
			Version:   valueOr(strings.TrimSpace(version.Version), "dev"),
			GitCommit: strings.TrimSpace(version.GitCommit),
			BuildDate: strings.TrimSpace(version.BuildDate),
		}
		switch strings.ToLower(versionFormat) {
		case "json":
			if !versionFull {
				info.GitCommit, info.BuildDate = "", ""
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "pretty":
			colored, err := useColor(cmd, os.Stdout)
			if err != nil {
				return err
			}
			renderVersionPretty(cmd.OutOrStdout(), info, colored)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionPretty(out io.Writer, info versionPayload, colored bool) {
	prev := color.NoColor
	color.NoColor = !colored
	defer func() { color.NoColor = prev }()

	fmt.Fprintf(out, "%s %s\n", info.Tool, version.Colored(info.Version))
	if versionFull {
		fmt.Fprintf(out, "commit: %s\n", valueOr(info.GitCommit, "unknown"))
		fmt.Fprintf(out, "built:  %s\n", valueOr(info.BuildDate, "unknown"))
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
