package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"polyres/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func init() {
	versionCmd.Flags().String("format", "text", "output format (text|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show polyres build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsFrom(cmd.Context()).Format == "json" {
			return renderVersionJSON(cmd.OutOrStdout())
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		return err
	},
}

func renderVersionJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:      "polyres",
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildDate: version.BuildDate,
	})
}
