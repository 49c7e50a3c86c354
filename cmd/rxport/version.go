package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rxport/internal/rewrite"
	"rxport/internal/version"
)

const versionTagline = "Python patterns in, JavaScript literals out"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show rxport build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit, build date and Go version")
	versionCmd.Flags().Bool("rules", false, "list the rewrite rules in the order they run")
}

// versionReport is the JSON form of "rxport version".
type versionReport struct {
	Tool    string        `json:"tool"`
	Tagline string        `json:"tagline"`
	Build   *version.Info `json:"build,omitempty"`
	Version string        `json:"version"`
	Rules   []string      `json:"rules,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	withRules, err := cmd.Flags().GetBool("rules")
	if err != nil {
		return fmt.Errorf("failed to get rules flag: %w", err)
	}

	rep := versionReport{Tool: "rxport", Tagline: versionTagline}
	info := version.Current()
	rep.Version = info.Version
	if full {
		rep.Build = &info
	}
	if withRules {
		for _, r := range rewrite.Rules() {
			rep.Rules = append(rep.Rules, r.Name)
		}
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "pretty":
		colored, err := useColor(cmd, &appConfig{})
		if err != nil {
			return err
		}
		printVersion(out, rep, colored)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func printVersion(out io.Writer, rep versionReport, colored bool) {
	v := rep.Version
	if colored && v == version.Version {
		v = version.Colored()
	}
	fmt.Fprintf(out, "%s %s: %s\n", rep.Tool, v, rep.Tagline)
	if b := rep.Build; b != nil {
		commit := b.ShortCommit()
		if commit == "" {
			commit = "unknown"
		} else if b.Modified {
			commit += " (modified)"
		}
		built := b.BuildDate
		if built == "" {
			built = "unknown"
		}
		fmt.Fprintf(out, "commit: %s\nbuilt:  %s\ngo:     %s\n", commit, built, b.GoVersion)
	}
	for i, name := range rep.Rules {
		fmt.Fprintf(out, "%2d. %s\n", i+1, name)
	}
}
