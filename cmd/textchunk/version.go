package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"textchunk/internal/grammar"
	"textchunk/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the textchunk version and builtin grammar fingerprint",
	Long: `Show the textchunk version and the fingerprint of the builtin rule table.
Cached results are keyed on the table fingerprint, so two builds with the same
fingerprint segment text identically.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	registerVersionFlags(versionCmd.Flags())
}

func registerVersionFlags(f *pflag.FlagSet) {
	f.Bool("build", false, "add commit, build date and Go toolchain")
	f.String("format", "pretty", "output format (pretty|json)")
}

type versionPayload struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	Rules       int    `json:"builtin_rules"`
	Fingerprint string `json:"fingerprint"`
	GitCommit   string `json:"git_commit,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
	GoVersion   string `json:"go_version,omitempty"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	build, err := cmd.Flags().GetBool("build")
	if err != nil {
		return fmt.Errorf("failed to get build flag: %w", err)
	}
	payload := describeVersion(grammar.Default(), build)

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		colored, err := useColor(cmd, stdoutFile(cmd))
		if err != nil {
			return err
		}
		renderVersion(cmd.OutOrStdout(), payload, colored)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func describeVersion(tbl *grammar.Table, build bool) versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	fp := tbl.Fingerprint()
	p := versionPayload{
		Tool:        "textchunk",
		Version:     v,
		Rules:       tbl.Len(),
		Fingerprint: fmt.Sprintf("%x", fp[:8]),
	}
	if build {
		p.GitCommit = orUnknown(version.GitCommit)
		p.BuildDate = orUnknown(version.BuildDate)
		p.GoVersion = runtime.Version()
	}
	return p
}

func renderVersion(out io.Writer, p versionPayload, colored bool) {
	// version.Pretty красит через глобальный флаг fatih/color
	prev := color.NoColor
	color.NoColor = !colored
	defer func() { color.NoColor = prev }()

	v := p.Version
	if v == version.Version {
		v = version.Pretty()
	}
	fmt.Fprintf(out, "textchunk %s\n", v)
	fmt.Fprintf(out, "grammar: %d builtin rules (%s)\n", p.Rules, p.Fingerprint)
	if p.GoVersion == "" {
		return
	}
	fmt.Fprintf(out, "commit:  %s\n", p.GitCommit)
	fmt.Fprintf(out, "built:   %s\n", p.BuildDate)
	fmt.Fprintf(out, "go:      %s\n", p.GoVersion)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
