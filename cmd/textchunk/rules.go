package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"textchunk/internal/grammar"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rule table in priority order",
	Long: `Print the rules of the active table (builtin or textchunk.toml) with their
rank, max length and source, followed by the bounds they were compiled with.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	registerRulesFlags(rulesCmd.Flags())
}

func registerRulesFlags(f *pflag.FlagSet) {
	f.String("config", "", "rule configuration file (default: nearest textchunk.toml)")
	f.Bool("no-config", false, "ignore textchunk.toml and use the builtin rules")
	f.String("format", "pretty", "output format (pretty|json)")
}

type ruleRow struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	MaxLength int    `json:"max_length"`
	Builtin   bool   `json:"builtin"`
	Pattern   string `json:"pattern,omitempty"`
}

type rulesPayload struct {
	Config      string         `json:"config,omitempty"`
	Fingerprint string         `json:"fingerprint"`
	Rules       []ruleRow      `json:"rules"`
	Bounds      map[string]int `json:"bounds"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg, err := loadRules(cmd.Flags())
	if err != nil {
		return err
	}
	tbl, err := cfg.Table()
	if err != nil {
		return err
	}
	payload := describeTable(cfg.Path, tbl)

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
		return renderRules(cmd.OutOrStdout(), payload, colored)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func describeTable(path string, tbl *grammar.Table) rulesPayload {
	fp := tbl.Fingerprint()
	payload := rulesPayload{
		Config:      path,
		Fingerprint: fmt.Sprintf("%x", fp[:8]),
		Bounds:      make(map[string]int),
	}
	for _, r := range tbl.Rules() {
		row := ruleRow{Rank: r.Rank, Name: r.Name, MaxLength: r.MaxLen(), Builtin: r.Builtin()}
		if !r.Builtin() {
			row.Pattern = r.Source()
		}
		payload.Rules = append(payload.Rules, row)
	}
	bounds := tbl.Bounds()
	for _, key := range bounds.Keys() {
		payload.Bounds[key] = bounds.Get(key)
	}
	return payload
}

func renderRules(out io.Writer, p rulesPayload, colored bool) error {
	head := color.New(color.Bold)
	name := color.New(color.FgCyan)
	for _, c := range []*color.Color{head, name} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	source := "builtin rules"
	if p.Config != "" {
		source = p.Config
	}
	fmt.Fprintf(out, "%s %s (%s)\n", head.Sprint("table:"), source, p.Fingerprint)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tMAX\tSOURCE")
	for _, r := range p.Rules {
		src := "builtin"
		if !r.Builtin {
			src = r.Pattern
		}
		// escape-коды одинаковой длины у всех строк, колонки не съезжают
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Rank, name.Sprint(r.Name), r.MaxLength, src)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, head.Sprint("bounds:"))
	keys := make([]string, 0, len(p.Bounds))
	for k := range p.Bounds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-32s %d\n", k, p.Bounds[k])
	}
	return nil
}
