package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"textchunk/internal/chunkfmt"
	"textchunk/internal/config"
	"textchunk/internal/grammar"
	"textchunk/internal/scanner"
	"textchunk/internal/source"
)

// chunkSettings is the resolved configuration of one chunk run: flags win
// over the [scan] table of textchunk.toml, which wins over the defaults.
type chunkSettings struct {
	configPath string
	table      *grammar.Table
	format     chunkfmt.Format
	output     string
	stats      string
	threads    int
	jobs       int
	window     int
	load       source.LoadOptions
	mode       scanner.ClassifyMode
	gap        scanner.GapPolicy
	cache      bool
	cacheDir   string
	ui         progressMode
	diagFormat string
	withNotes  bool
	fullPath   bool
}

// loadRules resolves --config/--no-config into a configuration file.
func loadRules(flags *pflag.FlagSet) (config.File, error) {
	noConfig, err := flags.GetBool("no-config")
	if err != nil {
		return config.File{}, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	path, err := flags.GetString("config")
	if err != nil {
		return config.File{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if noConfig {
		if path != "" {
			return config.File{}, fmt.Errorf("--config and --no-config cannot be used together")
		}
		return config.File{}, nil
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.File{}, err
		}
		found, ok, err := config.Find(wd)
		if err != nil {
			return config.File{}, err
		}
		if !ok {
			return config.File{}, nil
		}
		path = found
	}
	return config.Load(path)
}

func resolveSettings(flags *pflag.FlagSet) (*chunkSettings, error) {
	cfg, err := loadRules(flags)
	if err != nil {
		return nil, err
	}
	tbl, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	s := &chunkSettings{configPath: cfg.Path, table: tbl}

	getString := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	getInt := func(name string) int {
		v, _ := flags.GetInt(name)
		return v
	}
	getBool := func(name string) bool {
		v, _ := flags.GetBool(name)
		return v
	}

	// [scan] из конфигурации подставляется, только если флаг не задан явно
	classify := getString("classify")
	if !flags.Changed("classify") && cfg.Scan.Classify != "" {
		classify = cfg.Scan.Classify
	}
	if s.mode, err = scanner.ParseClassifyMode(classify); err != nil {
		return nil, err
	}
	gap := getString("gap")
	if !flags.Changed("gap") && cfg.Scan.Gap != "" {
		gap = cfg.Scan.Gap
	}
	if s.gap, err = scanner.ParseGapPolicy(gap); err != nil {
		return nil, err
	}
	s.threads = getInt("threads")
	if !flags.Changed("threads") && cfg.Scan.Threads > 0 {
		s.threads = cfg.Scan.Threads
	}
	s.window = getInt("window")
	if !flags.Changed("window") && cfg.Scan.Window > 0 {
		s.window = cfg.Scan.Window
	}
	if s.threads < 1 {
		return nil, fmt.Errorf("--threads must be at least 1, got %d", s.threads)
	}
	if s.window < 0 {
		return nil, fmt.Errorf("--window must not be negative, got %d", s.window)
	}

	s.jobs = getInt("jobs")
	s.output = getString("output")
	s.stats = getString("stats")
	s.load = source.LoadOptions{NormalizeCRLF: getBool("crlf"), NFC: getBool("nfc")}
	if s.window > 0 && (s.load.NormalizeCRLF || s.load.NFC) {
		return nil, fmt.Errorf("--window reads input as is and cannot be combined with --nfc or --crlf")
	}
	s.cache = getBool("cache")
	s.cacheDir = getString("cache-dir")
	s.withNotes = getBool("with-notes")
	s.fullPath = getBool("fullpath")

	if s.ui, err = parseProgressMode(getString("ui")); err != nil {
		return nil, err
	}
	s.diagFormat = strings.ToLower(getString("diag-format"))
	switch s.diagFormat {
	case "pretty", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown diagnostics format %q (must be pretty, json or sarif)", s.diagFormat)
	}

	format := getString("format")
	if !flags.Changed("format") && s.output != "" {
		if inferred, ok := formatFromPath(s.output); ok {
			format = string(inferred)
		}
	}
	if s.format, err = chunkfmt.ParseFormat(format); err != nil {
		return nil, err
	}
	return s, nil
}

// formatFromPath guesses the output format from a file extension.
func formatFromPath(path string) (chunkfmt.Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".json":
		return chunkfmt.FormatJSONL, true
	case ".csv":
		return chunkfmt.FormatCSV, true
	case ".xml":
		return chunkfmt.FormatXML, true
	case ".mp", ".msgpack":
		return chunkfmt.FormatMsgpack, true
	case ".txt":
		return chunkfmt.FormatPretty, true
	}
	return "", false
}
