package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"textchunk/internal/grammar"
)

// FileName is the configuration file looked up by Find.
const FileName = "textchunk.toml"

var (
	// ErrRuleNameMissing indicates a [[rules]] entry without a name.
	ErrRuleNameMissing = errors.New("rule entry without name")
	// ErrMaxLengthWithoutPattern indicates max_length set on a builtin rule.
	ErrMaxLengthWithoutPattern = errors.New("max_length is only valid with pattern")
)

// Scan holds the [scan] defaults. Empty values mean "use the CLI default".
type Scan struct {
	Threads  int
	Classify string
	Gap      string
	Window   int
}

// File is a decoded configuration.
type File struct {
	Path  string
	Rules grammar.Config
	Scan  Scan
}

type ruleEntry struct {
	Name      string `toml:"name"`
	Pattern   string `toml:"pattern"`
	MaxLength int    `toml:"max_length"`
}

type fileConfig struct {
	Bounds map[string]int `toml:"bounds"`
	Rules  []ruleEntry    `toml:"rules"`
	Scan   struct {
		Threads  int    `toml:"threads"`
		Classify string `toml:"classify"`
		Gap      string `toml:"gap"`
		Window   int    `toml:"window"`
	} `toml:"scan"`
}

// Load parses a configuration file.
func Load(path string) (File, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return File{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	f, err := convert(&cfg, meta)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes configuration text.
func Parse(data string) (File, error) {
	var cfg fileConfig
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return File{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return convert(&cfg, meta)
}

func convert(cfg *fileConfig, meta toml.MetaData) (File, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return File{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	var out File
	if meta.IsDefined("bounds") {
		out.Rules.Bounds = cfg.Bounds
	}
	for i, r := range cfg.Rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return File{}, fmt.Errorf("rules[%d]: %w", i, ErrRuleNameMissing)
		}
		if r.Pattern == "" && r.MaxLength != 0 {
			return File{}, fmt.Errorf("rules[%d] %q: %w", i, name, ErrMaxLengthWithoutPattern)
		}
		out.Rules.Rules = append(out.Rules.Rules, grammar.RuleSpec{
			Name:      name,
			Pattern:   r.Pattern,
			MaxLength: r.MaxLength,
		})
	}
	if meta.IsDefined("scan") {
		out.Scan = Scan{
			Threads:  cfg.Scan.Threads,
			Classify: cfg.Scan.Classify,
			Gap:      cfg.Scan.Gap,
			Window:   cfg.Scan.Window,
		}
	}
	return out, nil
}

// Table builds the rule table described by f.
func (f File) Table() (*grammar.Table, error) {
	t, err := grammar.Build(f.Rules)
	if err != nil {
		if f.Path != "" {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		return nil, err
	}
	return t, nil
}
