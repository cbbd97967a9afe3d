package grammar

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownRule is returned when a rule entry names no builtin grammar and has no pattern.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrDuplicateRule is returned when two rule entries share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")
	// ErrBadPattern is returned when a custom pattern does not compile.
	ErrBadPattern = errors.New("invalid rule pattern")
	// ErrEmptyTable is returned when a configuration selects no rules.
	ErrEmptyTable = errors.New("rule table is empty")
)

// RuleSpec is one configured rule entry. Name alone selects a builtin
// grammar; Pattern defines a custom rule with {PLACEHOLDER} bounds.
type RuleSpec struct {
	Name      string
	Pattern   string
	MaxLength int
}

// Config is the raw input of Build.
type Config struct {
	Bounds map[string]int
	Rules  []RuleSpec
}

// Table is an immutable, ordered set of rules. Rank equals position.
type Table struct {
	rules  []Rule
	byName map[string]int
	bounds Bounds
	sum    [32]byte
}

// Build compiles cfg into a new Table. With no rule entries the builtin
// order is used. Build never modifies an existing table.
func Build(cfg Config) (*Table, error) {
	if err := checkOverrides(cfg.Bounds, cfg.Rules); err != nil {
		return nil, err
	}
	bounds, err := DefaultBounds().With(cfg.Bounds)
	if err != nil {
		return nil, err
	}

	specs := cfg.Rules
	if len(specs) == 0 {
		specs = make([]RuleSpec, len(BuiltinOrder))
		for i, name := range BuiltinOrder {
			specs[i] = RuleSpec{Name: name}
		}
	}

	t := &Table{
		rules:  make([]Rule, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
		bounds: bounds,
	}
	h := sha256.New()
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: rule #%d has no name", ErrUnknownRule, len(t.rules)+1)
		}
		if _, dup := t.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, spec.Name)
		}
		m, err := compileSpec(spec, bounds)
		if err != nil {
			return nil, err
		}
		rank := len(t.rules)
		t.byName[spec.Name] = rank
		t.rules = append(t.rules, Rule{Name: spec.Name, Rank: rank, m: m})

		h.Write([]byte(spec.Name))
		h.Write([]byte{0})
		h.Write([]byte(m.source()))
		h.Write([]byte{0})
	}
	if len(t.rules) == 0 {
		return nil, ErrEmptyTable
	}
	for _, k := range bounds.Keys() {
		h.Write([]byte(k + "=" + strconv.Itoa(bounds.Get(k)) + ";"))
	}
	copy(t.sum[:], h.Sum(nil))
	return t, nil
}

func compileSpec(spec RuleSpec, bounds Bounds) (matcher, error) {
	if spec.Pattern == "" {
		mk, ok := builtins[spec.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (no builtin grammar and no pattern)", ErrUnknownRule, spec.Name)
		}
		return newNodeMatcher(mk(bounds)), nil
	}
	if spec.MaxLength <= 0 {
		return nil, fmt.Errorf("%w: rule %q needs a positive max_length", ErrBadBound, spec.Name)
	}
	expanded, err := bounds.Expand(spec.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", spec.Name, err)
	}
	m, err := newPatternMatcher(expanded, spec.MaxLength)
	if err != nil {
		return nil, fmt.Errorf("%w: rule %q: %v", ErrBadPattern, spec.Name, err)
	}
	return m, nil
}

// Default builds the builtin table with default bounds.
func Default() *Table {
	t, err := Build(Config{})
	if err != nil {
		panic(fmt.Errorf("builtin rule table: %w", err))
	}
	return t
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Rule returns the rule at rank i.
func (t *Table) Rule(i int) Rule {
	return t.rules[i]
}

// Rules returns a copy of the rules in priority order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Lookup finds a rule by name.
func (t *Table) Lookup(name string) (Rule, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// Bounds returns the bounds the table was compiled with.
func (t *Table) Bounds() Bounds {
	return t.bounds
}

// Fingerprint identifies the table's rules, order and bounds.
func (t *Table) Fingerprint() [32]byte {
	return t.sum
}
