package grammar

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// matcher is the executable form of a rule.
type matcher interface {
	prefix(in *Input, pos int) (int, bool)
	full(in *Input) bool
	maxLen() int
	source() string
}

// Rule is one named grammar at a fixed priority rank.
type Rule struct {
	Name string
	Rank int
	m    matcher
}

// Match returns the end of the rule's preferred match starting at pos.
func (r Rule) Match(in *Input, pos int) (int, bool) {
	return r.m.prefix(in, pos)
}

// FullMatch reports whether the rule accepts the whole input.
func (r Rule) FullMatch(in *Input) bool {
	return r.m.full(in)
}

// MaxLen is the longest text, in code points, the rule can accept.
func (r Rule) MaxLen() int {
	return r.m.maxLen()
}

// Source describes where the grammar came from: "builtin" or the expanded pattern.
func (r Rule) Source() string {
	return r.m.source()
}

// Builtin reports whether the rule uses a builtin grammar.
func (r Rule) Builtin() bool {
	_, ok := r.m.(nodeMatcher)
	return ok
}

type nodeMatcher struct {
	node Node
	max  int
}

func newNodeMatcher(n Node) nodeMatcher {
	return nodeMatcher{node: n, max: MaxLen(n)}
}

func (m nodeMatcher) prefix(in *Input, pos int) (int, bool) {
	return Prefix(m.node, in, pos)
}

func (m nodeMatcher) full(in *Input) bool {
	if in.Len() > m.max {
		return false
	}
	return Full(m.node, in)
}

func (m nodeMatcher) maxLen() int  { return m.max }
func (nodeMatcher) source() string { return "builtin" }

// patternMatcher runs a configured RE2 pattern. RE2 has no lookaround, so
// custom rules are plain regular languages; the length cap comes from config.
type patternMatcher struct {
	expanded string
	prefixRe *regexp.Regexp
	fullRe   *regexp.Regexp
	max      int
}

func newPatternMatcher(expanded string, maxLen int) (patternMatcher, error) {
	prefixRe, err := regexp.Compile(`(?m)\A(?:` + expanded + `)`)
	if err != nil {
		return patternMatcher{}, err
	}
	fullRe, err := regexp.Compile(`(?m)\A(?:` + expanded + `)\z`)
	if err != nil {
		return patternMatcher{}, err
	}
	return patternMatcher{
		expanded: expanded,
		prefixRe: prefixRe,
		fullRe:   fullRe,
		max:      maxLen,
	}, nil
}

func (m patternMatcher) prefix(in *Input, pos int) (int, bool) {
	start := in.ByteOffset(pos)
	loc := m.prefixRe.FindStringIndex(in.Text[start:])
	if loc == nil {
		return 0, false
	}
	end := in.Index(start + loc[1])
	if end-pos > m.max {
		return 0, false
	}
	return end, true
}

func (m patternMatcher) full(in *Input) bool {
	if utf8.RuneCountInString(in.Text) > m.max {
		return false
	}
	return m.fullRe.MatchString(in.Text)
}

func (m patternMatcher) maxLen() int    { return m.max }
func (m patternMatcher) source() string { return m.expanded }

func (r Rule) String() string {
	return fmt.Sprintf("%d:%s", r.Rank, r.Name)
}
