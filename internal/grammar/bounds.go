package grammar

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
)

// Bound keys. They double as the {PLACEHOLDER} names usable in custom
// rule patterns.
const (
	MaxHeadingLevel                = "MAX_HEADING_LEVEL"
	MaxHeadingContentLength        = "MAX_HEADING_CONTENT_LENGTH"
	MaxHeadingUnderlineLength      = "MAX_HEADING_UNDERLINE_LENGTH"
	MaxHTMLHeadingAttributesLength = "MAX_HTML_HEADING_ATTRIBUTES_LENGTH"
	MaxCitationLength              = "MAX_CITATION_LENGTH"
	MaxListItemLength              = "MAX_LIST_ITEM_LENGTH"
	MaxListItems                   = "MAX_LIST_ITEMS"
	MaxNestedListItems             = "MAX_NESTED_LIST_ITEMS"
	MaxListIndentSpaces            = "MAX_LIST_INDENT_SPACES"
	MaxBlockquoteLineLength        = "MAX_BLOCKQUOTE_LINE_LENGTH"
	MaxBlockquoteLines             = "MAX_BLOCKQUOTE_LINES"
	MaxCodeBlockLength             = "MAX_CODE_BLOCK_LENGTH"
	MaxCodeLanguageLength          = "MAX_CODE_LANGUAGE_LENGTH"
	MaxIndentedCodeLines           = "MAX_INDENTED_CODE_LINES"
	MaxTableCellLength             = "MAX_TABLE_CELL_LENGTH"
	MaxTableRows                   = "MAX_TABLE_ROWS"
	MaxHTMLTableLength             = "MAX_HTML_TABLE_LENGTH"
	MinHorizontalRuleLength        = "MIN_HORIZONTAL_RULE_LENGTH"
	MaxHorizontalRuleLength        = "MAX_HORIZONTAL_RULE_LENGTH"
	MaxSentenceLength              = "MAX_SENTENCE_LENGTH"
	MaxQuotedTextLength            = "MAX_QUOTED_TEXT_LENGTH"
	MaxParentheticalContentLength  = "MAX_PARENTHETICAL_CONTENT_LENGTH"
	MaxNestedParentheses           = "MAX_NESTED_PARENTHESES"
	MaxMathInlineLength            = "MAX_MATH_INLINE_LENGTH"
	MaxMathBlockLength             = "MAX_MATH_BLOCK_LENGTH"
	MaxParagraphLength             = "MAX_PARAGRAPH_LENGTH"
	MaxStandaloneLineLength        = "MAX_STANDALONE_LINE_LENGTH"
	MaxHTMLTagAttributesLength     = "MAX_HTML_TAG_ATTRIBUTES_LENGTH"
	MaxHTMLTagContentLength        = "MAX_HTML_TAG_CONTENT_LENGTH"
	LookaheadRange                 = "LOOKAHEAD_RANGE"
)

var defaultBounds = map[string]int{
	MaxHeadingLevel:                6,
	MaxHeadingContentLength:        200,
	MaxHeadingUnderlineLength:      200,
	MaxHTMLHeadingAttributesLength: 100,
	MaxCitationLength:              200,
	MaxListItemLength:              200,
	MaxListItems:                   20,
	MaxNestedListItems:             6,
	MaxListIndentSpaces:            7,
	MaxBlockquoteLineLength:        200,
	MaxBlockquoteLines:             15,
	MaxCodeBlockLength:             1500,
	MaxCodeLanguageLength:          20,
	MaxIndentedCodeLines:           20,
	MaxTableCellLength:             200,
	MaxTableRows:                   20,
	MaxHTMLTableLength:             2000,
	MinHorizontalRuleLength:        3,
	MaxHorizontalRuleLength:        200,
	MaxSentenceLength:              1000,
	MaxQuotedTextLength:            300,
	MaxParentheticalContentLength:  200,
	MaxNestedParentheses:           5,
	MaxMathInlineLength:            100,
	MaxMathBlockLength:             500,
	MaxParagraphLength:             1000,
	MaxStandaloneLineLength:        800,
	MaxHTMLTagAttributesLength:     100,
	MaxHTMLTagContentLength:        1000,
	LookaheadRange:                 100,
}

var (
	// ErrUnknownPlaceholder is returned when a pattern references a bound that does not exist.
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
	// ErrBadBound is returned for non-positive or inconsistent bound values.
	ErrBadBound = errors.New("invalid bound")
	// ErrUnknownBound is returned for an override that is neither a builtin
	// bound nor a placeholder of some custom pattern.
	ErrUnknownBound = errors.New("unknown bound")
)

// Bounds is an immutable set of named length limits.
type Bounds struct {
	values map[string]int
}

// DefaultBounds returns the stock limits.
func DefaultBounds() Bounds {
	return Bounds{values: maps.Clone(defaultBounds)}
}

// With returns a copy of b with overrides applied. Keys are not checked here;
// Build rejects the ones no rule can use.
func (b Bounds) With(overrides map[string]int) (Bounds, error) {
	values := maps.Clone(b.values)
	if values == nil {
		values = maps.Clone(defaultBounds)
	}
	for k, v := range overrides {
		if v <= 0 {
			return Bounds{}, fmt.Errorf("%w: %s = %d (must be positive)", ErrBadBound, k, v)
		}
		values[k] = v
	}
	if values[MinHorizontalRuleLength] > values[MaxHorizontalRuleLength] {
		return Bounds{}, fmt.Errorf("%w: %s exceeds %s", ErrBadBound, MinHorizontalRuleLength, MaxHorizontalRuleLength)
	}
	return Bounds{values: values}, nil
}

// Get returns the value of key; missing keys fall back to the defaults.
func (b Bounds) Get(key string) int {
	if v, ok := b.values[key]; ok {
		return v
	}
	return defaultBounds[key]
}

// Lookup returns the value of key and whether it is defined.
func (b Bounds) Lookup(key string) (int, bool) {
	v, ok := b.values[key]
	if !ok {
		v, ok = defaultBounds[key]
	}
	return v, ok
}

// Keys returns all defined keys in sorted order.
func (b Bounds) Keys() []string {
	src := b.values
	if src == nil {
		src = defaultBounds
	}
	return slices.Sorted(maps.Keys(src))
}

var placeholderRe = regexp.MustCompile(`\{([A-Z_][A-Z0-9_]*)\}`)

// Placeholders returns the {KEY} names referenced by pattern.
func Placeholders(pattern string) []string {
	var keys []string
	for _, m := range placeholderRe.FindAllStringSubmatch(pattern, -1) {
		keys = append(keys, m[1])
	}
	return keys
}

// checkOverrides rejects override keys that no rule reads, which is almost
// always a misspelled builtin bound.
func checkOverrides(overrides map[string]int, specs []RuleSpec) error {
	used := make(map[string]bool)
	for _, spec := range specs {
		for _, k := range Placeholders(spec.Pattern) {
			used[k] = true
		}
	}
	var unknown []string
	for k := range overrides {
		if _, ok := defaultBounds[k]; !ok && !used[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: %v (not a builtin bound and not referenced by any pattern)", ErrUnknownBound, unknown)
	}
	return nil
}

// Expand substitutes every {KEY} placeholder in pattern with its bound value.
// Regex quantifiers such as {1,3} are left alone.
func (b Bounds) Expand(pattern string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(pattern, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := b.Lookup(key)
		if !ok {
			missing = append(missing, key)
			return m
		}
		return fmt.Sprint(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %v", ErrUnknownPlaceholder, missing)
	}
	return out, nil
}
