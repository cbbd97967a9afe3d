package scanner

import (
	"errors"
	"fmt"

	"textchunk/internal/diag"
	"textchunk/internal/source"
)

// ErrClassificationGap is returned under GapFail when a scanned span matches
// no rule in full.
var ErrClassificationGap = errors.New("classification gap")

// ClassifyMode selects how chunk types are assigned.
type ClassifyMode uint8

const (
	// Reclassify full-matches every trimmed span against the table.
	Reclassify ClassifyMode = iota
	// ScanRule types a chunk by the rule that produced its span.
	ScanRule
)

func (m ClassifyMode) String() string {
	switch m {
	case Reclassify:
		return "reclassify"
	case ScanRule:
		return "scan-rule"
	}
	return "unknown"
}

// ParseClassifyMode maps a flag value onto a ClassifyMode.
func ParseClassifyMode(s string) (ClassifyMode, error) {
	switch s {
	case "", "reclassify":
		return Reclassify, nil
	case "scan-rule":
		return ScanRule, nil
	}
	return Reclassify, fmt.Errorf("unknown classify mode %q (want reclassify|scan-rule)", s)
}

// GapPolicy decides what happens to a span the classifier cannot type.
type GapPolicy uint8

const (
	// GapReport keeps the chunk, typed by its scanning rule, and warns.
	GapReport GapPolicy = iota
	// GapDrop drops the chunk and notes it.
	GapDrop
	// GapFail aborts the scan unit.
	GapFail
)

func (p GapPolicy) String() string {
	switch p {
	case GapReport:
		return "report"
	case GapDrop:
		return "drop"
	case GapFail:
		return "fail"
	}
	return "unknown"
}

// ParseGapPolicy maps a flag value onto a GapPolicy.
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch s {
	case "", "report":
		return GapReport, nil
	case "drop":
		return GapDrop, nil
	case "fail":
		return GapFail, nil
	}
	return GapReport, fmt.Errorf("unknown gap policy %q (want report|drop|fail)", s)
}

// Options configures one scan unit.
type Options struct {
	Mode ClassifyMode
	Gap  GapPolicy
	// Reporter может быть nil — тогда диагностики отбрасываются
	Reporter diag.Reporter
	// File and Base place chunk spans in the original buffer; Base is the
	// byte offset of the scanned text (non-zero for shards and windows).
	File source.FileID
	Base int
}

func (o *Options) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if o.Reporter != nil {
		o.Reporter.Report(code, sev, sp, msg, nil)
	}
}
