package diag

import (
	"cmp"
	"slices"

	"textchunk/internal/source"
)

// Bag collects the diagnostics of one scan unit up to a limit.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(limit int) *Bag {
	return &Bag{max: max(limit, 0)}
}

// Add appends d unless the bag is full; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Dropped counts diagnostics rejected because the bag was full.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the diagnostics; callers must not modify the slice.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) worst() (Severity, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	return slices.MaxFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Compare(x.Severity, y.Severity)
	}).Severity, true
}

// HasErrors reports an error-severity diagnostic.
func (b *Bag) HasErrors() bool {
	s, ok := b.worst()
	return ok && s >= SevError
}

// HasWarnings reports a diagnostic of warning severity or worse.
func (b *Bag) HasWarnings() bool {
	s, ok := b.worst()
	return ok && s >= SevWarning
}

// Count returns how many diagnostics carry code.
func (b *Bag) Count(code Code) int {
	n := 0
	for _, d := range b.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Merge appends everything from other; the limit grows to fit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.max = max(b.max, len(b.items))
	b.dropped += other.dropped
}

// Sort orders by file, span, descending severity, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic per code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
