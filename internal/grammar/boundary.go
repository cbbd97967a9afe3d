package grammar

// BoundaryMode selects how alternative (a) resolves when several terminal
// markers fall inside the length bound.
type BoundaryMode uint8

const (
	// Longest prefers the last terminal marker followed by whitespace.
	Longest BoundaryMode = iota
	// Shortest prefers the first one, splitting a line into sentences.
	Shortest
)

// Boundary builds the three-way sentence/phrase boundary:
//
//	(a) run{min,max} terminal (?=\s|$)
//	(b) run{min,max} (?=[\r\n]|$)
//	(c) run{min,max} (?=terminal) (?: [^\n]{1,lookahead} terminal (?=\s|$) )?
//
// run is a run of non-newline code points and terminal is one IsTerminal
// code point or "...". Alternatives are tried in that order; the first
// satisfiable one wins.
func Boundary(min, max, lookahead int, mode BoundaryMode) Node {
	return boundaryNode{min: min, max: max, lookahead: lookahead, mode: mode}
}

// boundaryNode scans the run once per position and evaluates the three
// alternatives over it.
type boundaryNode struct {
	min, max, lookahead int
	mode                BoundaryMode
}

func (b boundaryNode) match(in *Input, pos int, k func(int) bool) bool {
	n := 0
	for n < b.max && pos+n < in.Len() && notNewline(in.Runes[pos+n]) {
		n++
	}
	if n < b.min {
		return false
	}

	// (a)
	if b.mode == Shortest {
		for c := b.min; c <= n; c++ {
			if terminalThenSpace(in, pos+c, k) {
				return true
			}
		}
	} else {
		for c := n; c >= b.min; c-- {
			if terminalThenSpace(in, pos+c, k) {
				return true
			}
		}
	}

	// (b): внутри прогона переводов строк нет, подходит только его конец
	if end := pos + n; end == in.Len() || !notNewline(in.Runes[end]) {
		if k(end) {
			return true
		}
	}

	// (c)
	for c := n; c >= b.min; c-- {
		q := pos + c
		if one, three := terminalAt(in, q); !one && !three {
			continue
		}
		m := 0
		for m < b.lookahead && q+m < in.Len() && notLF(in.Runes[q+m]) {
			m++
		}
		for d := m; d >= 1; d-- {
			if terminalThenSpace(in, q+d, k) {
				return true
			}
		}
		if k(q) {
			return true
		}
	}
	return false
}

func (b boundaryNode) maxLen() int {
	return addLen(b.max, addLen(b.lookahead, 3))
}

// terminalAt reports a one-code-point terminal and a "..." at q.
func terminalAt(in *Input, q int) (one, three bool) {
	if q >= in.Len() {
		return false, false
	}
	r := in.Runes[q]
	one = IsTerminal(r)
	three = r == '.' && q+2 < in.Len() && in.Runes[q+1] == '.' && in.Runes[q+2] == '.'
	return one, three
}

// terminalThenSpace tries terminal (?=\s|$) at q, single code point first.
func terminalThenSpace(in *Input, q int, k func(int) bool) bool {
	one, three := terminalAt(in, q)
	if one && spaceOrEnd(in, q+1) && k(q+1) {
		return true
	}
	return three && spaceOrEnd(in, q+3) && k(q+3)
}

func spaceOrEnd(in *Input, p int) bool {
	return p == in.Len() || isSpace(in.Runes[p])
}
