package grammar

// Unbounded caps MaxLen arithmetic so that sums never overflow.
const Unbounded = 1 << 30

// Node is one piece of a grammar. match calls k with every end position the
// node can reach from pos, in preference order, and stops as soon as k
// returns true. This continuation style gives leftmost-first backtracking
// without depending on any regular expression engine.
type Node interface {
	match(in *Input, pos int, k func(end int) bool) bool
	maxLen() int
}

func addLen(a, b int) int {
	if a+b > Unbounded {
		return Unbounded
	}
	return a + b
}

func mulLen(a, n int) int {
	if a == 0 || n == 0 {
		return 0
	}
	if a > Unbounded/n {
		return Unbounded
	}
	return a * n
}

type seqNode []Node

// Seq matches nodes one after another.
func Seq(nodes ...Node) Node {
	return seqNode(nodes)
}

func (s seqNode) match(in *Input, pos int, k func(int) bool) bool {
	return s.matchFrom(in, 0, pos, k)
}

func (s seqNode) matchFrom(in *Input, i, pos int, k func(int) bool) bool {
	if i == len(s) {
		return k(pos)
	}
	return s[i].match(in, pos, func(end int) bool {
		return s.matchFrom(in, i+1, end, k)
	})
}

func (s seqNode) maxLen() int {
	total := 0
	for _, n := range s {
		total = addLen(total, n.maxLen())
	}
	return total
}

type altNode []Node

// Alt tries alternatives strictly in order.
func Alt(nodes ...Node) Node {
	return altNode(nodes)
}

func (a altNode) match(in *Input, pos int, k func(int) bool) bool {
	for _, n := range a {
		if n.match(in, pos, k) {
			return true
		}
	}
	return false
}

func (a altNode) maxLen() int {
	longest := 0
	for _, n := range a {
		if l := n.maxLen(); l > longest {
			longest = l
		}
	}
	return longest
}

type litNode []rune

// Lit matches a literal string.
func Lit(s string) Node {
	return litNode([]rune(s))
}

func (l litNode) match(in *Input, pos int, k func(int) bool) bool {
	if pos+len(l) > in.Len() {
		return false
	}
	for i, r := range l {
		if in.Runes[pos+i] != r {
			return false
		}
	}
	return k(pos + len(l))
}

func (l litNode) maxLen() int {
	return len(l)
}

type classNode func(rune) bool

// Class matches exactly one code point accepted by pred.
func Class(pred func(rune) bool) Node {
	return classNode(pred)
}

func (c classNode) match(in *Input, pos int, k func(int) bool) bool {
	if pos < in.Len() && c(in.Runes[pos]) {
		return k(pos + 1)
	}
	return false
}

func (classNode) maxLen() int {
	return 1
}

type runNode struct {
	pred     func(rune) bool
	min, max int
	lazy     bool
}

// Run matches between min and max code points accepted by pred, longest first.
func Run(pred func(rune) bool, min, max int) Node {
	return runNode{pred: pred, min: min, max: max}
}

// LazyRun is Run that prefers the shortest run.
func LazyRun(pred func(rune) bool, min, max int) Node {
	return runNode{pred: pred, min: min, max: max, lazy: true}
}

func (r runNode) match(in *Input, pos int, k func(int) bool) bool {
	n := 0
	for n < r.max && pos+n < in.Len() && r.pred(in.Runes[pos+n]) {
		n++
	}
	if n < r.min {
		return false
	}
	if r.lazy {
		for c := r.min; c <= n; c++ {
			if k(pos + c) {
				return true
			}
		}
		return false
	}
	for c := n; c >= r.min; c-- {
		if k(pos + c) {
			return true
		}
	}
	return false
}

func (r runNode) maxLen() int {
	return r.max
}

type repeatNode struct {
	node     Node
	min, max int
}

// Repeat matches node between min and max times, as many as possible first.
func Repeat(node Node, min, max int) Node {
	return repeatNode{node: node, min: min, max: max}
}

// Opt matches node zero or one time.
func Opt(node Node) Node {
	return repeatNode{node: node, min: 0, max: 1}
}

func (r repeatNode) match(in *Input, pos int, k func(int) bool) bool {
	return r.step(in, pos, 0, k)
}

func (r repeatNode) step(in *Input, pos, n int, k func(int) bool) bool {
	if n < r.max {
		more := r.node.match(in, pos, func(end int) bool {
			// пустая итерация не продвигает позицию — дальше не идём
			if end == pos {
				return false
			}
			return r.step(in, end, n+1, k)
		})
		if more {
			return true
		}
	}
	return n >= r.min && k(pos)
}

func (r repeatNode) maxLen() int {
	return mulLen(r.node.maxLen(), r.max)
}

type assertNode func(in *Input, pos int) bool

func (a assertNode) match(in *Input, pos int, k func(int) bool) bool {
	if a(in, pos) {
		return k(pos)
	}
	return false
}

func (assertNode) maxLen() int {
	return 0
}

// LineStart matches at the start of the buffer or right after a newline.
var LineStart Node = assertNode(func(in *Input, pos int) bool {
	return pos == 0 || in.at(pos-1) == '\n'
})

// TrimmedStart matches at the start of a trimmed input, where a leading
// indent may have been cut.
var TrimmedStart Node = assertNode(func(in *Input, pos int) bool {
	return pos == 0 && in.Trimmed
})

// LineEnd matches at the end of the buffer or right before a newline.
var LineEnd Node = assertNode(func(in *Input, pos int) bool {
	return pos == in.Len() || in.Runes[pos] == '\n'
})

// NotAfter matches when the previous code point is absent or rejected by pred.
func NotAfter(pred func(rune) bool) Node {
	return assertNode(func(in *Input, pos int) bool {
		return pos == 0 || !pred(in.Runes[pos-1])
	})
}

// NotBefore matches when the next code point is absent or rejected by pred.
func NotBefore(pred func(rune) bool) Node {
	return assertNode(func(in *Input, pos int) bool {
		return pos == in.Len() || !pred(in.Runes[pos])
	})
}

type lookNode struct {
	node Node
	neg  bool
}

// Ahead is a zero-width positive lookahead.
func Ahead(node Node) Node {
	return lookNode{node: node}
}

// NotAhead is a zero-width negative lookahead.
func NotAhead(node Node) Node {
	return lookNode{node: node, neg: true}
}

func (l lookNode) match(in *Input, pos int, k func(int) bool) bool {
	ok := l.node.match(in, pos, func(int) bool { return true })
	if ok != l.neg {
		return k(pos)
	}
	return false
}

func (lookNode) maxLen() int {
	return 0
}

// Prefix returns the preferred end of node matched at pos.
func Prefix(node Node, in *Input, pos int) (int, bool) {
	end := -1
	ok := node.match(in, pos, func(e int) bool {
		end = e
		return true
	})
	return end, ok
}

// Full reports whether any derivation of node covers the whole input.
func Full(node Node, in *Input) bool {
	return node.match(in, 0, func(e int) bool {
		return e == in.Len()
	})
}

// MaxLen returns the structural upper bound of code points node can consume.
func MaxLen(node Node) int {
	return node.maxLen()
}
