package grammar

// Builtin rule names, in priority order. They are the chunk type labels.
const (
	Heading        = "heading"
	Citation       = "citation"
	ListItems      = "list_items"
	BlockQuote     = "block_quote"
	CodeBlock      = "code_block"
	TableRule      = "table"
	HorizontalRule = "horizontal_rule"
	Sentence       = "sentence"
	QuotedText     = "quoted_text"
	Paragraph      = "paragraph"
	HTMLTag        = "html_tag"
	Latex          = "latex"
	Fallback       = "fallback"
)

// BuiltinOrder is the default priority order.
var BuiltinOrder = []string{
	Heading,
	Citation,
	ListItems,
	BlockQuote,
	CodeBlock,
	TableRule,
	HorizontalRule,
	Sentence,
	QuotedText,
	Paragraph,
	HTMLTag,
	Latex,
	Fallback,
}

// citation numbers and blank runs are not configurable
const (
	maxCitationDigits = 9
	maxBlankRun       = 16
)

var builtins = map[string]func(b Bounds) Node{
	Heading:        headingGrammar,
	Citation:       citationGrammar,
	ListItems:      listGrammar,
	BlockQuote:     blockQuoteGrammar,
	CodeBlock:      codeBlockGrammar,
	TableRule:      tableGrammar,
	HorizontalRule: horizontalRuleGrammar,
	Sentence:       sentenceGrammar,
	QuotedText:     quotedGrammar,
	Paragraph:      paragraphGrammar,
	HTMLTag:        htmlTagGrammar,
	Latex:          latexGrammar,
	Fallback:       fallbackGrammar,
}

// IsBuiltin reports whether name refers to a builtin grammar.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// newline is \r?\n.
var newline = Seq(Opt(Lit("\r")), Lit("\n"))

// trailingNewline is \r?\n? at the end of a block.
var trailingNewline = Seq(Opt(Lit("\r")), Opt(Lit("\n")))

func headingGrammar(b Bounds) Node {
	content := b.Get(MaxHeadingContentLength)
	level := Class(oneOf("123456"))
	atx := Seq(
		Run(only('#'), 1, b.Get(MaxHeadingLevel)),
		Class(isBlank),
		Run(notNewline, 1, content),
	)
	setext := Seq(
		Class(isWord),
		Run(notNewline, 0, content),
		newline,
		Run(oneOf("-="), 2, b.Get(MaxHeadingUnderlineLength)),
		Run(isBlank, 0, maxBlankRun),
	)
	html := Seq(
		Lit("<h"), level,
		Run(notGT, 0, b.Get(MaxHTMLHeadingAttributesLength)),
		Lit(">"),
		Run(notNewline, 1, content),
		Opt(Seq(Lit("</h"), level, Lit(">"))),
	)
	return Seq(LineStart, Alt(atx, setext, html), Alt(newline, LineEnd))
}

func citationGrammar(b Bounds) Node {
	return Seq(
		Lit("["),
		Run(isDigit, 1, maxCitationDigits),
		Lit("]"),
		Run(notNewline, 1, b.Get(MaxCitationLength)),
	)
}

func listGrammar(b Bounds) Node {
	indent := b.Get(MaxListIndentSpaces)
	bullet := Alt(
		Class(oneOf("-*+•")),
		Seq(Run(isDigit, 1, 3), Class(oneOf(".)"))),
		Seq(Class(isASCIILetter), Class(oneOf(".)"))),
		Seq(Lit("["), Class(oneOf(" xX")), Lit("]")),
	)
	item := func(lo, hi int) Node {
		return Seq(
			Run(isBlank, lo, hi),
			bullet,
			Run(isBlank, 1, indent),
			Boundary(1, b.Get(MaxListItemLength), b.Get(LookaheadRange), Longest),
		)
	}
	nested := Seq(newline, item(2, 5))
	deep := Seq(newline, item(4, indent))
	entry := Seq(item(0, 3), Repeat(Alt(nested, deep), 0, b.Get(MaxNestedListItems)))
	return Seq(
		Alt(LineStart, newline),
		entry,
		Repeat(Seq(newline, entry), 0, b.Get(MaxListItems)-1),
	)
}

func blockQuoteGrammar(b Bounds) Node {
	line := Seq(
		LineStart,
		Lit(">"),
		Opt(Class(isBlank)),
		Repeat(Alt(Lit(">"), Run(isBlank, 2, maxBlankRun)), 0, 2),
		Boundary(0, b.Get(MaxBlockquoteLineLength), b.Get(LookaheadRange), Longest),
		trailingNewline,
	)
	return Repeat(line, 1, b.Get(MaxBlockquoteLines))
}

func codeBlockGrammar(b Bounds) Node {
	body := b.Get(MaxCodeBlockLength)
	lineLen := b.Get(MaxListItemLength)
	fence := Alt(Lit("```"), Lit("~~~"))
	fenced := Seq(
		Alt(LineStart, newline),
		fence,
		Run(isWord, 0, b.Get(MaxCodeLanguageLength)),
		newline,
		LazyRun(anyRune, 0, body),
		fence,
		trailingNewline,
	)
	indent := Alt(Lit("    "), Lit("\t"))
	codeLines := b.Get(MaxIndentedCodeLines)
	nextLine := Seq(newline, indent, Run(notNewline, 0, lineLen))
	indented := Seq(
		Alt(LineStart, newline),
		Alt(
			Seq(indent, Run(notNewline, 0, lineLen), Repeat(nextLine, 0, codeLines-1)),
			// классификация видит блок без отступа первой строки
			Seq(TrimmedStart, Run(notNewline, 1, lineLen), Repeat(nextLine, 1, codeLines-1)),
		),
		trailingNewline,
	)
	pre := Seq(
		Lit("<pre>"),
		Opt(Lit("<code>")),
		LazyRun(anyRune, 0, body),
		Opt(Lit("</code>")),
		Lit("</pre>"),
	)
	return Alt(fenced, indented, pre)
}

func tableGrammar(b Bounds) Node {
	cell := b.Get(MaxTableCellLength)
	row := Seq(Lit("|"), Run(notNewline, 0, cell), Lit("|"))
	delim := Seq(Lit("|"), Run(oneOf("-:| \t"), 1, cell), Lit("|"))
	markdown := Seq(
		Alt(LineStart, newline),
		row,
		Opt(Seq(newline, delim)),
		Repeat(Seq(newline, row), 0, b.Get(MaxTableRows)),
	)
	html := Seq(
		Lit("<table"),
		Run(notGT, 0, b.Get(MaxHTMLTagAttributesLength)),
		Lit(">"),
		LazyRun(anyRune, 0, b.Get(MaxHTMLTableLength)),
		Lit("</table>"),
	)
	return Alt(markdown, html)
}

func horizontalRuleGrammar(b Bounds) Node {
	lo, hi := b.Get(MinHorizontalRuleLength), b.Get(MaxHorizontalRuleLength)
	markdown := Seq(
		LineStart,
		Alt(Run(only('-'), lo, hi), Run(only('*'), lo, hi), Run(only('_'), lo, hi)),
		Run(isBlank, 0, maxBlankRun),
		LineEnd,
	)
	html := Seq(Lit("<hr"), Run(isSpace, 0, maxBlankRun), Opt(Lit("/")), Lit(">"))
	return Alt(markdown, html)
}

func sentenceGrammar(b Bounds) Node {
	return Boundary(1, b.Get(MaxSentenceLength), b.Get(LookaheadRange), Shortest)
}

func quotedGrammar(b Bounds) Node {
	quoted := b.Get(MaxQuotedTextLength)
	paren := b.Get(MaxParentheticalContentLength)
	nest := b.Get(MaxNestedParentheses)
	inline := b.Get(MaxMathInlineLength)

	triple := Seq(
		NotAfter(isWord),
		Lit(`"""`), Run(func(r rune) bool { return r != '"' }, 0, quoted), Lit(`"""`),
		NotBefore(isWord),
	)
	pair := func(q string) Node {
		return Seq(Lit(q), Run(notNewline, 0, quoted), Lit(q))
	}
	simple := Seq(NotAfter(isWord), Alt(pair(`"`), pair(`'`), pair("`")), NotBefore(isWord))
	group := func(open, close string) Node {
		inner := Run(noneOf(open+close), 0, paren)
		return Seq(
			Lit(open), inner,
			Repeat(Seq(Lit(open), inner, Lit(close), inner), 0, nest),
			Lit(close),
		)
	}
	return Alt(
		triple,
		simple,
		group("(", ")"),
		group("[", "]"),
		Seq(Lit("$"), Run(noneOf("$"), 0, inline), Lit("$")),
		Seq(Lit("`"), Run(noneOf("`"), 0, inline), Lit("`")),
	)
}

func paragraphGrammar(b Bounds) Node {
	return Seq(
		Alt(LineStart, Seq(newline, newline)),
		Opt(Lit("<p>")),
		Boundary(1, b.Get(MaxParagraphLength), b.Get(LookaheadRange), Longest),
		Opt(Lit("</p>")),
		Ahead(Alt(Seq(newline, newline), LineEnd)),
	)
}

func htmlTagGrammar(b Bounds) Node {
	attrs := b.Get(MaxHTMLTagAttributesLength)
	return Seq(
		Lit("<"),
		Class(isASCIILetter),
		Run(notGT, 0, attrs),
		Alt(
			Seq(
				Lit(">"),
				LazyRun(anyRune, 0, b.Get(MaxHTMLTagContentLength)),
				Lit("</"), Run(isASCIILetter, 1, attrs), Lit(">"),
			),
			Seq(Run(isSpace, 0, maxBlankRun), Lit("/>")),
		),
	)
}

func latexGrammar(b Bounds) Node {
	return Alt(
		Seq(Lit("$$"), LazyRun(anyRune, 0, b.Get(MaxMathBlockLength)), Lit("$$")),
		Seq(Lit("$"), Run(noneOf("$"), 0, b.Get(MaxMathInlineLength)), Lit("$")),
	)
}

func fallbackGrammar(b Bounds) Node {
	return Boundary(1, b.Get(MaxStandaloneLineLength), b.Get(LookaheadRange), Longest)
}
