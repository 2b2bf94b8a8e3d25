// Copyright © 2024 The ELPS authors

// Package tdop lints ECMAScript source with a top down operator precedence
// parser.  The parser drives the lexer one token at a time and reports
// declarations and references to an analysis.Resolver as it goes.  No
// syntax tree survives a parse: the diagnostics and the scope summary are
// its only products.
package tdop

import (
	"errors"
	"strconv"

	"github.com/jshint/jshint-sub001/analysis"
	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/parser/lexer"
	"github.com/jshint/jshint-sub001/parser/token"
	"github.com/jshint/jshint-sub001/report"
)

// maxStalls bounds the number of times the parser may try to advance past
// the end of input before giving up.
const maxStalls = 1000

// Config controls a parse.
type Config struct {
	// File names the source in token locations.
	File string
	// Options are in force at the start of the file.  They are copied, so
	// directive comments never modify the caller's value.
	Options *options.Options
	// Predefined maps global names to their writability.  When nil the
	// table is derived from Options.
	Predefined map[string]bool
}

// Result is the outcome of a parse.
type Result struct {
	Diagnostics []report.Diagnostic
	Summary     *analysis.Summary
	// Options are the file level options once top level directives have
	// been applied.
	Options *options.Options
	// Incomplete is set when the parse stopped before the end of input.
	Incomplete bool
	// IgnoredLines holds the lines carrying an ignore:line directive.
	IgnoredLines map[int]bool
}

// OK reports whether the parse produced no diagnostics.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// bailout is the panic value used to abandon a parse.
type bailout struct {
	tooMany bool
}

// internalSource is a string argument to eval and friends which is linted
// after the file that contains it.
type internalSource struct {
	text string
	line int
	col  int
	opts *options.Options
}

// Parser holds the state of a single parse.  A Parser is not safe for
// concurrent use; the grammar it reads is.
type Parser struct {
	file string
	text string

	lex   *lexer.Lexer
	src   *tokenSource
	lines []string

	prev *Node
	curr *Node
	next *Node

	opts       *options.Stack
	predefined map[string]bool
	sink       *report.Sink
	res        *analysis.Resolver
	fs         *fstate

	inBlock      bool
	codeSeen     bool
	commaFirst   bool
	ignoredLines map[int]bool
	stalls       int

	nameTok  *Node
	nameHint string

	// Nested parses of eval strings report relative to the string.
	depth     int
	lineOff   int
	colOff    int
	internals []internalSource
	tooMany   bool
}

// Parse lints src and returns its diagnostics and summary.
func Parse(src []byte, cfg *Config) *Result {
	if cfg == nil {
		cfg = &Config{}
	}
	opts := options.Default()
	if cfg.Options != nil {
		opts = cfg.Options.Clone()
	}
	predefined := cfg.Predefined
	if predefined == nil {
		predefined = analysis.Predefined(opts)
	}
	sink := report.NewSink(opts.MaxErr)
	p := newParser(cfg.File, string(src), opts, predefined, sink)
	complete := p.run()
	return &Result{
		Diagnostics:  p.filterIgnored(sink.Diagnostics()),
		Summary:      p.res.Summary(),
		Options:      p.opts.Base(),
		Incomplete:   !complete,
		IgnoredLines: p.ignoredLines,
	}
}

func newParser(file, text string, opts *options.Options, predefined map[string]bool, sink *report.Sink) *Parser {
	p := &Parser{
		file:         file,
		text:         text,
		opts:         options.NewStack(opts),
		predefined:   predefined,
		sink:         sink,
		ignoredLines: make(map[int]bool),
		commaFirst:   true,
	}
	p.res = analysis.NewResolver(&analysis.Config{
		Options:    p.option,
		Predefined: predefined,
		Warn: func(code report.Code, line, col int, args ...string) {
			p.warnAt(code, line, col, args...)
		},
	})
	p.fs = &fstate{
		funct:      p.res.Current(),
		name:       "(global)",
		global:     true,
		directives: make(map[string]bool),
	}
	begin := &Node{sym: &Symbol{ID: "(begin)"}, ID: "(begin)", Line: 1, Col: 1, EndLine: 1, EndCol: 0}
	p.prev, p.curr, p.next = begin, begin, begin
	return p
}

// run parses the whole program.  It returns false when the parse was
// abandoned.
func (p *Parser) run() (complete bool) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			p.tooMany = b.tooMany
			complete = false
		}
	}()
	p.lex = lexer.New(token.NewScannerString(p.file, p.text), p.lexWarn)
	p.lines = p.lex.Lines()
	p.src = newTokenSource(p.lex)
	p.program()
	p.res.Finish()
	p.lintInternals()
	return true
}

func (p *Parser) program() {
	p.advance("", nil)
	p.directives()
	p.statements()
	for p.next.ID != "(end)" {
		p.warn("E024", p.next, p.next.display())
		p.advance("", nil)
		p.statements()
	}
}

// filterIgnored drops diagnostics on lines marked with ignore:line.
func (p *Parser) filterIgnored(diags []report.Diagnostic) []report.Diagnostic {
	if len(p.ignoredLines) == 0 {
		return diags
	}
	kept := diags[:0:0]
	for _, d := range diags {
		switch d.Code {
		case "E041", "E042", "E043":
		default:
			if p.ignoredLines[d.Line] {
				continue
			}
		}
		kept = append(kept, d)
	}
	return kept
}

// option returns the options in force at the current token.
func (p *Parser) option() *options.Options {
	return p.opts.Current()
}

func (p *Parser) isStrict() bool {
	o := p.option()
	return p.fs.strict || o.Module || o.Strict == options.StrictImplied
}

// inES reports whether syntax of the given edition is enabled.
func (p *Parser) inES(version int) bool {
	o := p.option()
	return o.ESVersion >= version || (version == 6 && o.Moz)
}

// requireES reports feature when the edition that introduced it is not
// enabled.
func (p *Parser) requireES(n *Node, version int, feature string) {
	if !p.inES(version) {
		p.warn("W119", n, feature, strconv.Itoa(version))
	}
}

// requireES6 reports ES2015 syntax which Mozilla's extensions also offer.
func (p *Parser) requireES6(n *Node, feature string) {
	if !p.option().InES6() {
		p.warn("W104", n, feature, "6")
	}
}

func (p *Parser) pos(n *Node) (int, int) {
	if n == nil {
		n = p.next
		if n.ID == "(end)" {
			n = p.curr
		}
	}
	return n.Line, n.Col
}

func (p *Parser) relocate(line, col int) (int, int) {
	if line == 1 {
		col += p.colOff
	}
	return line + p.lineOff, col
}

func (p *Parser) percent(line int) string {
	total := len(p.lines)
	if total == 0 {
		return "100"
	}
	pct := line * 100 / total
	if pct > 100 {
		pct = 100
	}
	return strconv.Itoa(pct)
}

// warn records a diagnostic at n, or at the next token when n is nil.
func (p *Parser) warn(code report.Code, n *Node, args ...string) {
	line, col := p.pos(n)
	p.warnAt(code, line, col, args...)
}

func (p *Parser) warnAt(code report.Code, line, col int, args ...string) {
	if p.option().IsIgnored(code) {
		return
	}
	pct := p.percent(line)
	line, col = p.relocate(line, col)
	err := p.sink.Add(report.Diagnostic{Code: code, Line: line, Col: col, Args: args})
	if errors.Is(err, report.ErrTooMany) {
		p.sink.Append(report.Diagnostic{Code: "E043", Line: line, Col: col, Args: []string{pct}})
		panic(bailout{tooMany: true})
	}
}

// fatal records code and a stop diagnostic, then abandons the parse.
func (p *Parser) fatal(code report.Code, n *Node, args ...string) {
	line, col := p.pos(n)
	p.fatalAt(code, line, col, args...)
}

func (p *Parser) fatalAt(code report.Code, line, col int, args ...string) {
	pct := p.percent(line)
	line, col = p.relocate(line, col)
	p.sink.Append(report.Diagnostic{Code: code, Line: line, Col: col, Args: args})
	p.sink.Append(report.Diagnostic{Code: "E042", Line: line, Col: col, Args: []string{pct}})
	panic(bailout{})
}

// lexWarn filters lexical diagnostics through the options in force.
func (p *Parser) lexWarn(code report.Code, line, col int, args ...string) {
	o := p.option()
	switch code {
	case "W125":
		if !o.Nonbsp {
			return
		}
	case "W043":
		if o.Multistr {
			return
		}
	}
	p.warnAt(code, line, col, args...)
}

// advance moves to the next token.  When id is given and the next token
// does not match it a diagnostic is reported and the token is consumed
// anyway; related names the token that opened the construct.
func (p *Parser) advance(id string, related *Node) {
	next := p.next
	if id != "" && next.ID != id {
		switch {
		case related != nil && next.ID == "(end)":
			p.warn("E019", related, related.ID)
		case related != nil:
			p.warn("E020", next, id, related.ID, strconv.Itoa(related.Line), next.display())
		case !(next.Identifier && next.Value == id):
			p.warn("E021", next, id, next.display())
		}
	}
	if p.curr.ID == "(end)" {
		p.stalls++
		if p.stalls > maxStalls {
			p.fatal("E041", p.curr)
		}
	}
	p.prev = p.curr
	p.curr = p.next
	if p.curr.ID != "(begin)" {
		p.codeSeen = true
	}
	for {
		n := p.src.Scan()
		if n.ID == "(comment)" {
			p.directive(n)
			continue
		}
		p.next = n
		break
	}
	if p.next.ID == "(error)" {
		p.lexFatal(p.next)
	}
}

func (p *Parser) lexFatal(n *Node) {
	if n.err == nil {
		p.fatal("E041", n)
	}
	p.fatalAt(n.err.Code, n.err.Line, n.err.Col, n.err.Args...)
}

// peek returns the i-th token after the next one.
func (p *Parser) peek(i int) *Node {
	return p.src.Peek(i)
}

// expression parses an expression whose operators bind tighter than rbp.
func (p *Parser) expression(c ctx, rbp int) *Node {
	initial := c&ctxInitial != 0
	c &^= ctxInitial
	if p.next.ID == "(end)" {
		p.fatal("E006", p.curr)
	}
	p.advance("", nil)
	n := p.curr
	if initial {
		p.fs.verb = n.Value
	}
	sym := n.sym
	if initial && sym.Fud != nil && (sym.UseFud == nil || sym.UseFud(p)) {
		return sym.Fud(p, n, c)
	}
	var left *Node
	if sym.Nud != nil {
		left = sym.Nud(p, n, c)
	} else {
		p.warn("E030", n, n.display())
		left = n
	}
	for rbp < p.next.sym.LBP && !p.isEndOfExpr(c) {
		p.advance("", nil)
		op := p.curr
		if op.sym.Led == nil {
			p.warn("E033", op, op.display())
			continue
		}
		left = op.sym.Led(p, op, c, left)
	}
	return left
}

// isEndOfExpr reports whether the next token cannot continue the current
// expression.  A line break ends an expression when both tokens are of the
// same class (operators or operands) or a token forbids the break.
func (p *Parser) isEndOfExpr(c ctx) bool {
	return endsExpr(p.curr, p.next, c)
}

func endsExpr(curr, next *Node, c ctx) bool {
	if next.ID == "in" && c&ctxNoIn != 0 {
		return true
	}
	switch next.ID {
	case ";", "}", ":":
		return true
	}
	if next.sym.Infix == curr.sym.Infix || curr.sym.LTBoundary == ltAfter || next.sym.LTBoundary == ltBefore {
		return !sameLine(curr, next)
	}
	return false
}

// noBreakBefore reports a line break in front of the operator n.
func (p *Parser) noBreakBefore(n *Node) {
	if !p.option().Laxbreak && p.prev.EndLine != n.Line {
		p.warn("W014", n, n.ID)
	}
}

// commaBreak reports a comma at the start of a line.
func (p *Parser) commaBreak(left, right *Node) {
	if left.EndLine == right.Line || p.option().Laxcomma {
		return
	}
	if p.commaFirst {
		p.warn("I001", right)
		p.commaFirst = false
	}
	p.warn("W014", left, right.display())
}

// commaStops lists words which cannot start the operand after a comma.
var commaStops = map[string]bool{
	"break": true, "case": true, "catch": true, "continue": true, "default": true,
	"do": true, "else": true, "finally": true, "for": true, "if": true, "in": true,
	"instanceof": true, "return": true, "switch": true, "throw": true, "try": true,
	"var": true, "let": true, "while": true, "with": true,
}

// parseComma consumes a comma separating list elements and reports
// whether another element follows.  Closing brackets after the comma are
// accepted when trailing is set.
func (p *Parser) parseComma(trailing bool) bool {
	p.commaBreak(p.curr, p.next)
	p.advance(",", nil)
	return p.afterComma(trailing)
}

func (p *Parser) afterComma(trailing bool) bool {
	next := p.next
	if next.Identifier && commaStops[next.ID] {
		p.warn("E024", next, next.display())
		return false
	}
	switch next.ID {
	case "}", "]", ",", ")":
		if trailing {
			return true
		}
		p.warn("E024", next, next.display())
		return false
	}
	return true
}

// setNameHint remembers the name an anonymous function on the right of op
// takes from left.
func (p *Parser) setNameHint(left, op *Node) {
	switch {
	case isName(left):
		p.nameHint = left.Value
	case left != nil && left.ID == "." && left.Right != nil:
		p.nameHint = left.Right.Value
	case left != nil && (left.ID == "(string)" || left.Identifier || left.ID == "(number)"):
		p.nameHint = left.Value
	default:
		p.nameTok = nil
		return
	}
	p.nameTok = op
}

// hintedName returns the name for a function expression starting at the
// current token.
func (p *Parser) hintedName() string {
	if p.nameTok != nil && p.prev == p.nameTok {
		return p.nameHint
	}
	return ""
}

// lintInternals lints the queued eval strings against the options in force
// where they appeared.  Their diagnostics share the sink of the file.
func (p *Parser) lintInternals() {
	for _, in := range p.internals {
		predefined := make(map[string]bool, len(p.predefined))
		for name, w := range p.predefined {
			predefined[name] = w
		}
		for _, b := range p.res.Funct(0).Bindings() {
			predefined[b.Name] = true
		}
		q := newParser(p.file, in.text, in.opts, predefined, p.sink)
		q.depth = p.depth + 1
		q.lineOff = in.line - 1 + p.lineOff
		q.colOff = in.col
		if in.line == 1 {
			q.colOff += p.colOff
		}
		if !q.run() && q.tooMany {
			panic(bailout{tooMany: true})
		}
	}
}

// addInternal queues the string literal s for linting.
func (p *Parser) addInternal(s *Node) {
	if p.depth > 0 || s == nil || s.ID != "(string)" {
		return
	}
	p.internals = append(p.internals, internalSource{
		text: s.Value,
		line: s.Line,
		col:  s.Col,
		opts: p.option().Clone(),
	})
}
