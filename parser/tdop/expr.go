// Copyright © 2024 The ELPS authors

package tdop

import (
	"regexp"
	"strconv"

	"github.com/jshint/jshint-sub001/parser/lexer"
	"github.com/jshint/jshint-sub001/parser/token"
	"github.com/jshint/jshint-sub001/report"
)

// bangOperands are operators whose negation with a leading ! is confusing.
var bangOperands = map[string]bool{
	"<": true, "<=": true, "==": true, "===": true, "!==": true, "!=": true,
	">": true, ">=": true, "+": true, "-": true, "*": true, "/": true, "%": true,
}

// futureStrict lists names reserved only in strict mode code.
var futureStrict = map[string]bool{
	"implements": true, "interface": true, "package": true, "private": true,
	"protected": true, "public": true, "static": true, "let": true, "yield": true,
}

// nativeObjects are the builtins whose prototypes freeze protects.
var nativeObjects = map[string]bool{
	"Array": true, "ArrayBuffer": true, "Boolean": true, "Collator": true, "DataView": true,
	"Date": true, "DateTimeFormat": true, "Error": true, "EvalError": true,
	"Float32Array": true, "Float64Array": true, "Function": true, "Infinity": true,
	"Intl": true, "Int16Array": true, "Int32Array": true, "Int8Array": true,
	"Iterator": true, "Number": true, "NumberFormat": true, "Object": true,
	"RangeError": true, "ReferenceError": true, "RegExp": true, "StopIteration": true,
	"String": true, "SyntaxError": true, "TypeError": true, "Uint16Array": true,
	"Uint32Array": true, "Uint8Array": true, "Uint8ClampedArray": true, "URIError": true,
}

var scriptURL = regexp.MustCompile(`(?i)^\s*(javascript|jscript|ecmascript|vbscript|livescript)\s*:`)

// isReserved reports whether the word n may not be used as a binding name
// where it appears.
func (p *Parser) isReserved(n *Node) bool {
	if n == nil || !n.Identifier {
		return false
	}
	if n.ID != "(identifier)" {
		return n.sym.Reserved
	}
	if futureStrict[n.Value] && p.isStrict() {
		return true
	}
	if n.Value == "await" && (p.option().Module || p.fs.async) {
		return true
	}
	return false
}

// optionalIdentifier consumes the next token when it is a name.  Reserved
// words are accepted as property names from ES5 on, and elsewhere reported
// and consumed.
func (p *Parser) optionalIdentifier(prop bool) *Node {
	n := p.next
	if !n.Identifier {
		return nil
	}
	p.advance("", nil)
	if !p.isReserved(n) {
		return n
	}
	if prop && (p.inES(5) || n.ID == "this" || n.ID == "true" || n.ID == "false" || n.ID == "null") {
		return n
	}
	p.warn("W024", n, n.Value)
	return n
}

// identifier consumes a required name.
func (p *Parser) identifier(prop bool) *Node {
	if n := p.optionalIdentifier(prop); n != nil {
		return n
	}
	p.warn("E030", p.next, p.next.display())
	if p.next.ID != ";" && !p.next.sym.Reach {
		p.advance("", nil)
	}
	return nil
}

// prefixWord registers a reserved word used as a prefix operator.
func (g grammar) prefixWord(id string, nud nudFn) *Symbol {
	s := g.prefix(id, nud)
	s.Identifier = true
	s.Reserved = true
	return s
}

func registerOperators(g grammar) {
	// Operators with both forms get their infix binding power first.
	g.infix(",", 10, commaLed, true)
	for _, op := range []string{"=", "+=", "-=", "*=", "/=", "%="} {
		g.assignOp(op, 0, false)
	}
	for _, op := range []string{"&=", "|=", "^=", "<<=", ">>=", ">>>="} {
		g.assignOp(op, 0, true)
	}
	g.assignOp("**=", 7, false)
	for _, op := range []string{"&&=", "||=", "??="} {
		g.assignOp(op, 12, false)
	}
	g.infix("?", 30, ternaryLed, false)
	g.infix("||", 40, logicalLed(40, ""), false)
	g.infix("??", 40, logicalLed(40, "nullish coalescing"), false)
	g.infix("&&", 50, logicalLed(50, ""), false)
	g.bitwise("|", 70)
	g.bitwise("^", 80)
	g.bitwise("&", 90)
	for _, op := range []string{"==", "===", "!=", "!=="} {
		g.relation(op, checkEquality)
	}
	for _, op := range []string{"<", ">", "<=", ">="} {
		g.relation(op, nil)
	}
	in := g.relation("in", nil)
	in.Identifier, in.Reserved = true, true
	instanceOf := g.relation("instanceof", func(p *Parser, n *Node) {
		if n.Right != nil && n.Right.ID == "function" && !n.Right.Paren {
			p.warn("W139", n.Right)
		}
	})
	instanceOf.Identifier, instanceOf.Reserved = true, true
	g.bitwise("<<", 120)
	g.bitwise(">>", 120)
	g.bitwise(">>>", 120)
	g.infix("+", 130, signLed("+", "W007"), false)
	g.infix("-", 130, signLed("-", "W006"), false)
	g.infix("*", 140, nil, false)
	g.infix("/", 140, nil, false)
	g.infix("%", 140, nil, false)
	g.infix("**", 150, func(p *Parser, n *Node, c ctx, left *Node) *Node {
		p.requireES(n, 7, "Exponentiation operator")
		n.Left = left
		n.Right = p.expression(c, 149)
		return n
	}, false)
	g.infix("(", 155, callLed, true)
	g.infix("[", 160, subscriptLed, true)
	g.infix(".", 160, dotLed, true)
	g.infix("?.", 160, optionalLed, true)

	g.prefix("+", signNud("+", "W007"))
	g.prefix("-", signNud("-", "W006"))
	g.prefix("!", func(p *Parser, n *Node, c ctx) *Node {
		n.Right = p.expression(c, 150)
		if n.Right != nil && bangOperands[n.Right.ID] && !n.Right.Paren {
			p.warn("W018", n, "!")
		}
		return n
	})
	g.prefix("~", func(p *Parser, n *Node, c ctx) *Node {
		if p.option().Bitwise {
			p.warn("W016", n, "~")
		}
		n.Right = p.expression(c, 150)
		return n
	})
	g.prefixWord("typeof", func(p *Parser, n *Node, c ctx) *Node {
		n.Right = p.expression(c, 150)
		if n.Right != nil && isName(n.Right) {
			p.res.Forgive(n.Right.Ref)
		}
		return n
	})
	g.prefixWord("void", func(p *Parser, n *Node, c ctx) *Node {
		n.Right = p.expression(c, 150)
		n.Exps = true
		return n
	})
	g.prefixWord("delete", func(p *Parser, n *Node, c ctx) *Node {
		n.Right = p.expression(c, 150)
		if isName(n.Right) && !n.Right.Paren {
			p.warn("W051", n.Right)
		}
		n.Exps = true
		return n
	})
	g.prefixWord("new", newNud)

	for _, op := range []string{"++", "--"} {
		op := op
		s := g.prefix(op, func(p *Parser, n *Node, c ctx) *Node {
			if p.option().Plusplus {
				p.warn("W016", n, op)
			}
			n.Right = p.expression(c, 150)
			p.checkAssignTarget(n.Right, n)
			if n.Right != nil {
				p.res.MarkWrite(n.Right.Ref)
			}
			n.Exps = true
			return n
		})
		s.LTBoundary = ltBefore
		s.Led = func(p *Parser, n *Node, c ctx, left *Node) *Node {
			if p.option().Plusplus {
				p.warn("W016", n, op)
			}
			p.checkAssignTarget(left, n)
			if left != nil {
				p.res.MarkWrite(left.Ref)
			}
			n.Left = left
			n.Exps = true
			return n
		}
	}

	g["("].Nud = parenNud
	g["["].Nud = arrayNud
	g.symbol("{", 0).Nud = objectNud
}

func commaLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	if p.option().Nocomma {
		p.warn("W127", n)
	}
	p.commaBreak(p.prev, n)
	n.List = []*Node{left}
	if !p.afterComma(false) {
		return n
	}
	for {
		n.List = append(n.List, p.expression(c, 10))
		if p.next.ID != "," || p.isEndOfExpr(c) {
			break
		}
		if !p.parseComma(false) {
			break
		}
	}
	n.Left = left
	return n
}

func ternaryLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	p.res.Metrics().Complexity++
	n.Left = left
	n.Right = p.expression(c&^ctxNoIn, 10)
	p.advance(":", nil)
	n.Third = p.expression(c, 10)
	return n
}

func logicalLed(bp int, feature string) ledFn {
	return func(p *Parser, n *Node, c ctx, left *Node) *Node {
		if feature != "" {
			p.requireES(n, 11, feature)
		}
		p.res.Metrics().Complexity++
		n.Left = left
		n.Right = p.expression(c, bp)
		return n
	}
}

// signLed parses binary + and -, reporting a doubled sign.
func signLed(op string, code report.Code) ledFn {
	return func(p *Parser, n *Node, c ctx, left *Node) *Node {
		if p.next.ID == op || p.next.ID == op+op {
			p.warn(code, p.next)
		}
		n.Left = left
		n.Right = p.expression(c, 130)
		return n
	}
}

func signNud(op string, code report.Code) nudFn {
	return func(p *Parser, n *Node, c ctx) *Node {
		if p.next.ID == op || p.next.ID == op+op {
			p.warn(code, p.next)
		}
		n.Right = p.expression(c, 150)
		return n
	}
}

// checkEquality applies the eqeqeq, eqnull and typeof checks to an
// equality operator.
func checkEquality(p *Parser, n *Node) {
	o := p.option()
	if n.ID == "==" || n.ID == "!=" {
		strict := n.ID + "="
		eqnull := o.Eqnull && (isValue(n.Left, "null") || isValue(n.Right, "null"))
		switch {
		case o.Eqeqeq && !eqnull:
			p.warn("W116", n, strict, n.ID)
		case o.Eqeqeq:
		case p.isPoorRelation(n.Left):
			p.warn("W041", n, strict, n.Left.display())
		case p.isPoorRelation(n.Right):
			p.warn("W041", n, strict, n.Right.display())
		}
	}
	if o.Notypeof {
		return
	}
	if bad := p.badTypeof(n.Left, n.Right); bad != "" {
		p.warn("W122", n, bad)
	} else if bad := p.badTypeof(n.Right, n.Left); bad != "" {
		p.warn("W122", n, bad)
	}
}

func isValue(n *Node, id string) bool {
	return n != nil && n.ID == id
}

// isPoorRelation reports operands whose loose comparison is surprising.
func (p *Parser) isPoorRelation(n *Node) bool {
	if n == nil || n.Paren {
		return false
	}
	switch n.ID {
	case "(number)":
		v, err := strconv.ParseFloat(n.Value, 64)
		return err == nil && v == 0
	case "(string)":
		return n.Value == ""
	case "null":
		return !p.option().Eqnull
	case "true", "false":
		return true
	}
	return isIdent(n, "undefined")
}

// badTypeof returns the compared string when typeofSide is a typeof
// expression and other a string no typeof can produce.
func (p *Parser) badTypeof(typeofSide, other *Node) string {
	if typeofSide == nil || other == nil || typeofSide.ID != "typeof" || other.ID != "(string)" {
		return ""
	}
	switch other.Value {
	case "undefined", "object", "boolean", "number", "string", "function", "xml", "unknown":
		return ""
	case "symbol":
		if p.inES(6) {
			return ""
		}
	case "bigint":
		if p.inES(11) {
			return ""
		}
	}
	return other.Value
}

// checkAssignTarget reports a left hand side which cannot be assigned.
func (p *Parser) checkAssignTarget(left, op *Node) bool {
	if left == nil {
		return false
	}
	o := p.option()
	switch {
	case left.Pattern:
		return true
	case left.ID == "?.":
	case isMember(left):
		if o.Freeze {
			if name := nativePrototype(left); name != "" {
				p.warn("W121", left, name)
			}
		}
		if isIdent(left.Left, "arguments") && !p.isStrict() {
			p.warn("W143", left)
		}
		return true
	case isName(left):
		if p.isStrict() && (left.Value == "eval" || left.Value == "arguments") {
			p.warn("E031", left)
			return false
		}
		return true
	}
	p.warn("E031", left)
	return false
}

// nativePrototype returns the builtin whose prototype the member
// expression n writes to.
func nativePrototype(n *Node) string {
	if n.ID == "." && n.Right != nil && n.Right.Value == "prototype" && isName(n.Left) && nativeObjects[n.Left.Value] {
		return n.Left.Value
	}
	if isMember(n) && n.Left != nil && n.Left.ID == "." {
		return nativePrototype(n.Left)
	}
	return ""
}

func identifierNud(p *Parser, n *Node, c ctx) *Node {
	name := n.Value
	if n.Tok == nil || !n.Tok.Escaped {
		switch name {
		case "async":
			if !sameLine(n, p.next) {
				break
			}
			switch {
			case p.next.ID == "function":
				hint := p.hintedName()
				p.advance("function", nil)
				return p.functionExpression(p.curr, hint, true)
			case p.next.ID == "(identifier)" && p.peek(0).ID == "=>":
				hint := p.hintedName()
				p.advance("", nil)
				return p.arrowFunction(n, p.curr, hint, true)
			case p.next.ID == "(" && p.isArrowAhead(0):
				hint := p.hintedName()
				p.advance("(", nil)
				return p.arrowFunction(p.curr, nil, hint, true)
			}
		case "yield":
			if p.fs.generator {
				return p.yieldExpression(n, c)
			}
			if p.inES(6) && p.isStrict() {
				p.warn("E046", n)
				return p.yieldExpression(n, c)
			}
		case "await":
			if p.fs.async || (p.fs.global && p.option().Module && p.inES(13)) {
				n.Right = p.expression(c, 150)
				n.Exps = true
				return n
			}
		}
	}
	if p.next.ID == "=>" {
		return p.arrowFunction(n, n, p.hintedName(), false)
	}
	if p.next.ID == "=" {
		n.Ref = p.res.Assign(name, n.Line, n.Col)
	} else {
		n.Ref = p.res.Use(name, n.Line, n.Col)
	}
	return n
}

// yieldExpression parses the operand of yield inside a generator.
func (p *Parser) yieldExpression(n *Node, c ctx) *Node {
	p.fs.yielded = true
	n.Exps = true
	if p.next.ID == "*" {
		p.advance("*", nil)
		n.Right = p.expression(c, 10)
		return n
	}
	if !sameLine(n, p.next) || p.next.sym.Reach {
		return n
	}
	switch p.next.ID {
	case ")", "]", ",", ";", ":":
		return n
	}
	n.Right = p.expression(c, 10)
	return n
}

func thisNud(p *Parser, n *Node, c ctx) *Node {
	fs := p.fs
	if !p.isStrict() || fs.method || p.option().Validthis {
		return n
	}
	if fs.global || (fs.statement && fs.name != "" && fs.name[0] > 'Z') {
		p.warn("W040", n)
	}
	return n
}

func superNud(p *Parser, n *Node, c ctx) *Node {
	fs := p.fs
	for fs.arrow && fs.parent != nil {
		fs = fs.parent
	}
	switch p.next.ID {
	case "(":
		if !fs.ctor {
			p.warn("E064", n)
		}
	case ".", "[", "?.":
		if !fs.method {
			p.warn("E063", n)
		}
	default:
		p.warn("E024", p.next, p.next.display())
	}
	return n
}

func numberNud(p *Parser, n *Node, c ctx) *Node {
	if n.Tok.Base == token.BaseLegacyOctal && p.isStrict() {
		p.warn("W115", n)
	}
	return n
}

func stringNud(p *Parser, n *Node, c ctx) *Node {
	if n.Tok.OctalEscape && p.isStrict() {
		p.warn("W115", n)
	}
	if !p.option().Scripturl && scriptURL.MatchString(n.Value) {
		p.warn("W107", n)
	}
	return n
}

func templateNud(p *Parser, n *Node, c ctx) *Node {
	p.requireES(n, 6, "template literal syntax")
	if n.Tok.Type == token.TEMPLATE_HEAD {
		p.templateRest()
	}
	return n
}

func taggedTemplateLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	p.requireES(n, 6, "template literal syntax")
	n.Left = left
	if n.Tok.Type == token.TEMPLATE_HEAD {
		p.templateRest()
	}
	n.Exps = true
	return n
}

// templateRest parses the substitutions of a template after its head.
func (p *Parser) templateRest() {
	for {
		switch p.next.ID {
		case "(template middle)":
			p.warn("E030", p.next, "}")
			p.advance("", nil)
			continue
		case "(template tail)":
			p.warn("E030", p.next, "}")
			p.advance("", nil)
			return
		case "(end)":
			return
		}
		p.expression(0, 0)
		switch p.next.ID {
		case "(template middle)":
			p.advance("", nil)
		case "(template tail)":
			p.advance("", nil)
			return
		default:
			p.warn("E024", p.next, p.next.display())
			return
		}
	}
}

func callLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	n.Left = left
	n.Exps = true
	var args []*Node
	if p.next.ID != ")" {
		for {
			if p.next.ID == "..." {
				p.advance("...", nil)
				p.requireES(p.curr, 6, "spread operator")
			}
			args = append(args, p.expression(0, 10))
			if p.next.ID != "," {
				break
			}
			if !p.parseComma(true) {
				break
			}
			if p.next.ID == ")" {
				p.requireES(p.curr, 8, "Trailing comma in arguments lists")
				break
			}
		}
	}
	p.advance(")", n)
	n.List = args
	p.checkCall(n, left, args)
	return n
}

// checkCall reports suspicious calls once the arguments are known.
func (p *Parser) checkCall(n, left *Node, args []*Node) {
	if left == nil {
		return
	}
	o := p.option()
	if left.ID == "new" && left.Right != nil && len(args) == 0 {
		switch {
		case isIdent(left.Right, "Array"):
			p.warn("W009", left)
		case isIdent(left.Right, "Object"):
			p.warn("W010", left)
		}
	}
	if !isName(left) || left.Paren {
		if left.ID == "." && isIdent(left.Left, "window") && left.Right != nil &&
			(left.Right.Value == "setTimeout" || left.Right.Value == "setInterval") &&
			len(args) > 0 && args[0].ID == "(string)" {
			if !o.Evil {
				p.warn("W066", left)
			}
			p.addInternal(args[0])
		}
		return
	}
	switch left.Value {
	case "eval", "Function", "execScript":
		if !o.Evil {
			p.warn("W061", left, left.Value)
		}
		if len(args) > 0 {
			p.addInternal(args[0])
		}
	case "setTimeout", "setInterval":
		if len(args) > 0 && args[0].ID == "(string)" {
			if !o.Evil {
				p.warn("W066", left)
			}
			p.addInternal(args[0])
		}
	case "parseInt":
		if len(args) == 1 && !p.inES(5) {
			p.warn("W065", n)
		}
	case "Math":
		p.warn("W063", left)
	case "Object":
		if len(args) == 0 {
			p.warn("W010", left)
		}
	}
}

func newNud(p *Parser, n *Node, c ctx) *Node {
	if p.next.ID == "." {
		p.advance(".", nil)
		prop := p.identifier(true)
		p.requireES(n, 6, "new.target")
		if prop != nil && prop.Value != "target" {
			p.warn("E057", prop, "new", prop.Value)
		}
		return n
	}
	o := p.option()
	callee := p.expression(c, 155)
	n.Right = callee
	n.Exps = true
	switch {
	case callee == nil:
	case callee.ID == "function":
		p.warn("W057", n)
	case isName(callee):
		switch callee.Value {
		case "Number", "String", "Boolean", "Math", "JSON":
			p.warn("W053", callee, callee.Value)
		case "Symbol":
			if p.inES(6) {
				p.warn("W053", callee, callee.Value)
			}
		case "Function":
			if !o.Evil {
				p.warn("W054", callee)
			}
		}
	case callee.ID != "." && callee.ID != "[" && callee.ID != "(" && callee.ID != "class" && callee.ID != "this":
		p.warn("W056", callee)
	}
	if p.next.ID != "(" && !o.Supernew {
		p.warn("W058", p.curr)
	}
	return n
}

func dotLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	n.Left = left
	if left != nil && left.ID == "(number)" && !left.Paren {
		p.warn("W005", left)
	}
	if p.next.ID == "#" {
		p.advance("#", nil)
		p.requireES(p.curr, 13, "Private members")
	}
	prop := p.identifier(true)
	if prop == nil {
		return n
	}
	n.Right = prop
	p.checkProperty(left, prop, prop.Value)
	return n
}

// checkProperty applies the member access checks shared by dot and bracket
// notation.
func (p *Parser) checkProperty(left, at *Node, name string) {
	o := p.option()
	switch name {
	case "hasOwnProperty":
		if p.next.ID == "=" {
			p.warn("W001", at)
		}
	case "callee", "caller":
		if isIdent(left, "arguments") {
			if o.Noarg {
				p.warn("W059", left, name)
			} else if p.isStrict() {
				p.warn("E008", left)
			}
		}
	case "write", "writeln":
		if isIdent(left, "document") && !o.Evil {
			p.warn("W060", left)
		}
	case "eval", "execScript":
		if !o.Evil && (isIdent(left, "window") || isIdent(left, "self") || isIdent(left, "global")) {
			p.warn("W061", at, name)
		}
	case "__proto__":
		if !o.Proto {
			p.warn("W103", at, name)
		}
	case "__iterator__":
		if !o.Iterator {
			p.warn("W103", at, name)
		}
	}
}

func subscriptLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	n.Left = left
	e := p.expression(0, 0)
	n.Right = e
	if e != nil && e.ID == "(string)" {
		p.checkProperty(left, e, e.Value)
		if !p.option().Sub && lexer.IsIdentifierName(e.Value) {
			if s := Lookup(e.Value); s == nil || !s.Reserved {
				p.warn("W069", e, e.Value)
			}
		}
	}
	p.advance("]", n)
	return n
}

func optionalLed(p *Parser, n *Node, c ctx, left *Node) *Node {
	p.requireES(n, 11, "Optional chaining")
	n.Left = left
	switch p.next.ID {
	case "(":
		p.advance("(", nil)
		return callLed(p, p.curr, c, n)
	case "[":
		p.advance("[", nil)
		return subscriptLed(p, p.curr, c, n)
	}
	n.Right = p.identifier(true)
	return n
}

func parenNud(p *Parser, n *Node, c ctx) *Node {
	if p.isArrowAhead(1) {
		return p.arrowFunction(n, nil, p.hintedName(), false)
	}
	if p.next.ID == ")" {
		p.warn("E024", p.next, ")")
		p.advance(")", n)
		return n
	}
	var exprs []*Node
	for {
		exprs = append(exprs, p.expression(c&^ctxNoIn, 10))
		if p.next.ID != "," {
			break
		}
		if p.option().Nocomma {
			p.warn("W127", p.next)
		}
		if !p.parseComma(false) {
			break
		}
	}
	p.advance(")", n)
	ret := exprs[0]
	if len(exprs) > 1 {
		ret = &Node{
			sym: Lookup(","), ID: ",", Value: ",",
			Line: n.Line, Col: n.Col, EndLine: p.curr.EndLine, EndCol: p.curr.EndCol,
			Left: exprs[0], List: exprs,
		}
	} else if ret == nil {
		return n
	} else if p.option().SingleGroups && simpleOperand(ret) && p.next.ID != "=>" {
		p.warn("W126", n)
	}
	ret.Paren = true
	return ret
}

// simpleOperand reports expressions which never need grouping.
func simpleOperand(n *Node) bool {
	if n.Paren {
		return false
	}
	switch n.ID {
	case "(identifier)", "(number)", "(string)", "(regexp)", "this", "null", "true", "false", ".":
		return true
	}
	return n.ID == "[" && n.Left != nil
}

func arrayNud(p *Parser, n *Node, c ctx) *Node {
	switch p.classifyBracket() {
	case bracketPattern:
		p.requireES6(n, "destructuring assignment")
		p.patternBody(n, patternAssign)
		n.Pattern = true
		return n
	case bracketComprehension:
		return p.comprehension(n, c)
	}
	p.arrayLiteral(n)
	return n
}

func objectNud(p *Parser, n *Node, c ctx) *Node {
	if p.classifyBracket() == bracketPattern {
		p.requireES6(n, "destructuring assignment")
		p.patternBody(n, patternAssign)
		n.Pattern = true
		return n
	}
	p.objectLiteral(n)
	return n
}
