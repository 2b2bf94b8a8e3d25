// Copyright © 2024 The ELPS authors

package tdop

import (
	"strconv"

	"github.com/jshint/jshint-sub001/analysis"
	"github.com/jshint/jshint-sub001/options"
)

type blockFlags uint8

const (
	// blockOrdinary marks blocks which are statements in their own right,
	// as opposed to try, catch and function bodies.
	blockOrdinary blockFlags = 1 << iota
	// blockStatement marks bodies of control statements, which may omit
	// their braces.
	blockStatement
	blockFunction
	blockArrow
	// blockCase marks a braced block directly inside a case clause.
	blockCase
	// blockIf marks the branches of an if statement, where a function
	// declaration is tolerated.
	blockIf
)

// effect reports whether an expression statement does something.
func effect(n *Node) bool {
	return n != nil && (n.Exps || n.sym.Exps)
}

// terminal reports whether verb ends the flow of control.
func terminal(verb string) bool {
	switch verb {
	case "break", "continue", "return", "throw":
		return true
	}
	return false
}

// statements parses statements until a token which ends a statement list.
// It returns the first statement and the number parsed.
func (p *Parser) statements() (*Node, int) {
	var first *Node
	count := 0
	for !p.next.sym.Reach {
		if p.next.ID == ";" {
			if after := p.peek(0); after.ID != "(" && after.ID != "[" {
				p.warn("W032", p.next)
			}
			p.advance(";", nil)
			continue
		}
		t := p.next
		p.statement()
		if first == nil {
			first = t
		}
		count++
	}
	return first, count
}

// statement parses one statement and returns the node which describes it.
func (p *Parser) statement() *Node {
	t := p.next
	if t.ID == ";" {
		p.advance(";", nil)
		return nil
	}

	if t.Identifier && !p.isReserved(t) && p.peek(0).ID == ":" {
		p.advance("", nil)
		p.advance(":", nil)
		p.res.AddLabel(t.Value, t.Line, t.Col)
		defer p.res.PopLabel(t.Value)
		if !p.next.sym.Labelled && p.next.ID != "{" {
			p.warn("W028", p.next, t.Value, p.next.display())
		}
		t = p.next
	}

	switch {
	case t.ID == "{":
		flags := blockOrdinary | blockStatement
		if p.fs.verb == "case" && p.curr.ID == ":" {
			flags |= blockCase
		}
		p.block(0, flags)
		return t
	case p.startsLet():
		p.advance("", nil)
		n := p.curr
		p.fs.verb = "let"
		p.lexicalDeclaration(n, 0, analysis.KindLet, false)
		p.parseFinalSemicolon(n)
		return n
	case isIdent(t, "async") && p.peek(0).ID == "function" && sameLine(t, p.peek(0)):
		p.advance("", nil)
		p.advance("function", nil)
		return p.functionDeclaration(p.curr, true)
	}

	r := p.expression(ctxInitial, 0)
	if r != nil && r.Decl != "Function" {
		p.checkMissingStrict()
	}
	if !t.sym.Block {
		o := p.option()
		switch {
		case !o.Expr && !effect(r):
			p.warn("W030", p.curr)
		case o.Nonew && r != nil && r.ID == "(" && r.Left != nil && r.Left.ID == "new":
			p.warn("W031", t)
		}
		p.parseFinalSemicolon(t)
	}
	return r
}

// checkMissingStrict reports code outside a "use strict" function when the
// options require one.
func (p *Parser) checkMissingStrict() {
	if !p.fs.global || p.fs.strictReported || p.isStrict() {
		return
	}
	o := p.option()
	if o.Strict == options.StrictGlobal || (o.Globalstrict && o.Strict == options.StrictOff) {
		p.warn("E007", nil)
		p.fs.strictReported = true
	}
}

// parseFinalSemicolon consumes the semicolon which ends stmt, reporting it
// when automatic semicolon insertion had to supply it.
func (p *Parser) parseFinalSemicolon(stmt *Node) {
	if p.next.ID == ";" {
		p.advance(";", nil)
		return
	}
	if p.curr.Tok != nil && p.curr.Tok.Unclosed {
		return
	}
	same := sameLine(p.curr, p.next) && p.next.ID != "(end)"
	blockEnd := p.next.ID == "}"
	if same && !blockEnd && !(stmt.ID == "do" && p.inES(6)) {
		p.warnAt("E058", p.curr.EndLine, p.curr.EndCol+1)
		return
	}
	o := p.option()
	if o.Asi || (blockEnd && same && o.Lastsemic) {
		return
	}
	p.warnAt("W033", p.curr.EndLine, p.curr.EndCol+1)
}

// block parses a braced block, a function body or the braceless body of a
// control statement.  It returns the first statement and the statement
// count.
func (p *Parser) block(c ctx, flags blockFlags) (*Node, int) {
	ordinary := flags&blockOrdinary != 0
	isFunc := flags&blockFunction != 0
	saved := p.inBlock
	p.inBlock = ordinary
	defer func() { p.inBlock = saved }()

	var first *Node
	count := 0
	switch {
	case p.next.ID == "{":
		open := p.next
		m := p.res.Metrics()
		m.Depth++
		if m.Depth > m.MaxDepth {
			m.MaxDepth = m.Depth
		}
		if max := p.option().MaxDepth; max > 0 && m.Depth == max+1 {
			p.warn("W073", open, strconv.Itoa(m.Depth))
		}
		p.opts.Push()
		p.res.PushBlock(isFunc)
		p.advance("{", nil)
		if isFunc {
			p.directives()
			o := p.option()
			if (o.Strict == options.StrictFunc || o.Strict == options.StrictGlobal) &&
				p.fs.parent != nil && p.fs.parent.global && !p.isStrict() {
				p.warn("E007", nil)
			}
		}
		first, count = p.statements()
		m.Statements += count
		p.res.PopBlock()
		p.opts.Pop()
		p.advance("}", open)
		m.Depth--
	case isFunc && !ordinary:
		if flags&blockArrow == 0 && !p.option().Moz {
			p.warn("W118", p.curr, "function closure expressions")
		}
		first = p.expression(c, 10)
		count = 1
	case !ordinary:
		p.warn("E021", p.next, "{", p.next.display())
	default:
		p.res.PushBlock(false)
		if flags&blockStatement == 0 || p.option().Curly {
			p.warn("W116", p.next, "{", p.next.display())
		}
		p.next.InBraceless = true
		first = p.next
		r := p.statement()
		count = 1
		if r != nil && r.Decl != "" && !(r.Decl == "Function" && flags&blockIf != 0) {
			p.warn("E048", r, r.Decl)
		}
		p.res.PopBlock()
	}

	if !(flags&blockCase != 0 && terminal(p.fs.verb)) {
		p.fs.verb = ""
	}
	if ordinary && count == 0 && p.option().Noempty {
		p.warn("W035", p.prev)
	}
	return first, count
}

// directives parses the directive prologue of a program or function body.
func (p *Parser) directives() {
	for p.next.ID == "(string)" {
		after := p.peek(0)
		if after.ID != "(end)" && !endsExpr(p.next, after, 0) {
			return
		}
		p.advance("", nil)
		d := p.curr
		val := d.Value
		o := p.option()
		if p.fs.directives[val] || (val == "use strict" && o.Strict == options.StrictImplied) {
			p.warn("W034", d, val)
		}
		p.fs.directives[val] = true
		if val == "use strict" {
			if p.inES(7) && !p.fs.global && !p.fs.simpleParams {
				p.warn("E065", d)
			}
			p.fs.strict = true
			p.res.Current().Strict = true
			if p.fs.global && o.Strict != options.StrictGlobal && !o.Globalstrict && !o.Module && !o.Node {
				p.warn("W097", d)
			}
		}
		p.parseFinalSemicolon(d)
	}
}

// reachable reports a statement following the jump ctrl in the same block.
func (p *Parser) reachable(ctrl *Node) {
	if p.next.ID != ";" || ctrl.InBraceless {
		return
	}
	t := p.peek(0)
	if t.sym.Reach {
		return
	}
	if t.ID == "function" {
		if p.option().Latedef == options.LatedefOn {
			p.warn("W026", t)
		}
		return
	}
	p.warn("W027", t, t.display(), ctrl.Value)
}

// checkCondAssignment reports an assignment used as a condition.
func (p *Parser) checkCondAssignment(n *Node) {
	if n == nil || n.Paren {
		return
	}
	if n.ID == "," && len(n.List) > 0 {
		p.checkCondAssignment(n.List[len(n.List)-1])
		return
	}
	switch n.ID {
	case "=", "+=", "-=", "*=", "%=", "&=", "|=", "^=", "/=":
		if !p.option().Boss {
			p.warn("W084", n)
		}
	}
}

// condition parses a parenthesized condition.
func (p *Parser) condition() {
	open := p.next
	p.advance("(", nil)
	p.checkCondAssignment(p.expression(0, 0))
	p.advance(")", open)
}

// loopBody parses the body of an iteration statement.
func (p *Parser) loopBody(c ctx) (*Node, int) {
	p.fs.breakage++
	p.fs.loopage++
	defer func() {
		p.fs.breakage--
		p.fs.loopage--
	}()
	return p.block(c, blockOrdinary|blockStatement)
}

func registerStatements(g grammar) {
	g.blockStmt("if", ifStatement)
	g.blockStmt("while", whileStatement).Labelled = true
	g.blockStmt("for", forStatement).Labelled = true
	g.blockStmt("switch", switchStatement).Labelled = true
	g.blockStmt("try", tryStatement)
	g.blockStmt("with", withStatement)

	do := g.stmt("do", doStatement)
	do.Labelled = true
	do.Exps = true

	for _, id := range []string{"return", "throw", "break", "continue"} {
		s := g.stmt(id, nil)
		s.Exps = true
		s.LTBoundary = ltAfter
	}
	g["return"].Fud = returnStatement
	g["throw"].Fud = throwStatement
	g["break"].Fud = func(p *Parser, n *Node, c ctx) *Node {
		return p.jump(n, p.fs.breakage == 0)
	}
	g["continue"].Fud = func(p *Parser, n *Node, c ctx) *Node {
		return p.jump(n, p.fs.breakage == 0 || p.fs.loopage == 0)
	}

	g.stmt("debugger", func(p *Parser, n *Node, c ctx) *Node {
		if !p.option().Debug {
			p.warn("W087", n)
		}
		return n
	}).Exps = true

	g.stmt("var", func(p *Parser, n *Node, c ctx) *Node {
		p.declarations(n, analysis.KindVar, c, false)
		if p.option().Varstmt {
			p.warn("W132", n)
		}
		return n
	}).Exps = true

	g.stmt("const", func(p *Parser, n *Node, c ctx) *Node {
		p.lexicalDeclaration(n, c, analysis.KindConst, false)
		return n
	}).Exps = true
}

func ifStatement(p *Parser, n *Node, c ctx) *Node {
	p.res.Metrics().Complexity++
	p.condition()
	p.block(c, blockOrdinary|blockStatement|blockIf)
	if p.next.ID == "else" {
		p.advance("else", nil)
		if p.next.ID == "if" || p.next.ID == "switch" {
			p.statement()
		} else {
			p.block(c, blockOrdinary|blockStatement|blockIf)
		}
	}
	return n
}

func whileStatement(p *Parser, n *Node, c ctx) *Node {
	p.res.Metrics().Complexity++
	p.condition()
	p.loopBody(c)
	return n
}

func doStatement(p *Parser, n *Node, c ctx) *Node {
	p.res.Metrics().Complexity++
	p.loopBody(c)
	p.advance("while", nil)
	p.condition()
	return n
}

func withStatement(p *Parser, n *Node, c ctx) *Node {
	if p.isStrict() {
		p.warn("E010", n)
	} else if !p.option().Withstmt {
		p.warn("W085", n)
	}
	open := p.next
	p.advance("(", nil)
	p.expression(0, 0)
	p.advance(")", open)
	p.block(c, blockOrdinary|blockStatement)
	return n
}

func forStatement(p *Parser, n *Node, c ctx) *Node {
	o := p.option()
	each, await := false, false
	if isIdent(p.next, "each") {
		p.advance("", nil)
		each = true
		if !o.Moz {
			p.warn("W118", p.curr, "for each")
		}
	}
	if isIdent(p.next, "await") {
		p.advance("", nil)
		await = true
		if !p.fs.async {
			p.warn("E024", p.curr, "await")
		}
		p.requireES(p.curr, 9, "asynchronous iteration")
	}
	p.res.Metrics().Complexity++

	open := p.next
	p.advance("(", nil)
	form := p.classifyForHead()
	if await && form != forOf {
		p.warn("E066", open)
	}
	if each && form != forIn {
		p.warn("E045", open)
	}

	scoped := false
	var decl *Node
	hasInit := false
	head := form != forClassic
	switch {
	case p.next.ID == "var":
		p.advance("var", nil)
		decl = p.curr
		_, hasInit = p.declarations(decl, analysis.KindVar, ctxNoIn, head)
		if o.Varstmt {
			p.warn("W132", decl)
		}
	case p.next.ID == "const" || p.startsLet():
		p.advance("", nil)
		decl = p.curr
		kind := analysis.KindLet
		if decl.ID == "const" {
			kind = analysis.KindConst
		}
		p.res.PushBlock(false)
		scoped = true
		hasInit = p.lexicalDeclaration(decl, ctxNoIn, kind, head)
	case head:
		p.forTarget()
	case p.next.ID != ";":
		p.expression(ctxNoIn, 0)
	}

	if form == forClassic {
		p.advance(";", nil)
		if p.next.ID != ";" {
			p.checkCondAssignment(p.expression(0, 0))
		}
		p.advance(";", nil)
		if p.next.ID != ")" {
			p.expression(0, 0)
		}
		p.advance(")", open)
		p.loopBody(c)
	} else {
		word := "in"
		if form == forOf {
			word = "of"
		}
		if decl != nil && hasInit {
			p.warn("W133", decl, word, "initializer is forbidden")
		}
		if form == forOf {
			p.requireES6(p.next, "for of")
		}
		p.advance(word, nil)
		if form == forOf {
			p.expression(0, 20)
		} else {
			p.expression(0, 0)
		}
		p.advance(")", open)
		first, count := p.loopBody(c)
		if form == forIn && p.option().Forin && (count > 1 || first == nil || first.ID != "if") {
			p.warn("W089", n)
		}
	}
	if scoped {
		p.res.PopBlock()
	}
	return n
}

// forTarget parses the left hand side of a for-in or for-of head which is
// not a declaration.
func (p *Parser) forTarget() {
	switch {
	case p.next.ID == "[" || p.next.ID == "{":
		p.advance("", nil)
		open := p.curr
		p.requireES6(open, "destructuring assignment")
		p.patternBody(open, patternAssign)
	case p.next.ID == "(identifier)" && (p.peek(0).ID == "in" || isIdent(p.peek(0), "of")):
		p.advance("", nil)
		t := p.curr
		if p.res.Lookup(t.Value) == nil {
			if _, ok := p.res.IsPredefined(t.Value); !ok {
				p.warn("W088", t, t.Value)
			}
		}
		t.Ref = p.res.Assign(t.Value, t.Line, t.Col)
	default:
		p.checkAssignTarget(p.expression(ctxNoIn, 10), nil)
	}
}

func switchStatement(p *Parser, n *Node, c ctx) *Node {
	p.fs.breakage++
	p.condition()
	brace := p.next
	p.advance("{", nil)
	p.res.PushBlock(false)
	defer func() {
		p.res.PopBlock()
		p.fs.breakage--
		p.fs.verb = ""
	}()

	cases := 0
	pending := false
	for {
		switch p.next.ID {
		case "case":
			switch p.fs.verb {
			case "yield", "break", "case", "continue", "return", "switch", "throw":
			default:
				if !p.curr.FallsThrough {
					p.warn("W086", p.curr, "case")
				}
			}
			p.advance("case", nil)
			p.expression(0, 10)
			cases++
			p.res.Metrics().Complexity++
			pending = true
			p.advance(":", nil)
			p.fs.verb = "case"
		case "default":
			switch p.fs.verb {
			case "yield", "break", "continue", "return", "switch", "throw":
			default:
				if cases > 0 && !p.curr.FallsThrough {
					p.warn("W086", p.curr, "default")
				}
			}
			p.advance("default", nil)
			pending = true
			p.advance(":", nil)
		case "}":
			p.advance("}", brace)
			return n
		case "(end)":
			p.warn("E023", p.next, "}")
			return n
		default:
			switch {
			case pending && p.curr.ID == ":":
				pending = false
				p.statements()
			case pending && p.curr.ID == ",":
				p.warn("E040", p.curr)
				return n
			case pending:
				p.warn("E025", p.curr)
				return n
			case p.curr.ID == ":":
				p.warn("E024", p.curr, ":")
				p.statements()
			default:
				p.warn("E021", p.next, "case", p.next.display())
				return n
			}
		}
	}
}

func tryStatement(p *Parser, n *Node, c ctx) *Node {
	p.block(c, 0)
	caught := false
	for p.next.ID == "catch" {
		if caught && !p.option().Moz {
			p.warn("W118", p.next, "multiple catch blocks")
		}
		p.catchClause(c)
		caught = true
	}
	if p.next.ID == "finally" {
		p.advance("finally", nil)
		p.block(c, 0)
		return n
	}
	if !caught {
		p.warn("E021", p.next, "catch", p.next.display())
	}
	return n
}

// catchClause parses a catch clause.  The clause gets a transparent funct
// of its own for the exception parameter.
func (p *Parser) catchClause(c ctx) {
	p.advance("catch", nil)
	kw := p.curr
	p.res.Metrics().Complexity++
	p.res.PushFunct(analysis.FunctCatch, "(catch)", kw.Line, kw.Col)
	if p.next.ID != "(" {
		p.requireES(p.next, 10, "optional catch binding")
	} else {
		open := p.next
		p.advance("(", nil)
		switch p.next.ID {
		case "[", "{":
			p.advance("", nil)
			pat := p.curr
			p.requireES6(pat, "destructuring parameter")
			for _, name := range p.patternBody(pat, patternDeclare) {
				p.res.Declare(name.Value, analysis.KindException, name.Line, name.Col)
			}
		default:
			if name := p.identifier(false); name != nil {
				p.res.Declare(name.Value, analysis.KindException, name.Line, name.Col)
			}
		}
		if p.next.ID == "if" {
			if !p.option().Moz {
				p.warn("W118", p.next, "catch filter")
			}
			p.advance("if", nil)
			p.expression(0, 0)
		}
		p.advance(")", open)
	}
	p.block(c, 0)
	p.res.PopFunct(p.curr.EndLine, p.curr.EndCol)
}

// jump parses break and continue.  outside is set when no enclosing
// statement accepts an unlabelled jump.
func (p *Parser) jump(n *Node, outside bool) *Node {
	if outside {
		p.warn("W052", p.next, n.Value)
	}
	if !p.option().Asi && !sameLine(n, p.next) && p.next.ID != "}" {
		p.warn("E022", n, n.Value)
	}
	if next := p.next; next.ID != ";" && !next.sym.Reach && sameLine(n, next) {
		if next.Identifier && !p.res.HasLabel(next.Value) {
			p.warn("W090", next, next.Value)
		}
		p.advance("", nil)
	}
	p.reachable(n)
	return n
}

func returnStatement(p *Parser, n *Node, c ctx) *Node {
	if sameLine(n, p.next) {
		if p.next.ID != ";" && !p.next.sym.Reach {
			v := p.expression(0, 0)
			if v != nil && v.ID == "=" && !v.Paren && !p.option().Boss {
				p.warn("W093", v)
			}
		}
	} else {
		switch p.next.ID {
		case "[", "{", "+", "-":
			p.warn("E022", n, n.Value)
		}
	}
	p.reachable(n)
	return n
}

func throwStatement(p *Parser, n *Node, c ctx) *Node {
	if !sameLine(n, p.next) {
		p.warn("E022", n, n.Value)
	}
	p.expression(0, 20)
	p.reachable(n)
	return n
}

// declarations parses the declarator list of var, let and const and
// returns the declared names.  head is set inside a for-in or for-of head,
// where in or of ends the list and const needs no initializer.
func (p *Parser) declarations(n *Node, kind analysis.BindingKind, c ctx, head bool) (names []*Node, hasInit bool) {
	lexical := kind != analysis.KindVar
	for {
		var ids []*Node
		lone := false
		switch p.next.ID {
		case "[", "{":
			p.advance("", nil)
			pat := p.curr
			p.requireES6(pat, "destructuring binding")
			ids = p.patternBody(pat, patternDeclare)
		default:
			if id := p.identifier(false); id != nil {
				ids = []*Node{id}
				lone = true
			}
		}
		if !lexical {
			for _, id := range ids {
				p.res.Declare(id.Value, kind, id.Line, id.Col)
			}
		}
		if p.next.ID == "=" {
			hasInit = true
			p.advance("=", nil)
			eq := p.curr
			if lone {
				p.setNameHint(ids[0], eq)
			}
			if !head && p.next.Identifier && p.peek(0).ID == "=" {
				p.warn("W120", p.next, p.next.Value)
			}
			value := p.expression(c, 10)
			if lone && isIdent(value, "undefined") && p.fs.loopage == 0 {
				p.warn("W080", ids[0], ids[0].Value)
			}
		} else if kind == analysis.KindConst && !head {
			for _, id := range ids {
				p.warn("E012", id, id.Value)
			}
		}
		if lexical {
			for _, id := range ids {
				p.res.Declare(id.Value, kind, id.Line, id.Col)
			}
		}
		names = append(names, ids...)
		if p.next.ID != "," {
			break
		}
		if !p.parseComma(false) {
			break
		}
	}
	return names, hasInit
}

// lexicalDeclaration parses the declarators of let or const and reports
// whether any of them has an initializer.
func (p *Parser) lexicalDeclaration(n *Node, c ctx, kind analysis.BindingKind, head bool) bool {
	word, decl := "let", "Let"
	if kind == analysis.KindConst {
		word, decl = "const", "Const"
	}
	p.requireES6(n, word)
	n.Decl = decl
	n.Exps = true
	names, hasInit := p.declarations(n, kind, c, head)
	n.List = names
	return hasInit
}
