// Copyright © 2024 The ELPS authors

package tdop

import (
	"strings"

	"github.com/jshint/jshint-sub001/analysis"
)

// fstate is the parser's view of the function being parsed.  The scope
// side lives in the resolver's funct; fstate carries the statement level
// bookkeeping.  Catch clauses and comprehensions get a funct but share the
// fstate of their function.
type fstate struct {
	parent *fstate
	funct  *analysis.Funct
	name   string

	global      bool
	statement   bool
	arrow       bool
	method      bool
	classMethod bool
	ctor        bool
	generator   bool
	async       bool
	yielded     bool
	strict      bool

	breakage int
	loopage  int
	// verb is the first word of the statement being parsed.
	verb string

	directives     map[string]bool
	simpleParams   bool
	strictReported bool
}

// fnOpts describes a function about to be parsed.
type fnOpts struct {
	name  string
	kind  analysis.FunctKind
	self  *Node
	stmt  bool
	arrow bool
	// single is the lone unparenthesized parameter of an arrow.
	single *Node
	// opened is set when the parameter list's "(" was already consumed.
	opened bool

	generator   bool
	async       bool
	method      bool
	classMethod bool
	ctor        bool
}

func registerFunctions(g grammar) {
	fn := g.blockStmt("function", func(p *Parser, n *Node, c ctx) *Node {
		return p.functionDeclaration(n, false)
	})
	fn.Nud = func(p *Parser, n *Node, c ctx) *Node {
		return p.functionExpression(n, p.hintedName(), false)
	}

	class := g.blockStmt("class", classDeclaration)
	class.Nud = classExpression
}

// doFunction parses parameters and body of a function starting at n.
func (p *Parser) doFunction(n *Node, f fnOpts, c ctx) *analysis.Funct {
	parent := p.fs
	name := f.name
	if name == "" {
		name = "(empty)"
	}
	funct := p.res.PushFunct(f.kind, name, n.Line, n.Col)
	funct.Generator = f.generator
	funct.Async = f.async
	directives := make(map[string]bool, len(parent.directives))
	for d := range parent.directives {
		directives[d] = true
	}
	p.fs = &fstate{
		parent:       parent,
		funct:        funct,
		name:         name,
		statement:    f.stmt,
		arrow:        f.arrow,
		method:       f.method,
		classMethod:  f.classMethod,
		ctor:         f.ctor,
		generator:    f.generator,
		async:        f.async,
		strict:       parent.strict,
		directives:   directives,
		simpleParams: true,
	}
	if f.self != nil {
		p.res.NameSelf(f.self.Value, f.self.Line, f.self.Col)
	}

	if f.single != nil {
		p.res.DeclareParam(f.single.Value, f.single.Line, f.single.Col)
	} else {
		p.params(f.opened)
	}

	flags := blockFunction
	if f.arrow {
		flags |= blockArrow
		if !sameLine(p.curr, p.next) && p.next.ID == "=>" {
			p.warn("E024", p.next, "=>")
		}
		p.advance("=>", nil)
	}
	p.block(c, flags)

	if f.generator && !p.fs.yielded && !p.option().Noyield {
		p.warn("W124", p.curr)
	}
	p.res.PopFunct(p.curr.EndLine, p.curr.EndCol)
	p.fs = parent
	p.checkLoopFunc(funct, f)
	return funct
}

// checkLoopFunc reports a function created inside a loop which reads
// variables the loop may change.
func (p *Parser) checkLoopFunc(funct *analysis.Funct, f fnOpts) {
	if p.fs.loopage == 0 || p.option().Loopfunc || (f.stmt && p.inBlock) {
		return
	}
	var names []string
	for _, name := range funct.Captured() {
		b := p.res.Lookup(name)
		if b == nil || b.Param || b.Decl != analysis.KindUnused {
			continue
		}
		names = append(names, "'"+name+"'")
	}
	if len(names) > 0 {
		p.warn("W083", p.curr, strings.Join(names, ", "))
	}
}

// params parses a formal parameter list.
func (p *Parser) params(opened bool) {
	open := p.curr
	if !opened {
		open = p.next
		p.advance("(", nil)
	}
	if p.next.ID == ")" {
		p.advance(")", open)
		return
	}
	seenDefault, seenRest := false, false
	for {
		if seenRest {
			p.warn("W131", p.next)
		}
		rest := false
		if p.next.ID == "..." {
			p.advance("...", nil)
			p.requireES(p.curr, 6, "rest parameter")
			rest, seenRest = true, true
			p.fs.simpleParams = false
		}
		var names []*Node
		switch p.next.ID {
		case "[", "{":
			p.fs.simpleParams = false
			p.advance("", nil)
			pat := p.curr
			p.requireES6(pat, "destructuring parameter")
			names = p.patternBody(pat, patternParam)
		default:
			if id := p.identifier(false); id != nil {
				names = []*Node{id}
			}
		}
		for _, id := range names {
			p.res.DeclareParam(id.Value, id.Line, id.Col)
		}
		if p.next.ID == "=" {
			p.fs.simpleParams = false
			if rest {
				p.warn("E062", p.next)
			}
			p.advance("=", nil)
			p.requireES(p.curr, 6, "default parameters")
			p.expression(0, 10)
			seenDefault = true
		} else if seenDefault && !rest {
			p.warn("W138", p.curr)
		}
		if p.next.ID != "," {
			break
		}
		if !p.parseComma(true) {
			break
		}
		if p.next.ID == ")" {
			p.requireES(p.curr, 8, "Trailing comma in function parameters")
			break
		}
	}
	p.advance(")", open)
}

// functionDeclaration parses a function statement whose keyword is the
// current token.
func (p *Parser) functionDeclaration(n *Node, async bool) *Node {
	if async {
		p.requireES(p.prev, 8, "async functions")
	}
	generator := p.generatorStar()
	if p.inBlock {
		p.warn("W082", n)
	}
	name := p.optionalIdentifier(false)
	opts := fnOpts{kind: analysis.FunctFunction, stmt: true, generator: generator, async: async}
	if name == nil {
		p.warn("W025", nil)
	} else {
		p.res.Declare(name.Value, analysis.KindFunction, name.Line, name.Col)
		opts.name = name.Value
	}
	p.doFunction(n, opts, 0)
	if p.next.ID == "(" && sameLine(p.curr, p.next) {
		p.warn("E039", nil)
	}
	n.Decl = "Function"
	n.Right = name
	return n
}

// functionExpression parses a function expression whose keyword is the
// current token.  hint names an anonymous function after its assignment
// target.
func (p *Parser) functionExpression(n *Node, hint string, async bool) *Node {
	if async {
		p.requireES(p.prev, 8, "async functions")
	}
	generator := p.generatorStar()
	opts := fnOpts{name: hint, kind: analysis.FunctFunction, generator: generator, async: async}
	if p.next.Identifier {
		if name := p.optionalIdentifier(false); name != nil {
			opts.name = name.Value
			opts.self = name
		}
	}
	p.doFunction(n, opts, 0)
	return n
}

func (p *Parser) generatorStar() bool {
	if p.next.ID != "*" {
		return false
	}
	p.advance("*", nil)
	p.requireES(p.curr, 6, "function*")
	return true
}

// arrowFunction parses an arrow function.  n is either its lone parameter
// or the opening parenthesis of its parameter list, already consumed.
func (p *Parser) arrowFunction(n *Node, single *Node, hint string, async bool) *Node {
	p.requireES(n, 6, "arrow function syntax (=>)")
	if async {
		p.requireES(n, 8, "async functions")
	}
	p.doFunction(n, fnOpts{
		name:   hint,
		kind:   analysis.FunctArrow,
		arrow:  true,
		single: single,
		opened: single == nil,
		async:  async,
	}, 0)
	return &Node{
		sym: Lookup("=>"), ID: "=>", Value: "=>",
		Line: n.Line, Col: n.Col, EndLine: p.curr.EndLine, EndCol: p.curr.EndCol,
	}
}

// method parses the parameters and body of an object or class method named
// by key.  accessor is "get", "set" or empty.
func (p *Parser) method(key *Node, name, accessor string, f fnOpts) *analysis.Funct {
	f.name = name
	f.kind = analysis.FunctMethod
	f.method = true
	funct := p.doFunction(key, f, 0)
	switch accessor {
	case "get":
		if len(funct.Params) > 0 {
			p.warn("W076", key, funct.Params[0], name)
		}
	case "set":
		if len(funct.Params) != 1 {
			p.warn("W077", key, name)
		}
	}
	return funct
}

func classDeclaration(p *Parser, n *Node, c ctx) *Node {
	p.requireES(n, 6, "class")
	var name *Node
	if p.next.ID == "(identifier)" {
		p.advance("", nil)
		name = p.curr
		if p.isReserved(name) {
			p.warn("E049", name, "class", name.Value)
		}
		p.res.Declare(name.Value, analysis.KindClass, name.Line, name.Col)
	} else {
		p.warn("E030", p.next, p.next.display())
	}
	p.classTail(name)
	n.Decl = "Class"
	n.Right = name
	return n
}

func classExpression(p *Parser, n *Node, c ctx) *Node {
	p.requireES(n, 6, "class")
	var name *Node
	if p.next.ID == "(identifier)" {
		p.advance("", nil)
		name = p.curr
		p.res.PushBlock(false)
		b := p.res.Declare(name.Value, analysis.KindClass, name.Line, name.Col)
		if b != nil {
			b.Used = true
		}
	}
	p.classTail(name)
	if name != nil {
		p.res.PopBlock()
	}
	return n
}

// isMemberEnd reports tokens which show that the preceding modifier word
// is itself the member name.
func isMemberEnd(n *Node) bool {
	switch n.ID {
	case "(", "=", ";", "}":
		return true
	}
	return false
}

// classTail parses the heritage clause and body of a class.  Class code is
// always strict.
func (p *Parser) classTail(name *Node) {
	saved := p.fs.strict
	p.fs.strict = true
	defer func() { p.fs.strict = saved }()

	if p.next.ID == "extends" {
		p.advance("extends", nil)
		p.expression(0, 150)
	}
	open := p.next
	p.advance("{", nil)

	seen := make(map[string]string)
	for p.next.ID != "}" && p.next.ID != "(end)" {
		if p.next.ID == ";" {
			p.advance(";", nil)
			continue
		}
		static, async, generator := false, false, false
		accessor := ""
		if isIdent(p.next, "static") && !isMemberEnd(p.peek(0)) {
			p.advance("", nil)
			static = true
			if p.next.ID == "{" {
				p.requireES(p.next, 13, "Class static blocks")
				p.staticBlock()
				continue
			}
		}
		if isIdent(p.next, "async") && !isMemberEnd(p.peek(0)) && sameLine(p.next, p.peek(0)) {
			p.advance("", nil)
			async = true
			p.requireES(p.curr, 8, "async functions")
		}
		if p.next.ID == "*" {
			p.advance("*", nil)
			generator = true
			p.requireES(p.curr, 6, "generator functions")
		}
		if (isIdent(p.next, "get") || isIdent(p.next, "set")) && !isMemberEnd(p.peek(0)) {
			p.advance("", nil)
			accessor = p.curr.Value
		}

		mname, key, computed := p.propertyName()
		if key == nil {
			if p.next.ID != "}" {
				p.advance("", nil)
			}
			continue
		}

		if p.next.ID != "(" {
			if accessor != "" || async || generator {
				p.warn("E054", p.next, p.next.display())
			}
			p.classField(key)
			continue
		}

		ctor := !static && !computed && mname == "constructor"
		switch {
		case ctor && accessor != "":
			p.warn("E049", key, "class "+accessor+"ter method", "constructor")
		case ctor && generator:
			p.warn("E049", key, "class generator method", "constructor")
		case ctor && async:
			p.warn("E049", key, "class async method", "constructor")
		case static && !computed && mname == "prototype":
			p.warn("E049", key, "static class method", "prototype")
		}
		if !computed {
			slot := mname
			if static {
				slot = "static " + mname
			}
			kind := accessor
			if kind == "" {
				kind = "method"
			}
			if prev, ok := seen[slot]; ok && (prev == kind || prev == "method" || kind == "method") {
				p.warn("W075", key, "class method", mname)
			}
			seen[slot] = kind
		}
		p.method(key, mname, accessor, fnOpts{
			classMethod: true,
			ctor:        ctor,
			generator:   generator,
			async:       async,
		})
	}
	p.advance("}", open)
}

// classField parses a class field after its name.
func (p *Parser) classField(key *Node) {
	p.requireES(key, 13, "Class properties")
	if p.next.ID == "=" {
		p.advance("=", nil)
		saved := p.fs.method
		p.fs.method = true
		p.setNameHint(key, p.curr)
		p.expression(0, 10)
		p.fs.method = saved
	}
	if p.next.ID == ";" {
		p.advance(";", nil)
	}
}

// staticBlock parses a class static initialization block.
func (p *Parser) staticBlock() {
	p.doFunctionBody(p.next, "(static)")
}

// doFunctionBody parses a parameterless method body starting at the next
// token.
func (p *Parser) doFunctionBody(at *Node, name string) {
	parent := p.fs
	funct := p.res.PushFunct(analysis.FunctMethod, name, at.Line, at.Col)
	p.fs = &fstate{
		parent:       parent,
		funct:        funct,
		name:         name,
		method:       true,
		classMethod:  true,
		strict:       true,
		directives:   make(map[string]bool),
		simpleParams: true,
	}
	p.block(0, blockFunction)
	p.res.PopFunct(p.curr.EndLine, p.curr.EndCol)
	p.fs = parent
}
