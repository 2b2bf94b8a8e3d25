// Copyright © 2024 The ELPS authors

package tdop

import "github.com/jshint/jshint-sub001/analysis"

func registerModules(g grammar) {
	imp := g.stmt("import", importDeclaration)
	imp.Exps = true
	imp.UseFud = func(p *Parser) bool {
		return p.next.ID != "(" && p.next.ID != "."
	}
	imp.Nud = importCall

	g.blockStmt("export", exportDeclaration)
}

// checkModuleItem reports import and export statements below the top level.
func (p *Parser) checkModuleItem(n *Node, what string) {
	p.requireES(n, 6, n.Value)
	if !p.fs.global || p.res.BlockDepth() > 0 {
		p.warn("E053", n, what)
	}
}

// importCall parses import(...) and import.meta.
func importCall(p *Parser, n *Node, c ctx) *Node {
	if p.next.ID == "." {
		p.advance(".", nil)
		prop := p.identifier(true)
		if prop != nil && prop.Value != "meta" {
			p.warn("E057", prop, "import", prop.Value)
		}
		p.requireES(n, 11, "import.meta")
		return n
	}
	p.requireES(n, 11, "dynamic import")
	open := p.next
	p.advance("(", nil)
	p.expression(0, 10)
	p.advance(")", open)
	n.Exps = true
	return n
}

// importBinding declares one local import name.
func (p *Parser) importBinding() {
	if id := p.identifier(false); id != nil {
		p.res.Declare(id.Value, analysis.KindImport, id.Line, id.Col)
	}
}

func importDeclaration(p *Parser, n *Node, c ctx) *Node {
	p.checkModuleItem(n, "Import")
	if p.next.ID == "(string)" {
		p.advance("", nil)
		return n
	}
	if p.next.Identifier {
		p.importBinding()
		if p.next.ID != "," {
			p.fromClause()
			return n
		}
		p.advance(",", nil)
	}
	switch p.next.ID {
	case "*":
		p.advance("*", nil)
		p.advance("as", nil)
		p.importBinding()
	case "{":
		open := p.next
		p.advance("{", nil)
		for p.next.ID != "}" && p.next.ID != "(end)" {
			if p.next.ID == "(string)" {
				p.advance("", nil)
				p.advance("as", nil)
				p.importBinding()
			} else if isIdent(p.peek(0), "as") {
				p.identifier(true)
				p.advance("as", nil)
				p.importBinding()
			} else {
				p.importBinding()
			}
			if p.next.ID != "," {
				break
			}
			if !p.parseComma(true) {
				break
			}
		}
		p.advance("}", open)
	default:
		p.warn("E024", p.next, p.next.display())
	}
	p.fromClause()
	return n
}

// fromClause parses the module specifier of an import or re-export.
func (p *Parser) fromClause() {
	p.advance("from", nil)
	if p.next.ID != "(string)" {
		p.warn("E024", p.next, p.next.display())
		return
	}
	p.advance("", nil)
}

func exportDeclaration(p *Parser, n *Node, c ctx) *Node {
	p.checkModuleItem(n, "Export")
	switch {
	case p.next.ID == "default":
		p.advance("default", nil)
		p.exportDefault()
	case p.next.ID == "*":
		p.advance("*", nil)
		if isIdent(p.next, "as") {
			p.advance("as", nil)
			p.identifier(true)
		}
		p.fromClause()
		p.parseFinalSemicolon(n)
	case p.next.ID == "{":
		p.exportList()
		p.parseFinalSemicolon(n)
	case p.next.ID == "var":
		p.advance("var", nil)
		decl := p.curr
		names, _ := p.declarations(decl, analysis.KindVar, 0, false)
		p.exportNames(names)
		p.parseFinalSemicolon(decl)
	case p.next.ID == "const" || p.startsLet():
		p.advance("", nil)
		decl := p.curr
		kind := analysis.KindLet
		if decl.ID == "const" {
			kind = analysis.KindConst
		}
		p.lexicalDeclaration(decl, 0, kind, false)
		p.exportNames(decl.List)
		p.parseFinalSemicolon(decl)
	case p.next.ID == "function":
		p.advance("function", nil)
		p.exportNames([]*Node{p.functionDeclaration(p.curr, false).Right})
	case isIdent(p.next, "async") && p.peek(0).ID == "function":
		p.advance("", nil)
		p.advance("function", nil)
		p.exportNames([]*Node{p.functionDeclaration(p.curr, true).Right})
	case p.next.ID == "class":
		p.advance("class", nil)
		p.exportNames([]*Node{classDeclaration(p, p.curr, 0).Right})
	default:
		p.warn("E024", p.next, p.next.display())
	}
	return n
}

// exportDefault parses the operand of export default.
func (p *Parser) exportDefault() {
	switch {
	case p.next.ID == "function":
		p.advance("function", nil)
		n := p.curr
		if p.next.Identifier || p.next.ID == "*" {
			p.exportNames([]*Node{p.functionDeclaration(n, false).Right})
			return
		}
		p.functionExpression(n, "default", false)
	case isIdent(p.next, "async") && p.peek(0).ID == "function":
		p.advance("", nil)
		p.advance("function", nil)
		p.functionExpression(p.curr, "default", true)
	case p.next.ID == "class":
		p.advance("class", nil)
		n := p.curr
		if p.next.ID == "(identifier)" {
			p.exportNames([]*Node{classDeclaration(p, n, 0).Right})
			return
		}
		classExpression(p, n, 0)
	default:
		p.expression(0, 10)
		p.parseFinalSemicolon(p.curr)
	}
}

// exportList parses export { a, b as c } with an optional from clause.
func (p *Parser) exportList() {
	open := p.next
	p.advance("{", nil)
	var locals []*Node
	for p.next.ID != "}" && p.next.ID != "(end)" {
		var local *Node
		if p.next.ID == "(string)" {
			p.advance("", nil)
		} else {
			local = p.identifier(true)
		}
		if isIdent(p.next, "as") {
			p.advance("as", nil)
			if p.next.ID == "(string)" {
				p.advance("", nil)
			} else {
				p.identifier(true)
			}
		}
		if local != nil {
			locals = append(locals, local)
		}
		if p.next.ID != "," {
			break
		}
		if !p.parseComma(true) {
			break
		}
	}
	p.advance("}", open)
	if isIdent(p.next, "from") {
		p.fromClause()
		return
	}
	for _, l := range locals {
		l.Ref = p.res.Use(l.Value, l.Line, l.Col)
	}
	p.exportNames(locals)
}

func (p *Parser) exportNames(names []*Node) {
	for _, n := range names {
		if n != nil {
			p.res.Export(n.Value)
		}
	}
}
