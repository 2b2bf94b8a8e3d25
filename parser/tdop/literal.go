// Copyright © 2024 The ELPS authors

package tdop

import "github.com/jshint/jshint-sub001/analysis"

type patternMode int

const (
	// patternDeclare returns the bound names for the caller to declare.
	patternDeclare patternMode = iota
	// patternAssign records writes to existing bindings.
	patternAssign
	// patternParam returns parameter names.
	patternParam
)

// propInfo tracks the definitions of one object literal key.
type propInfo struct {
	data   bool
	getter *Node
	setter *Node
}

func (p *Parser) arrayLiteral(n *Node) {
	o := p.option()
	for p.next.ID != "(end)" {
		for p.next.ID == "," {
			if !o.Elision {
				if !p.inES(5) {
					p.warn("W070", p.next)
				} else {
					p.warn("W128", p.next)
					for p.next.ID == "," {
						p.advance(",", nil)
					}
					continue
				}
			}
			p.advance(",", nil)
		}
		if p.next.ID == "]" {
			break
		}
		if p.next.ID == "..." {
			p.advance("...", nil)
			p.requireES(p.curr, 6, "spread operator")
		}
		n.List = append(n.List, p.expression(0, 10))
		if p.next.ID != "," {
			break
		}
		if !p.parseComma(true) {
			break
		}
		if p.next.ID == "]" && !p.inES(5) {
			p.warn("W070", p.curr)
			break
		}
	}
	p.advance("]", n)
}

// isPropertyStart reports tokens which can begin a property name.
func isPropertyStart(n *Node) bool {
	switch n.ID {
	case "(string)", "(number)", "[", "#":
		return true
	}
	return n.Identifier
}

// propertyName consumes an object literal or class member name.  computed
// is set for bracketed names, whose name is empty.  key is nil when no name
// was found.
func (p *Parser) propertyName() (name string, key *Node, computed bool) {
	n := p.next
	switch {
	case n.ID == "[":
		p.requireES(n, 6, "computed property names")
		p.advance("[", nil)
		key = p.expression(0, 10)
		p.advance("]", n)
		if key == nil {
			key = n
		}
		return "", key, true
	case n.ID == "#":
		p.advance("#", nil)
		p.requireES(n, 13, "Private members")
		if id := p.identifier(true); id != nil {
			return "#" + id.Value, id, false
		}
		return "", nil, false
	case n.ID == "(string)", n.ID == "(number)", n.Identifier:
		p.advance("", nil)
		if n.Value == "hasOwnProperty" {
			p.warn("W001", n)
		}
		return n.Value, n, false
	}
	p.warn("E035", n)
	return "", nil, false
}

func (p *Parser) objectLiteral(n *Node) {
	props := make(map[string]*propInfo)
	var order []string
	info := func(name string) *propInfo {
		pi, ok := props[name]
		if !ok {
			pi = &propInfo{}
			props[name] = pi
			order = append(order, name)
		}
		return pi
	}

	for p.next.ID != "}" && p.next.ID != "(end)" {
		switch {
		case p.next.ID == "...":
			p.advance("...", nil)
			p.requireES(p.curr, 9, "object spread property")
			p.expression(0, 10)

		case (isIdent(p.next, "get") || isIdent(p.next, "set")) && isPropertyStart(p.peek(0)):
			p.advance("", nil)
			accessor := p.curr.Value
			name, key, computed := p.propertyName()
			if key == nil {
				break
			}
			if !computed {
				pi := info(name)
				if accessor == "get" {
					if pi.getter != nil || pi.data {
						p.warn("W075", key, "getter", name)
					}
					pi.getter = key
				} else {
					if pi.setter != nil || pi.data {
						p.warn("W075", key, "setter", name)
					}
					pi.setter = key
				}
			}
			p.method(key, name, accessor, fnOpts{})

		default:
			async, generator := false, false
			if after := p.peek(0); isIdent(p.next, "async") && (isPropertyStart(after) || after.ID == "*") && sameLine(p.next, after) {
				p.advance("", nil)
				async = true
				p.requireES(p.curr, 8, "async functions")
			}
			if p.next.ID == "*" {
				p.advance("*", nil)
				generator = true
				p.requireES(p.curr, 6, "generator functions")
			}
			name, key, computed := p.propertyName()
			if key == nil {
				if p.next.ID != "," && p.next.ID != "}" {
					p.advance("", nil)
				}
				break
			}
			switch {
			case p.next.ID == "(":
				p.requireES(key, 6, "concise methods")
				p.method(key, name, "", fnOpts{generator: generator, async: async})
			case async || generator:
				p.warn("E024", p.next, p.next.display())
			case p.next.ID == ":":
				p.advance(":", nil)
				p.setNameHint(key, p.curr)
				p.expression(0, 10)
			case !computed && key.Identifier && (p.next.ID == "," || p.next.ID == "}"):
				p.requireES(key, 6, "object short notation")
				key.Ref = p.res.Use(name, key.Line, key.Col)
			default:
				p.advance(":", nil)
				p.expression(0, 10)
			}
			if !computed {
				pi := info(name)
				if pi.data || pi.getter != nil || pi.setter != nil {
					p.warn("W075", key, "key", name)
				}
				pi.data = true
			}
		}

		if p.next.ID != "," {
			break
		}
		if !p.parseComma(true) {
			break
		}
		if p.next.ID == "}" && !p.inES(5) {
			p.warn("W070", p.curr)
		}
	}
	p.advance("}", n)

	for _, name := range order {
		if pi := props[name]; pi.setter != nil && pi.getter == nil {
			p.warn("W078", pi.setter)
		}
	}
}

// patternBody parses the rest of a destructuring pattern opened by open,
// the current token, and returns the bound names in declare and param mode.
func (p *Parser) patternBody(open *Node, mode patternMode) []*Node {
	var names []*Node
	empty := true
	if open.ID == "[" {
		for p.next.ID != "]" && p.next.ID != "(end)" {
			if p.next.ID == "," {
				p.advance(",", nil)
				continue
			}
			empty = false
			rest := false
			if p.next.ID == "..." {
				p.advance("...", nil)
				rest = true
			}
			names = append(names, p.patternElement(mode)...)
			if p.next.ID == "=" && !rest {
				p.advance("=", nil)
				p.expression(0, 10)
			}
			if p.next.ID != "," {
				break
			}
			p.advance(",", nil)
		}
		p.advance("]", open)
	} else {
		for p.next.ID != "}" && p.next.ID != "(end)" {
			empty = false
			if p.next.ID == "..." {
				p.advance("...", nil)
				p.requireES(p.curr, 9, "object rest property")
				names = append(names, p.patternElement(mode)...)
			} else {
				name, key, computed := p.propertyName()
				switch {
				case key == nil:
					if p.next.ID != "," && p.next.ID != "}" {
						p.advance("", nil)
					}
				case p.next.ID == ":":
					p.advance(":", nil)
					names = append(names, p.patternElement(mode)...)
				case computed || !key.Identifier || p.isReserved(key):
					p.warn("E030", key, key.display())
				case mode == patternAssign:
					key.Ref = p.res.Assign(name, key.Line, key.Col)
				default:
					names = append(names, key)
				}
				if p.next.ID == "=" {
					p.advance("=", nil)
					p.expression(0, 10)
				}
			}
			if p.next.ID != "," {
				break
			}
			p.advance(",", nil)
		}
		p.advance("}", open)
	}
	if empty {
		p.warn("W137", open)
	}
	return names
}

// patternElement parses one target inside a pattern.
func (p *Parser) patternElement(mode patternMode) []*Node {
	switch p.next.ID {
	case "[", "{":
		p.advance("", nil)
		return p.patternBody(p.curr, mode)
	}
	if mode != patternAssign {
		if id := p.identifier(false); id != nil {
			return []*Node{id}
		}
		return nil
	}
	if p.next.ID == "(identifier)" {
		switch p.peek(0).ID {
		case ",", "]", "}", "=":
			p.advance("", nil)
			id := p.curr
			id.Ref = p.res.Assign(id.Value, id.Line, id.Col)
			return nil
		}
	}
	p.checkAssignTarget(p.expression(0, 20), nil)
	return nil
}

// comprehension parses an array comprehension, either the draft ES2015
// form [for (x of xs) expr] or the legacy [expr for (x in xs)] form.
func (p *Parser) comprehension(n *Node, c ctx) *Node {
	if !p.option().Moz {
		p.warn("W118", n, "array comprehension")
	}
	p.res.PushFunct(analysis.FunctComprehension, "(comprehension)", n.Line, n.Col)
	if p.next.ID == "for" {
		for p.next.ID == "for" {
			p.comprehensionFor()
		}
		p.comprehensionFilter()
		p.expression(0, 10)
	} else {
		p.expression(0, 10)
		for p.next.ID == "for" {
			p.comprehensionFor()
		}
		p.comprehensionFilter()
	}
	p.advance("]", n)
	p.res.PopFunct(p.curr.EndLine, p.curr.EndCol)
	return n
}

func (p *Parser) comprehensionFor() {
	p.advance("for", nil)
	if isIdent(p.next, "each") {
		p.advance("", nil)
		if !p.option().Moz {
			p.warn("W118", p.curr, "for each")
		}
	}
	open := p.next
	p.advance("(", nil)
	var names []*Node
	switch p.next.ID {
	case "[", "{":
		p.advance("", nil)
		names = p.patternBody(p.curr, patternDeclare)
	default:
		if id := p.identifier(false); id != nil {
			names = []*Node{id}
		}
	}
	for _, id := range names {
		p.res.Declare(id.Value, analysis.KindLet, id.Line, id.Col)
	}
	switch {
	case p.next.ID == "in":
		p.advance("in", nil)
	case isIdent(p.next, "of"):
		p.advance("", nil)
	default:
		p.warn("E021", p.next, "of", p.next.display())
	}
	p.expression(0, 0)
	p.advance(")", open)
}

func (p *Parser) comprehensionFilter() {
	if p.next.ID != "if" {
		return
	}
	p.advance("if", nil)
	open := p.next
	p.advance("(", nil)
	p.expression(0, 0)
	p.advance(")", open)
}
