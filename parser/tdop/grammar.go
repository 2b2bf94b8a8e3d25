// Copyright © 2024 The ELPS authors

package tdop

import "sync"

// ctx carries the syntactic context of an expression.
type ctx uint8

const (
	ctxNoIn ctx = 1 << iota
	ctxInitial
)

type ltBoundary uint8

const (
	ltNone ltBoundary = iota
	// ltBefore marks tokens which may not follow a line break inside an
	// expression (postfix ++, =>).
	ltBefore
	// ltAfter marks tokens which may not be followed by a line break.
	ltAfter
)

type nudFn func(p *Parser, n *Node, c ctx) *Node

type ledFn func(p *Parser, n *Node, c ctx, left *Node) *Node

// Symbol is the grammar entry shared by every occurrence of a lexeme.
// Symbols are built once and never modified afterwards.
type Symbol struct {
	ID  string
	LBP int

	Reserved   bool
	Identifier bool
	Exps       bool
	Infix      bool
	// Block marks statements which do not end with a semicolon.
	Block bool
	// Reach marks tokens which end a statement list.
	Reach bool
	// Labelled marks statements a label may name.
	Labelled   bool
	LTBoundary ltBoundary

	Nud nudFn
	Led ledFn
	Fud nudFn
	// UseFud chooses between Fud and Nud at the start of a statement.
	UseFud func(p *Parser) bool
}

type grammar map[string]*Symbol

var (
	grammarOnce sync.Once
	registry    grammar
)

// symbols returns the shared grammar registry.
func symbols() grammar {
	grammarOnce.Do(func() {
		registry = buildGrammar()
	})
	return registry
}

// Lookup returns the grammar entry for a lexeme, or nil.
func Lookup(id string) *Symbol {
	return symbols()[id]
}

// symbol returns the entry for id, creating it with binding power bp.  The
// first registration fixes the binding power, so infix forms of operators
// which also have a prefix form are registered first.
func (g grammar) symbol(id string, bp int) *Symbol {
	s, ok := g[id]
	if !ok {
		s = &Symbol{ID: id, LBP: bp}
		g[id] = s
	}
	return s
}

func (g grammar) delim(id string) *Symbol {
	return g.symbol(id, 0)
}

// word registers a reserved word.
func (g grammar) word(id string) *Symbol {
	s := g.symbol(id, 0)
	s.Identifier = true
	s.Reserved = true
	return s
}

// stmt registers a statement keyword.
func (g grammar) stmt(id string, fud nudFn) *Symbol {
	s := g.word(id)
	s.Fud = fud
	return s
}

// blockStmt registers a statement keyword which needs no semicolon.
func (g grammar) blockStmt(id string, fud nudFn) *Symbol {
	s := g.stmt(id, fud)
	s.Block = true
	return s
}

// reserveValue registers a reserved word which is a complete expression.
func (g grammar) reserveValue(id string, nud nudFn) *Symbol {
	s := g.word(id)
	s.Nud = func(p *Parser, n *Node, c ctx) *Node {
		if nud != nil {
			nud(p, n, c)
		}
		return n
	}
	return s
}

func (g grammar) prefix(id string, nud nudFn) *Symbol {
	s := g.symbol(id, 150)
	s.Nud = nud
	return s
}

// infix registers a binary operator.  Unless adjacent is set, a line break
// before the operator is reported as misleading.
func (g grammar) infix(id string, bp int, led ledFn, adjacent bool) *Symbol {
	s := g.symbol(id, bp)
	s.Infix = true
	s.Led = func(p *Parser, n *Node, c ctx, left *Node) *Node {
		if !adjacent {
			p.noBreakBefore(n)
		}
		if (id == "in" || id == "instanceof") && left != nil && left.ID == "!" && !left.Paren {
			p.warn("W018", left, "!")
		}
		if led != nil {
			return led(p, n, c, left)
		}
		n.Left = left
		n.Right = p.expression(c, bp)
		return n
	}
	return s
}

// relation registers a comparison operator.
func (g grammar) relation(id string, check func(p *Parser, n *Node)) *Symbol {
	return g.infix(id, relationPower(id), func(p *Parser, n *Node, c ctx, left *Node) *Node {
		n.Left = left
		n.Right = p.expression(c, relationPower(id))
		if isIdent(left, "NaN") || isIdent(n.Right, "NaN") {
			p.warn("W019", n)
		}
		if check != nil {
			check(p, n)
		}
		return n
	}, false)
}

func relationPower(id string) int {
	switch id {
	case "==", "===", "!=", "!==":
		return 100
	}
	return 110
}

// bitwise registers a bitwise binary operator.
func (g grammar) bitwise(id string, bp int) *Symbol {
	return g.infix(id, bp, func(p *Parser, n *Node, c ctx, left *Node) *Node {
		if p.option().Bitwise {
			p.warn("W016", n, id)
		}
		n.Left = left
		n.Right = p.expression(c, bp)
		return n
	}, false)
}

// assignOp registers an assignment operator.  es is the edition which
// introduced the operator.
func (g grammar) assignOp(id string, es int, bitwise bool) *Symbol {
	s := g.infix(id, 20, func(p *Parser, n *Node, c ctx, left *Node) *Node {
		if es > 6 {
			p.requireES(n, es, assignFeature(id))
		}
		if bitwise && p.option().Bitwise {
			p.warn("W016", n, id)
		}
		n.Left = left
		p.checkAssignTarget(left, n)
		if id != "=" && left != nil {
			p.res.MarkWrite(left.Ref)
		}
		p.setNameHint(left, n)
		n.Right = p.expression(c, 10)
		return n
	}, false)
	s.Exps = true
	return s
}

func assignFeature(id string) string {
	switch id {
	case "**=":
		return "Exponentiation operator"
	default:
		return "Logical assignment"
	}
}

func buildGrammar() grammar {
	g := make(grammar)

	g.delim("(unknown)")
	g.delim("(end)").Reach = true
	g.delim("(error)").Reach = true
	g.delim("(comment)")
	g.delim("(template middle)")
	g.delim("(template tail)")
	for _, id := range []string{";", ":", ")", "]", "...", "@", "#"} {
		g.delim(id)
	}
	g.delim("}").Reach = true
	g.symbol("=>", 0).LTBoundary = ltBefore

	for _, id := range []string{"else", "catch", "finally", "extends", "enum"} {
		g.word(id)
	}
	g.word("case").Reach = true
	g.word("default").Reach = true

	g.reserveValue("this", thisNud)
	g.reserveValue("null", nil)
	g.reserveValue("true", nil)
	g.reserveValue("false", nil)
	g.word("super").Nud = superNud

	g.symbol("(identifier)", 0).Nud = identifierNud
	g.symbol("(number)", 0).Nud = numberNud
	g.symbol("(string)", 0).Nud = stringNud
	g.symbol("(regexp)", 0).Nud = func(p *Parser, n *Node, c ctx) *Node { return n }
	tmpl := g.symbol("(template)", 155)
	tmpl.Nud = templateNud
	tmpl.Led = taggedTemplateLed

	registerStatements(g)
	registerOperators(g)
	registerFunctions(g)
	registerModules(g)
	return g
}
