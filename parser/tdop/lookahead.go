// Copyright © 2024 The ELPS authors

package tdop

import "github.com/jshint/jshint-sub001/parser/token"

// maxLookahead bounds the disambiguation scans.  A scan which runs out
// falls back to the most common reading of the construct.
const maxLookahead = 512

// scanAhead calls visit with the next token (index -1) and the tokens after
// it until visit returns false.  It returns false when the input or the
// lookahead bound ran out first.
func (p *Parser) scanAhead(visit func(i int, n *Node) bool) bool {
	for i := -1; i < maxLookahead; i++ {
		n := p.next
		if i >= 0 {
			n = p.peek(i)
		}
		if !visit(i, n) {
			return true
		}
		if n.ID == "(end)" || n.ID == "(error)" {
			return false
		}
	}
	return false
}

// tokenAt returns the next token for index -1 and the token after it for
// larger indices, matching scanAhead.
func (p *Parser) tokenAt(i int) *Node {
	if i < 0 {
		return p.next
	}
	return p.peek(i)
}

// isArrowAhead reports whether a parenthesized list is followed by =>.
// depth is 1 when the opening parenthesis is the current token and 0 when
// it is the next one.
func (p *Parser) isArrowAhead(depth int) bool {
	arrow := false
	p.scanAhead(func(i int, n *Node) bool {
		switch n.ID {
		case "(", "[", "{":
			depth++
		case "(template)":
			if n.Tok.Type == token.TEMPLATE_HEAD {
				depth++
			}
		case ")", "]", "}", "(template tail)":
			depth--
		}
		if depth == 0 {
			arrow = p.tokenAt(i+1).ID == "=>"
			return false
		}
		return true
	})
	return arrow
}

type forForm int

const (
	forClassic forForm = iota
	forIn
	forOf
)

// classifyForHead decides the form of the for statement whose head starts
// at the next token.
func (p *Parser) classifyForHead() forForm {
	depth := 0
	form := forClassic
	var prev *Node
	p.scanAhead(func(i int, n *Node) bool {
		defer func() { prev = n }()
		switch n.ID {
		case "(", "[", "{":
			depth++
			return true
		case ")", "]", "}":
			depth--
			return depth >= 0
		}
		if depth > 0 {
			return true
		}
		switch {
		case n.ID == ";":
			return false
		case n.ID == "in":
			form = forIn
			return false
		case isIdent(n, "of") && prev != nil && !isDeclWord(prev):
			form = forOf
			return false
		}
		return true
	})
	return form
}

func isDeclWord(n *Node) bool {
	return n.ID == "var" || n.ID == "const" || isIdent(n, "let")
}

type bracketForm int

const (
	bracketLiteral bracketForm = iota
	bracketPattern
	bracketComprehension
)

// classifyBracket decides how to read the array or object literal opened
// by the current token: as a literal, as a destructuring assignment target
// (the matching close is followed by =) or as an array comprehension (a
// for keyword directly inside the brackets).
func (p *Parser) classifyBracket() bracketForm {
	depth := 1
	form := bracketLiteral
	prev := p.curr
	p.scanAhead(func(i int, n *Node) bool {
		defer func() { prev = n }()
		switch n.ID {
		case "[", "{":
			depth++
		case "]", "}":
			depth--
		}
		if depth == 1 && n.ID == "for" && prev.ID != "." && p.curr.ID == "[" {
			form = bracketComprehension
			return false
		}
		if depth == 0 {
			if p.tokenAt(i+1).ID == "=" {
				form = bracketPattern
			}
			return false
		}
		return true
	})
	return form
}

// startsLet reports whether the let at the next token begins a lexical
// declaration rather than naming a variable.
func (p *Parser) startsLet() bool {
	if !isIdent(p.next, "let") {
		return false
	}
	after := p.peek(0)
	switch {
	case after.ID == "[", after.ID == "{":
		return true
	case after.Identifier && !after.sym.Reserved:
		return true
	}
	return false
}
