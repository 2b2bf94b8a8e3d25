// Copyright © 2024 The ELPS authors

package tdop

import (
	"github.com/jshint/jshint-sub001/analysis"
	"github.com/jshint/jshint-sub001/parser/lexer"
	"github.com/jshint/jshint-sub001/parser/token"
)

// Node is one occurrence of a grammar symbol.  The parser keeps only the
// fields later checks need; no tree survives the parse.
type Node struct {
	sym *Symbol
	Tok *token.Token

	ID    string
	Value string

	Line    int
	Col     int
	EndLine int
	EndCol  int

	// Identifier marks word tokens, including reserved words.
	Identifier bool

	Left  *Node
	Right *Node
	Third *Node
	List  []*Node

	// Exps marks expressions with an effect (calls, assignments, ...).
	Exps bool
	// Paren marks an expression wrapped in grouping parentheses.
	Paren bool
	// Pattern marks an array or object literal parsed as a destructuring
	// assignment target.
	Pattern bool
	// Decl names the kind of a lexical declaration statement ("Let",
	// "Const", "Class", "Function").
	Decl string

	FallsThrough bool
	InBraceless  bool

	Ref *analysis.Ref

	err *lexer.FatalError
}

// Symbol returns the grammar entry for the node.
func (n *Node) Symbol() *Symbol {
	return n.sym
}

func newNode(g grammar, tok *token.Token) *Node {
	n := &Node{Tok: tok, Value: tok.Value}
	if loc := tok.Source; loc != nil {
		n.Line, n.Col = loc.Line, loc.Col
		n.EndLine, n.EndCol = loc.LastLine(), loc.EndCol
	}
	switch tok.Type {
	case token.IDENTIFIER:
		n.Identifier = true
		n.ID = "(identifier)"
		if s, ok := g[tok.Value]; ok && s.Identifier && !tok.Escaped {
			n.ID = tok.Value
		}
	case token.PUNCTUATOR:
		n.ID = tok.Text
	case token.NUMBER:
		n.ID = "(number)"
		n.Value = tok.Text
	case token.STRING:
		n.ID = "(string)"
	case token.REGEXP:
		n.ID = "(regexp)"
	case token.TEMPLATE, token.TEMPLATE_HEAD:
		n.ID = "(template)"
	case token.TEMPLATE_MIDDLE:
		n.ID = "(template middle)"
	case token.TEMPLATE_TAIL:
		n.ID = "(template tail)"
	case token.COMMENT:
		n.ID = "(comment)"
	case token.EOF:
		n.ID = "(end)"
	default:
		n.ID = "(error)"
	}
	s, ok := g[n.ID]
	if !ok {
		s = g["(unknown)"]
	}
	n.sym = s
	return n
}

// display returns the text used for the node in messages.
func (n *Node) display() string {
	switch n.ID {
	case "(end)":
		return "(end)"
	case "(string)", "(template)", "(regexp)":
		return n.Tok.Text
	}
	if n.Value != "" {
		return n.Value
	}
	return n.ID
}

// isIdent reports whether n is a plain reference to name.
func isIdent(n *Node, name string) bool {
	return n != nil && n.ID == "(identifier)" && n.Value == name
}

// isName reports whether n is a plain identifier reference.
func isName(n *Node) bool {
	return n != nil && n.ID == "(identifier)"
}

func isMember(n *Node) bool {
	return n != nil && !n.Paren && (n.ID == "." || (n.ID == "[" && n.Left != nil) || n.ID == "?.")
}

// sameLine reports whether b starts on the line where a ends.
func sameLine(a, b *Node) bool {
	return a.EndLine == b.Line
}
