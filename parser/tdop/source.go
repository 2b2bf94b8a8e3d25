// Copyright © 2024 The ELPS authors

package tdop

import (
	"errors"

	"github.com/jshint/jshint-sub001/parser/lexer"
	"github.com/jshint/jshint-sub001/parser/token"
)

// tokenSource wraps the lexer with a lookahead buffer of parse nodes.
// Directive comments stay in the buffer so the parser can apply them in
// order; other comments are dropped.
type tokenSource struct {
	lex *lexer.Lexer
	g   grammar
	buf []*Node
	end *Node
}

func newTokenSource(lex *lexer.Lexer) *tokenSource {
	return &tokenSource{lex: lex, g: symbols()}
}

// Scan removes and returns the next node, comments included.
func (s *tokenSource) Scan() *Node {
	if len(s.buf) > 0 {
		n := s.buf[0]
		s.buf = s.buf[1:]
		return n
	}
	return s.scan()
}

// Peek returns the i-th node after the ones already scanned, skipping
// comments.  The end of input repeats indefinitely.
func (s *tokenSource) Peek(i int) *Node {
	seen := 0
	for j := 0; ; j++ {
		if j >= len(s.buf) {
			s.buf = append(s.buf, s.scan())
		}
		n := s.buf[j]
		switch n.ID {
		case "(comment)":
			continue
		case "(end)", "(error)":
			return n
		}
		if seen == i {
			return n
		}
		seen++
	}
}

func (s *tokenSource) scan() *Node {
	if s.end != nil {
		n := *s.end
		return &n
	}
	for {
		tok, err := s.lex.Token()
		if err != nil {
			n := newNode(s.g, &token.Token{Type: token.ERROR, Text: tok.Text, Source: tok.Source})
			var fatal *lexer.FatalError
			if errors.As(err, &fatal) {
				n.err = fatal
			}
			s.end = newNode(s.g, &token.Token{Type: token.EOF, Source: tok.Source})
			return n
		}
		if tok.Type == token.COMMENT && tok.Directive == "" {
			continue
		}
		n := newNode(s.g, tok)
		if n.ID == "(end)" {
			s.end = n
			cp := *n
			return &cp
		}
		return n
	}
}
