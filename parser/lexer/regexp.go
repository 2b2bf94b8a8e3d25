// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/jshint/jshint-sub001/parser/token"
)

const regexpFlags = "dgimsuvy"

func (lex *Lexer) readRegexp() *token.Token {
	s := lex.scanner
	loc := s.LocStart()
	s.Skip(1)
	var body strings.Builder
	inClass := false
	for {
		c := s.Peek()
		if c == token.EOL {
			return lex.fail("E015", loc.Line, loc.Col)
		}
		s.Skip(1)
		switch {
		case c == '\\':
			if s.AtEOL() {
				return lex.fail("E015", loc.Line, loc.Col)
			}
			body.WriteRune(c)
			body.WriteRune(s.ScanRune())
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			flags := lex.readRegexpFlags()
			tok := s.EmitToken(token.REGEXP)
			tok.Source.Line = loc.Line
			tok.Source.Col = loc.Col
			tok.Value = body.String()
			tok.RegexpFlags = flags
			if err := ValidateRegexp(tok.Value, flags); err != nil {
				tok.Malformed = true
				lex.warn("E016", loc.Line, loc.Col, err.Error())
			}
			return tok
		}
		body.WriteRune(c)
	}
}

func (lex *Lexer) readRegexpFlags() string {
	s := lex.scanner
	var flags strings.Builder
	for IsIdentifierPart(s.Peek()) {
		flags.WriteRune(s.ScanRune())
	}
	return flags.String()
}

type regexpError string

func (err regexpError) Error() string {
	return string(err)
}

// ValidateRegexp reports whether body and flags form a valid regular
// expression literal.  Patterns are compiled with ECMAScript semantics where
// the engine supports them.
func ValidateRegexp(body, flags string) error {
	seen := make(map[rune]bool)
	for _, f := range flags {
		if !strings.ContainsRune(regexpFlags, f) || seen[f] {
			return regexpError("invalid regular expression flags '" + flags + "'")
		}
		seen[f] = true
	}
	if seen['u'] || seen['v'] {
		// Unicode mode syntax (\u{...}, \p{...}) is outside the engine's
		// ECMAScript dialect.
		return nil
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if seen['s'] {
		opts |= regexp2.Singleline
	}
	if seen['i'] {
		opts |= regexp2.IgnoreCase
	}
	if seen['m'] {
		opts |= regexp2.Multiline
	}
	_, err := regexp2.Compile(body, opts)
	return err
}
