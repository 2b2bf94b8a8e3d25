// Copyright © 2024 The ELPS authors

package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jshint/jshint-sub001/parser/token"
)

func (lex *Lexer) readString() *token.Token {
	s := lex.scanner
	loc := s.LocStart()
	quote := s.ScanRune()
	var raw, value strings.Builder
	raw.WriteRune(quote)
	tok := &token.Token{Type: token.STRING, Quote: quote, Source: loc}
	allowNewLine := false
	for {
		if s.AtEOL() {
			line, col := s.Line(), s.Col()
			if !lex.nextLine() {
				lex.warn("E029", loc.Line, loc.Col)
				tok.Unclosed = true
				break
			}
			if allowNewLine {
				allowNewLine = false
				lex.warn("W043", line, col)
			} else {
				lex.warn("W112", line, col)
			}
			tok.Multiline = true
			raw.WriteByte('\n')
			continue
		}
		c := s.ScanRune()
		raw.WriteRune(c)
		if c == quote {
			break
		}
		if c < 0x20 && c != '\t' {
			lex.warn("W113", s.Line(), s.Col()-1, fmt.Sprintf("<%U>", c))
		}
		if c != '\\' {
			value.WriteRune(c)
			continue
		}
		if s.AtEOL() {
			allowNewLine = true
			continue
		}
		lex.readEscape(tok, &raw, &value)
	}
	loc.EndLine = s.Line()
	loc.EndCol = s.Col() - 1
	tok.Text = raw.String()
	tok.Value = value.String()
	s.Ignore()
	return tok
}

// readEscape decodes the escape sequence following a backslash.
func (lex *Lexer) readEscape(tok *token.Token, raw, value *strings.Builder) {
	s := lex.scanner
	line, col := s.Line(), s.Col()-1
	c := s.ScanRune()
	raw.WriteRune(c)
	switch c {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case 'b':
		value.WriteByte('\b')
	case 'f':
		value.WriteByte('\f')
	case 'v':
		value.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if c == '0' && !isDigit(s.Peek()) {
			value.WriteByte(0)
			return
		}
		tok.OctalEscape = true
		n := int(c - '0')
		for i := 0; i < 2 && '0' <= s.Peek() && s.Peek() <= '7'; i++ {
			d := s.ScanRune()
			raw.WriteRune(d)
			n = n*8 + int(d-'0')
		}
		value.WriteRune(rune(n))
	case '8', '9':
		lex.warn("W044", line, col)
		value.WriteRune(c)
	case 'x':
		digits := lex.acceptHex(raw, 2)
		if len(digits) != 2 {
			lex.warn("W052", line, col, "\\x"+digits)
			tok.Malformed = true
			return
		}
		n, _ := strconv.ParseUint(digits, 16, 32)
		value.WriteRune(rune(n))
	case 'u':
		r, ok := lex.readUnicodeEscape(raw)
		if !ok {
			lex.warn("W052", line, col, "\\u")
			tok.Malformed = true
			return
		}
		value.WriteRune(r)
	default:
		value.WriteRune(c)
	}
}

func (lex *Lexer) acceptHex(raw *strings.Builder, max int) string {
	s := lex.scanner
	var digits strings.Builder
	for i := 0; (max < 0 || i < max) && isHexDigit(s.Peek()); i++ {
		c := s.ScanRune()
		raw.WriteRune(c)
		digits.WriteRune(c)
	}
	return digits.String()
}

// readUnicodeEscape decodes the part of a \u escape following the u.
func (lex *Lexer) readUnicodeEscape(raw *strings.Builder) (rune, bool) {
	s := lex.scanner
	var digits string
	if s.AcceptRune('{') {
		raw.WriteByte('{')
		digits = lex.acceptHex(raw, -1)
		if !s.AcceptRune('}') || digits == "" {
			return 0, false
		}
		raw.WriteByte('}')
	} else {
		digits = lex.acceptHex(raw, 4)
		if len(digits) != 4 {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || n > 0x10ffff {
		return 0, false
	}
	return rune(n), true
}

func (lex *Lexer) readNumber() *token.Token {
	s := lex.scanner
	line, col := s.Line(), s.Col()
	base := 10
	c := s.Peek()
	switch {
	case c == '0' && strings.ContainsRune("xX", s.PeekAt(1)):
		s.Skip(2)
		base = 16
		s.AcceptSeq(func(c rune) bool { return isHexDigit(c) || c == '_' })
	case c == '0' && strings.ContainsRune("bB", s.PeekAt(1)):
		s.Skip(2)
		base = 2
		s.AcceptSeq(func(c rune) bool { return c == '0' || c == '1' || c == '_' })
	case c == '0' && strings.ContainsRune("oO", s.PeekAt(1)):
		s.Skip(2)
		base = 8
		s.AcceptSeq(func(c rune) bool { return ('0' <= c && c <= '7') || c == '_' })
	case c == '0' && isDigit(s.PeekAt(1)):
		s.Skip(1)
		s.AcceptSeq(isDigit)
		if text := s.Text(); strings.ContainsAny(text, "89") {
			lex.warn("W046", line, col, text)
		} else {
			base = token.BaseLegacyOctal
		}
	default:
		s.AcceptSeq(isDecimalDigit)
		if s.Peek() == '.' {
			s.Skip(1)
			fraction := s.AcceptSeq(isDecimalDigit)
			text := s.Text()
			switch {
			case strings.HasPrefix(text, "."):
				lex.warn("W008", line, col, text)
			case fraction == 0 && !strings.ContainsRune("eE", s.Peek()):
				lex.warn("W047", line, col, text)
			}
		}
		if strings.ContainsRune("eE", s.Peek()) {
			n := 1
			if strings.ContainsRune("+-", s.PeekAt(1)) {
				n = 2
			}
			if isDigit(s.PeekAt(n)) {
				s.Skip(n)
				s.AcceptSeq(isDigit)
			}
		}
	}
	bigint := s.AcceptRune('n')
	tok := s.EmitToken(token.NUMBER)
	tok.Base = base
	if base != 10 && base != token.BaseLegacyOctal && len(tok.Text) <= 2 {
		tok.Malformed = true
		lex.warn("W045", line, col, tok.Text)
	}
	if next := s.Peek(); IsIdentifierStart(next) || isDigit(next) {
		tok.Malformed = true
		lex.warn("E024", s.Line(), s.Col(), string(next))
	}
	if base == 10 && !bigint && !strings.ContainsAny(tok.Text, ".eE") {
		clean := strings.TrimLeft(strings.ReplaceAll(tok.Text, "_", ""), "0")
		f, err := strconv.ParseFloat(clean, 64)
		if err == nil && f > 1<<53 && strconv.FormatFloat(f, 'f', -1, 64) != clean {
			lex.warn("W045", line, col, tok.Text)
		}
	}
	return tok
}

func isDecimalDigit(c rune) bool {
	return isDigit(c) || c == '_'
}

// readTemplate scans a template literal part.  head is true when the
// scanner sits on the opening backtick and false when it sits on the brace
// closing a substitution.
func (lex *Lexer) readTemplate(head bool) *token.Token {
	s := lex.scanner
	loc := s.LocStart()
	var raw, value strings.Builder
	raw.WriteRune(s.ScanRune())
	tok := &token.Token{Source: loc}
	for {
		if s.AtEOL() {
			if !lex.nextLine() {
				lex.warn("E052", loc.Line, loc.Col)
				tok.Unclosed = true
				if head {
					tok.Type = token.TEMPLATE
				} else {
					tok.Type = token.TEMPLATE_TAIL
				}
				break
			}
			tok.Multiline = true
			raw.WriteByte('\n')
			value.WriteByte('\n')
			continue
		}
		c := s.ScanRune()
		raw.WriteRune(c)
		if c == '`' {
			if head {
				tok.Type = token.TEMPLATE
			} else {
				tok.Type = token.TEMPLATE_TAIL
			}
			break
		}
		if c == '$' && s.Peek() == '{' {
			raw.WriteRune(s.ScanRune())
			lex.braces = append(lex.braces, true)
			if head {
				tok.Type = token.TEMPLATE_HEAD
			} else {
				tok.Type = token.TEMPLATE_MIDDLE
			}
			break
		}
		if c == '\\' {
			if s.AtEOL() {
				continue
			}
			lex.readEscape(tok, &raw, &value)
			// Legacy octal escapes are not permitted in templates.
			if tok.OctalEscape {
				tok.Malformed = true
			}
			continue
		}
		value.WriteRune(c)
	}
	loc.EndLine = s.Line()
	loc.EndCol = s.Col() - 1
	tok.Text = raw.String()
	tok.Value = value.String()
	s.Ignore()
	return tok
}

func (lex *Lexer) readIdentifier() *token.Token {
	s := lex.scanner
	loc := s.LocStart()
	var raw, value strings.Builder
	tok := &token.Token{Type: token.IDENTIFIER, Source: loc}
	first := true
	for {
		c := s.Peek()
		if c == '\\' {
			line, col := s.Line(), s.Col()
			if s.PeekAt(1) != 'u' {
				break
			}
			s.Skip(2)
			raw.WriteString("\\u")
			r, ok := lex.readUnicodeEscape(&raw)
			tok.Escaped = true
			if !ok || (first && !IsIdentifierStart(r)) || (!first && !IsIdentifierPart(r)) {
				lex.warn("E024", line, col, "\\")
				tok.Malformed = true
				if !ok {
					break
				}
			}
			value.WriteRune(r)
			first = false
			continue
		}
		if c == token.EOL || (first && !IsIdentifierStart(c)) || (!first && !IsIdentifierPart(c)) {
			break
		}
		s.Skip(1)
		raw.WriteRune(c)
		value.WriteRune(c)
		first = false
	}
	if raw.Len() == 0 {
		// A lone backslash.
		c := s.ScanRune()
		lex.warn("E024", loc.Line, loc.Col, string(c))
		s.Ignore()
		return lex.readToken()
	}
	loc.EndLine = s.Line()
	loc.EndCol = s.Col() - 1
	tok.Text = raw.String()
	tok.Value = value.String()
	s.Ignore()
	return tok
}
