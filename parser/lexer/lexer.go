// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jshint/jshint-sub001/parser/token"
	"github.com/jshint/jshint-sub001/report"
)

// LexFn scans a single token.  The lexer keeps one LexFn as its state so
// template literals can resume scanning after a substitution closes.
type LexFn func(*Lexer) *token.Token

// ReportFunc receives lexical diagnostics.  The lexer reports every
// condition it observes; callers decide which ones are enabled.
type ReportFunc func(code report.Code, line, col int, args ...string)

// FatalError is returned when the source cannot be tokenized any further.
type FatalError struct {
	Code report.Code
	Line int
	Col  int
	Args []string
}

func (err *FatalError) Error() string {
	return fmt.Sprintf("%d:%d: %s", err.Line, err.Col, err.Code.Format(err.Args...))
}

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
	report  ReportFunc

	prev      *token.Token // last token which was not a comment
	braces    []bool       // open braces; true marks a template substitution
	ignoring  bool         // inside an ignore:start region
	inComment bool
	fatal     *FatalError
	eof       bool
}

// New returns a lexer over s.  A nil report function discards diagnostics.
func New(s *token.Scanner, fn ReportFunc) *Lexer {
	if fn == nil {
		fn = func(report.Code, int, int, ...string) {}
	}
	lex := &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
		report:  fn,
	}
	lex.checkLine()
	return lex
}

// Lines returns the source lines being tokenized.
func (lex *Lexer) Lines() []string {
	return lex.scanner.Lines()
}

// Line returns the line currently being scanned.
func (lex *Lexer) Line() int {
	return lex.scanner.Line()
}

// Token returns the next token.  Comments are returned as COMMENT tokens.
// After the end of input Token keeps returning EOF tokens.  A non-nil error
// is always a *FatalError and no further tokens should be requested.
func (lex *Lexer) Token() (*token.Token, error) {
	if lex.fatal != nil {
		return lex.emitEOF(), lex.fatal
	}
	tok := lex.lex(lex)
	lex.lex = (*Lexer).readToken
	if lex.fatal != nil {
		return tok, lex.fatal
	}
	if tok.Type != token.COMMENT {
		lex.prev = tok
	}
	return tok, nil
}

func (lex *Lexer) warn(code report.Code, line, col int, args ...string) {
	lex.report(code, line, col, args...)
}

func (lex *Lexer) fail(code report.Code, line, col int, args ...string) *token.Token {
	lex.fatal = &FatalError{Code: code, Line: line, Col: col, Args: args}
	tok := lex.scanner.EmitToken(token.ERROR)
	return tok
}

// nextLine advances the scanner and runs the per-line checks.
func (lex *Lexer) nextLine() bool {
	if !lex.scanner.NextLine() {
		return false
	}
	lex.checkLine()
	return true
}

var unsafeChars = regexp.MustCompile(`[\x00-\x08\x0a-\x1f\x7f-\x9f\x{00ad}\x{0600}-\x{0604}\x{070f}\x{17b4}\x{17b5}\x{200c}-\x{200f}\x{2028}-\x{202f}\x{2060}-\x{206f}\x{feff}\x{fff0}-\x{ffff}]`)

func (lex *Lexer) checkLine() {
	line := lex.scanner.FullLine()
	if lex.ignoring {
		trimmed := strings.TrimSpace(line)
		keep := strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "//") ||
			(lex.inComment && strings.Contains(line, "*/"))
		if !keep {
			lex.scanner.Blank()
			return
		}
	}
	lineNum := lex.scanner.Line()
	if loc := unsafeChars.FindStringIndex(line); loc != nil {
		// The byte order mark is allowed to open the file.
		if !(lineNum == 1 && loc[0] == 0 && strings.HasPrefix(line, "\ufeff")) {
			lex.warn("W100", lineNum, runeCol(line, loc[0]))
		}
	}
	if i := strings.IndexRune(line, '\u00a0'); i >= 0 {
		lex.warn("W125", lineNum, runeCol(line, i))
	}
}

func runeCol(line string, byteOffset int) int {
	return len([]rune(line[:byteOffset])) + 1
}

func (lex *Lexer) emitEOF() *token.Token {
	tok := lex.scanner.EmitToken(token.EOF)
	tok.Text = ""
	tok.Value = ""
	return tok
}

func (lex *Lexer) skipWhitespace() bool {
	s := lex.scanner
	for {
		if s.AtEOL() {
			if !lex.nextLine() {
				return false
			}
			continue
		}
		if !isWhitespace(s.Peek()) {
			return true
		}
		s.Skip(1)
	}
}

func (lex *Lexer) readToken() *token.Token {
	if lex.eof || !lex.skipWhitespace() {
		lex.eof = true
		lex.scanner.Ignore()
		return lex.emitEOF()
	}
	s := lex.scanner
	s.Ignore()
	c := s.Peek()
	switch {
	case c == '/' && s.PeekAt(1) == '/':
		return lex.readLineComment()
	case c == '/' && s.PeekAt(1) == '*':
		return lex.readBlockComment()
	case c == '/' && lex.regexAllowed():
		return lex.readRegexp()
	case c == '"' || c == '\'':
		return lex.readString()
	case c == '`':
		return lex.readTemplate(true)
	case c == '}' && len(lex.braces) > 0 && lex.braces[len(lex.braces)-1]:
		lex.braces = lex.braces[:len(lex.braces)-1]
		return lex.readTemplate(false)
	case isDigit(c) || (c == '.' && isDigit(s.PeekAt(1))):
		return lex.readNumber()
	case c == '#' && s.Line() == 1 && s.Col() == 1 && s.PeekAt(1) == '!':
		s.Skip(len([]rune(s.LineText())))
		return s.EmitToken(token.COMMENT)
	case IsIdentifierStart(c) || c == '\\':
		return lex.readIdentifier()
	}
	return lex.readPunctuator()
}

// regexAllowed reports whether a '/' in the current position begins a
// regular expression literal rather than a division operator.
func (lex *Lexer) regexAllowed() bool {
	prev := lex.prev
	if prev == nil {
		return true
	}
	switch prev.Type {
	case token.PUNCTUATOR:
		switch prev.Text {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	case token.IDENTIFIER:
		return !prev.Escaped && regexPrefixWords[prev.Value]
	case token.TEMPLATE_HEAD, token.TEMPLATE_MIDDLE:
		return true
	}
	return false
}

var regexPrefixWords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
}

// punctuators ordered so that longer operators match first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", ">>>", "<<=", ">>=", "**=", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "/", "@",
}

func (lex *Lexer) readPunctuator() *token.Token {
	s := lex.scanner
	for _, p := range punctuators {
		if !s.HasPrefix(p) {
			continue
		}
		if p == "?." && isDigit(s.PeekAt(2)) {
			continue
		}
		s.AcceptString(p)
		switch p {
		case "{":
			lex.braces = append(lex.braces, false)
		case "}":
			if len(lex.braces) > 0 {
				lex.braces = lex.braces[:len(lex.braces)-1]
			}
		}
		return s.EmitToken(token.PUNCTUATOR)
	}
	c := s.ScanRune()
	line, col := s.Line(), s.Col()-1
	lex.warn("E024", line, col, string(c))
	s.Ignore()
	return lex.readToken()
}

var directiveLabels = []string{"jshint", "jslint", "members", "member", "globals", "global", "exported"}

var fallsThrough = regexp.MustCompile(`(?i)^\s*falls?\s*through\s*$`)

// classifyComment tags tok with its directive label, if any.
func (lex *Lexer) classifyComment(tok *token.Token) {
	body := tok.Value
	if fallsThrough.MatchString(body) {
		tok.Directive = "falls through"
		return
	}
	trimmed := strings.TrimLeft(body, " \t")
	for _, label := range directiveLabels {
		if !strings.HasPrefix(trimmed, label) {
			continue
		}
		rest := trimmed[len(label):]
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
			continue
		}
		tok.Directive = label
		tok.Value = strings.TrimSpace(rest)
		if label == "jshint" {
			switch {
			case strings.Contains(rest, "ignore:start"):
				lex.ignoring = true
			case strings.Contains(rest, "ignore:end"):
				lex.ignoring = false
			}
		}
		return
	}
}

func (lex *Lexer) readLineComment() *token.Token {
	s := lex.scanner
	s.Skip(2)
	body := s.LineText()
	s.Skip(len([]rune(body)))
	tok := s.EmitToken(token.COMMENT)
	tok.Value = body
	lex.classifyComment(tok)
	return tok
}

func (lex *Lexer) readBlockComment() *token.Token {
	s := lex.scanner
	loc := s.LocStart()
	s.Skip(2)
	var body strings.Builder
	multiline := false
	lex.inComment = true
	defer func() { lex.inComment = false }()
	for {
		if s.AtEOL() {
			if !lex.nextLine() {
				lex.warn("E017", loc.Line, loc.Col)
				tok := &token.Token{
					Type:      token.COMMENT,
					Text:      "/*" + body.String(),
					Value:     body.String(),
					Source:    loc,
					Unclosed:  true,
					Multiline: multiline,
				}
				s.Ignore()
				return tok
			}
			multiline = true
			body.WriteByte('\n')
			continue
		}
		if s.HasPrefix("*/") {
			s.Skip(2)
			break
		}
		body.WriteRune(s.ScanRune())
	}
	loc.EndLine = s.Line()
	loc.EndCol = s.Col() - 1
	tok := &token.Token{
		Type:      token.COMMENT,
		Text:      "/*" + body.String() + "*/",
		Value:     body.String(),
		Source:    loc,
		Multiline: multiline,
	}
	s.Ignore()
	lex.classifyComment(tok)
	return tok
}

func isWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return c > 0x7f && unicode.Is(unicode.Zs, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
