// Copyright © 2018 The ELPS authors

package token

import (
	"io"
	"strings"
	"unicode/utf8"
)

// EOL is returned by Peek when the cursor sits at the end of a line.
const EOL rune = -1

// Scanner is a cursor over source text split into lines.  Tokens are scanned
// one line at a time; constructs which span lines (comments, template
// literals, strings with escaped line terminators) call NextLine explicitly.
type Scanner struct {
	file  string
	lines []string

	line      int    // index of the current line
	cur       []rune // runes of the current line
	col       int    // index of the next rune in cur
	start     int    // col at the start of the current token
	startLine int    // line at the start of the current token

	readErr error
}

// NewScanner reads all of r and returns a Scanner positioned at the first
// character.  A read error is retained and reported by Err.
func NewScanner(file string, r io.Reader) *Scanner {
	b, err := io.ReadAll(r)
	s := NewScannerString(file, string(b))
	s.readErr = err
	return s
}

// NewScannerString returns a Scanner over src.
func NewScannerString(file string, src string) *Scanner {
	s := &Scanner{
		file:  file,
		lines: SplitLines(src),
	}
	s.load()
	return s
}

// SplitLines splits src on CRLF, CR and LF line terminators.
func SplitLines(src string) []string {
	if src == "" {
		return []string{""}
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

func (s *Scanner) load() {
	s.col = 0
	s.start = 0
	s.startLine = s.line
	if s.line < len(s.lines) {
		line := s.lines[s.line]
		if !utf8.ValidString(line) {
			line = strings.ToValidUTF8(line, string(utf8.RuneError))
		}
		s.cur = []rune(line)
	} else {
		s.cur = nil
	}
}

// Err returns an error encountered reading the source.
func (s *Scanner) Err() error {
	return s.readErr
}

// File returns the name given to the source.
func (s *Scanner) File() string {
	return s.file
}

// Lines returns the source split into lines.
func (s *Scanner) Lines() []string {
	return s.lines
}

// Line returns the 1-based number of the current line.
func (s *Scanner) Line() int {
	return s.line + 1
}

// Col returns the 1-based column of the next rune to be scanned.
func (s *Scanner) Col() int {
	return s.col + 1
}

// LineText returns the remaining unscanned portion of the current line.
func (s *Scanner) LineText() string {
	if s.col >= len(s.cur) {
		return ""
	}
	return string(s.cur[s.col:])
}

// FullLine returns the current line as read from the source.
func (s *Scanner) FullLine() string {
	return string(s.cur)
}

// Blank discards the remainder of the current line.
func (s *Scanner) Blank() {
	s.cur = s.cur[:s.col]
}

// NextLine moves the cursor to the beginning of the following line.  It
// returns false when there are no more lines.
func (s *Scanner) NextLine() bool {
	if s.line+1 >= len(s.lines) {
		s.line = len(s.lines)
		s.load()
		return false
	}
	s.line++
	startLine := s.startLine
	start := s.start
	s.load()
	// A token in progress keeps its starting position.
	s.startLine = startLine
	s.start = start
	return true
}

// EOF reports whether all lines have been consumed.
func (s *Scanner) EOF() bool {
	return s.line >= len(s.lines) || (s.line == len(s.lines)-1 && s.col >= len(s.cur))
}

// AtEOL reports whether the current line has been fully scanned.
func (s *Scanner) AtEOL() bool {
	return s.col >= len(s.cur)
}

// Peek returns the next rune on the current line or EOL.
func (s *Scanner) Peek() rune {
	return s.PeekAt(0)
}

// PeekAt returns the rune i positions past the cursor or EOL.
func (s *Scanner) PeekAt(i int) rune {
	if s.col+i >= len(s.cur) || s.col+i < 0 {
		return EOL
	}
	return s.cur[s.col+i]
}

// ScanRune consumes and returns the next rune on the current line.
func (s *Scanner) ScanRune() rune {
	if s.col >= len(s.cur) {
		return EOL
	}
	c := s.cur[s.col]
	s.col++
	return c
}

// Skip consumes n runes on the current line.
func (s *Scanner) Skip(n int) {
	s.col += n
	if s.col > len(s.cur) {
		s.col = len(s.cur)
	}
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	c := s.Peek()
	if c != EOL && fn(c) {
		s.col++
		return true
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	if s.Peek() == c {
		s.col++
		return true
	}
	return false
}

func (s *Scanner) AcceptAny(charset string) bool {
	c := s.Peek()
	if c != EOL && strings.ContainsRune(charset, c) {
		s.col++
		return true
	}
	return false
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqAny(charset string) int {
	var n int
	for s.AcceptAny(charset) {
		n++
	}
	return n
}

// AcceptString consumes literal if the line continues with it.
func (s *Scanner) AcceptString(literal string) bool {
	if !s.HasPrefix(literal) {
		return false
	}
	s.col += utf8.RuneCountInString(literal)
	return true
}

// HasPrefix reports whether the unscanned line text begins with literal.
func (s *Scanner) HasPrefix(literal string) bool {
	i := 0
	for _, c := range literal {
		if s.PeekAt(i) != c {
			return false
		}
		i++
	}
	return true
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.col
	s.startLine = s.line
}

// Text returns the text scanned on the current line since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Text() string {
	if s.startLine != s.line {
		return string(s.cur[:s.col])
	}
	if s.start > len(s.cur) {
		return ""
	}
	return string(s.cur[s.start:s.col])
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	tok.Value = tok.Text
	s.Ignore()
	return tok
}

// LocStart returns a Location spanning the current token.
func (s *Scanner) LocStart() *Location {
	endCol := s.col
	if endCol < 1 {
		endCol = 1
	}
	return &Location{
		File:    s.file,
		Line:    s.startLine + 1,
		Col:     s.start + 1,
		EndLine: s.line + 1,
		EndCol:  endCol,
	}
}

// Loc returns a Location referencing the next rune to be scanned.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Line: s.line + 1,
		Col:  s.col + 1,
	}
}
