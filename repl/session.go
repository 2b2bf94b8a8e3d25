// Copyright © 2024 The ELPS authors

package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/jshint/jshint-sub001/diagnostic"
	"github.com/jshint/jshint-sub001/lint"
	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/parser/lexer"
	"github.com/jshint/jshint-sub001/parser/token"
	"github.com/jshint/jshint-sub001/report"
)

// SourceName is the file name diagnostics from the console are reported
// against.
const SourceName = "<console>"

// Session holds the program entered at the console.  Lines are buffered
// until their brackets balance or a blank line is entered, then appended to
// the program and the whole program is linted.  Only problems on the newly
// appended lines are shown.
type Session struct {
	Linter   *lint.Linter
	Renderer *diagnostic.Renderer

	out     io.Writer
	program []string
	pending []string
	last    *lint.FileResult
}

// NewSession returns a session writing to out.  A nil opts uses the
// defaults.
func NewSession(out io.Writer, opts *options.Options) *Session {
	if opts == nil {
		opts = options.Default()
	}
	return &Session{
		Linter: &lint.Linter{
			Analyzers: lint.DefaultAnalyzers(),
			Options:   opts.Clone(),
		},
		Renderer: &diagnostic.Renderer{Color: diagnostic.ColorAuto},
		out:      out,
	}
}

// Pending reports whether lines are buffered awaiting completion.
func (s *Session) Pending() bool {
	return len(s.pending) > 0
}

// Program returns the accepted source lines.
func (s *Session) Program() []string {
	return s.program
}

// Last returns the most recent lint result or nil.
func (s *Session) Last() *lint.FileResult {
	return s.last
}

// Discard drops buffered lines.
func (s *Session) Discard() {
	s.pending = nil
}

// Flush lints any buffered lines.
func (s *Session) Flush() {
	if s.Pending() {
		s.commit()
	}
}

// Eval handles one line of input.  It returns false when the console should
// exit.
func (s *Session) Eval(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.Pending() && strings.HasPrefix(trimmed, ".") {
		return s.command(trimmed)
	}
	if trimmed == "" {
		s.Flush()
		return true
	}
	s.pending = append(s.pending, line)
	if balanced(strings.Join(s.pending, "\n")) {
		s.commit()
	}
	return true
}

func (s *Session) commit() {
	from := len(s.program)
	s.program = append(s.program, s.pending...)
	s.pending = nil
	s.lint(from)
}

// lint checks the whole program and shows problems past line from.  A chunk
// which stops the parser is removed again so later input can be checked.
func (s *Session) lint(from int) {
	src := []byte(strings.Join(s.program, "\n"))
	res, err := s.Linter.LintSource(src, SourceName)
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	var fresh []lint.Diagnostic
	for _, d := range res.Diagnostics {
		if d.Pos.Line > from || d.Pos.Line == 0 {
			fresh = append(fresh, d)
		}
	}
	if len(fresh) > 0 {
		s.Renderer.Sources = map[string][]byte{SourceName: src}
		_ = lint.RenderAll(s.out, s.Renderer, fresh)
	}
	if res.Incomplete {
		s.program = s.program[:from]
		s.printf("input discarded\n")
		return
	}
	s.last = res
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...) //nolint:errcheck // best-effort console output
}

// Commands understood by the console.
var commands = []string{".exit", ".help", ".reset", ".set", ".source", ".summary", ".unset"}

func (s *Session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".exit", ".quit":
		return false
	case ".help":
		s.printf("%s", helpText)
	case ".reset":
		s.program = nil
		s.last = nil
	case ".set", ".unset":
		s.setOption(fields[0] == ".set", fields[1:])
	case ".source":
		for i, l := range s.program {
			s.printf("%4d  %s\n", i+1, l)
		}
	case ".summary":
		s.printSummary()
	default:
		s.printf("unknown command %s; try .help\n", fields[0])
	}
	return true
}

const helpText = `Enter ECMAScript source.  Input is checked once brackets balance or a
blank line is entered.

  .set NAME [VALUE]  set an option (VALUE defaults to true)
  .set -W117         silence a warning code; +W117 restores it
  .unset NAME        set an option to false
  .source            print the accepted program
  .summary           print functions and globals of the program
  .reset             forget the program
  .exit              leave the console
`

func (s *Session) setOption(enable bool, args []string) {
	if len(args) == 0 {
		s.printf("usage: .set NAME [VALUE]\n")
		return
	}
	opts := s.Linter.Options
	if code, on, ok := options.ParseCodeToggle(args[0]); ok {
		opts.Ignore(code, on)
		return
	}
	var value interface{} = enable
	if enable && len(args) > 1 {
		value = strings.Join(args[1:], " ")
	}
	if err := opts.Set(args[0], value); err != nil {
		s.printf("%v\n", err)
	}
}

func (s *Session) printSummary() {
	if s.last == nil || s.last.Summary == nil {
		s.printf("nothing checked yet\n")
		return
	}
	sum := s.last.Summary
	for _, fn := range sum.Functions {
		name := fn.Name
		if name == "" {
			name = "(anonymous)"
		}
		s.printf("%d:%d %s %s(%s) statements=%d complexity=%d\n",
			fn.Line, fn.Col, fn.Kind, name, strings.Join(fn.Params, ", "),
			fn.Metrics.Statements, fn.Metrics.Complexity)
	}
	if len(sum.Globals) > 0 {
		s.printf("globals: %s\n", strings.Join(sum.Globals, " "))
	}
	for _, g := range sum.Implied {
		s.printf("implied global %s on lines %v\n", g.Name, g.Lines)
	}
	for _, u := range sum.Unused {
		s.printf("unused %s %s at %d:%d\n", u.Kind, u.Name, u.Line, u.Col)
	}
}

// balanced reports whether src contains no unclosed bracket, template or
// comment.
func balanced(src string) bool {
	lex := lexer.New(token.NewScannerString(SourceName, src), func(report.Code, int, int, ...string) {})
	depth := 0
	for i := 0; i <= len(src)+1; i++ {
		tok, err := lex.Token()
		if err != nil {
			return false
		}
		switch tok.Type {
		case token.EOF:
			return depth <= 0
		case token.COMMENT:
			if tok.Unclosed {
				return false
			}
		case token.PUNCTUATOR:
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
		case token.TEMPLATE, token.TEMPLATE_TAIL:
			if tok.Unclosed {
				return false
			}
			if tok.Type == token.TEMPLATE_TAIL {
				depth--
			}
		case token.TEMPLATE_HEAD:
			depth++
		}
	}
	return true
}
