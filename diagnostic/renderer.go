// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const defaultTabWidth = 4

// Renderer formats diagnostics as Rust-style annotated source snippets.
// Columns in spans count runes, as the lexer does.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// TabWidth is the number of spaces a tab expands to in snippets.
	// Zero means 4.
	TabWidth int

	// Width wraps note text to this many columns when positive.
	Width int

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)

	// Sources holds in-memory contents, such as standard input, keyed by
	// display name.  It is consulted before SourceReader.
	Sources map[string][]byte
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	return r.RenderAll(w, []Diagnostic{d})
}

// RenderAll writes all diagnostics to w separated by blank lines.  Each
// source file is read at most once.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	f, _ := w.(*os.File)
	rc := &rendering{
		Renderer: r,
		st:       styleFor(r.Color, f),
		files:    make(map[string][]string),
	}
	for i, d := range diags {
		if i > 0 {
			rc.b.WriteByte('\n')
		}
		rc.diagnostic(d)
	}
	_, err := io.WriteString(w, rc.b.String())
	return err
}

// rendering is the state of one RenderAll call.
type rendering struct {
	*Renderer
	st    style
	b     strings.Builder
	files map[string][]string
}

func (rc *rendering) printf(format string, a ...interface{}) {
	fmt.Fprintf(&rc.b, format, a...)
}

func (rc *rendering) diagnostic(d Diagnostic) {
	st := rc.st
	code := ""
	if d.Code != "" {
		code = "[" + d.Code + "]"
	}
	rc.printf("%s%s%s%s: %s%s%s\n", st.paint(d.Severity), d.Severity, code, st.reset, st.message, d.Message, st.reset)
	for _, sp := range d.Spans {
		rc.span(sp)
	}
	for _, note := range d.Notes {
		rc.note(note)
	}
}

func (rc *rendering) span(sp Span) {
	st := rc.st
	rc.printf("  %s-->%s %s\n", st.gutter, st.reset, sp.location())

	text, ok := rc.line(sp.File, sp.Line)
	if !ok {
		rc.printf("   %s|%s\n", st.gutter, st.reset)
		return
	}
	num := strconv.Itoa(sp.Line)
	blank := strings.Repeat(" ", len(num))
	rc.printf(" %s%s |%s\n", st.gutter, blank, st.reset)
	rc.printf(" %s%s |%s  %s\n", st.gutter, num, st.reset, rc.expandTabs(text))

	pad, width := rc.extent([]rune(text), sp)
	rc.printf(" %s%s |%s  %s%s%s%s", st.gutter, blank, st.reset,
		strings.Repeat(" ", pad), st.marker, strings.Repeat("^", width), st.reset)
	if sp.Label != "" {
		rc.printf(" %s%s%s", st.marker, sp.Label, st.reset)
	}
	rc.b.WriteByte('\n')
	rc.printf(" %s%s |%s\n", st.gutter, blank, st.reset)
}

// note writes an "= note:" line.  Wrapped continuation lines are aligned
// under the note text.
func (rc *rendering) note(text string) {
	const lead = "   = note: "
	if rc.Width > len(lead) {
		text = wordwrap.String(text, rc.Width-len(lead))
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i+1] + indent.String(text[i+1:], uint(len(lead)))
		}
	}
	rc.printf("   %s=%s note: %s\n", rc.st.note, rc.st.reset, text)
}

func (sp Span) location() string {
	switch {
	case sp.Line <= 0:
		return sp.File
	case sp.Col <= 0:
		return fmt.Sprintf("%s:%d", sp.File, sp.Line)
	}
	return fmt.Sprintf("%s:%d:%d", sp.File, sp.Line, sp.Col)
}

// line returns line n of file without its line terminator.
func (rc *rendering) line(file string, n int) (string, bool) {
	if file == "" || n <= 0 {
		return "", false
	}
	lines, ok := rc.files[file]
	if !ok {
		lines = rc.load(file)
		rc.files[file] = lines
	}
	if n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

func (rc *rendering) load(file string) []string {
	data, ok := rc.Sources[file]
	if !ok {
		read := rc.SourceReader
		if read == nil {
			read = os.ReadFile
		}
		var err error
		if data, err = read(file); err != nil {
			return nil
		}
	}
	lines := strings.Split(string(data), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

func (rc *rendering) tabWidth() int {
	if rc.TabWidth > 0 {
		return rc.TabWidth
	}
	return defaultTabWidth
}

func (rc *rendering) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", rc.tabWidth()))
}

// extent returns the display offset of the span start on a line and the
// number of columns to underline.  Without an end column the underline
// covers the word at the start column, or a single character.
func (rc *rendering) extent(line []rune, sp Span) (pad, width int) {
	col := sp.Col
	if col < 1 {
		col = 1
	}
	end := sp.EndCol
	if end <= 0 {
		end = wordEnd(line, col)
	}
	if end < col {
		end = col
	}
	for _, c := range line[:min(col-1, len(line))] {
		if c == '\t' {
			pad += rc.tabWidth()
		} else {
			pad++
		}
	}
	return pad, end - col + 1
}

// wordEnd returns the 1-based column of the last rune of the word starting
// at col.
func wordEnd(line []rune, col int) int {
	i := col - 1
	for i < len(line) && isWordRune(line[i]) {
		i++
	}
	if i == col-1 {
		return col
	}
	return i
}

func isWordRune(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
