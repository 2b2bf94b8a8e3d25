// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jshint/jshint-sub001/diagnostic"
)

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		b.WriteString(indent.String(wordwrap.String(a.Doc, 68), 4))
		b.WriteString("\n\n")
	}
	return b.String()
}

// Annotated converts d for the annotated terminal renderer.  A hint on how
// to silence the problem is added as a note.
func (d Diagnostic) Annotated() diagnostic.Diagnostic {
	out := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     string(d.Code),
		Message:  d.Message,
	}
	switch d.Severity {
	case SeverityError:
		out.Severity = diagnostic.SeverityError
	case SeverityInfo:
		out.Severity = diagnostic.SeverityNote
	}
	if d.Code == "" {
		out.Message += " (" + d.Analyzer + ")"
	}
	if d.Pos.Line > 0 {
		out.Spans = append(out.Spans, diagnostic.Span{
			File: d.Pos.File,
			Line: d.Pos.Line,
			Col:  d.Pos.Col,
		})
	}
	out.Notes = append(out.Notes, d.Notes...)
	switch {
	case d.Code != "" && d.Code[0] == 'W':
		out.Notes = append(out.Notes, "to suppress: add \"/* jshint -"+string(d.Code)+" */\" or \"// jshint ignore:line\"")
	case d.Code == "":
		out.Notes = append(out.Notes, "to suppress: add \"// jshint ignore:line\" as a comment on this line")
	}
	return out
}

// RenderAll writes diags through r in annotated form.
func RenderAll(w io.Writer, r *diagnostic.Renderer, diags []Diagnostic) error {
	ds := make([]diagnostic.Diagnostic, len(diags))
	for i := range diags {
		ds[i] = diags[i].Annotated()
	}
	return r.RenderAll(w, ds)
}
