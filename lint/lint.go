// Copyright © 2024 The ELPS authors

// Package lint runs the parser over ECMAScript source files and a set of
// analyzers over the result.
//
// The parser reports most problems itself.  Analyzers are independent checks
// that receive the parse result and the raw source; they cover limits which
// need the whole function or the whole line to be known.  Embedders can
// define custom checks alongside the built-in set.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jshint/jshint-sub001/analysis"
	"github.com/jshint/jshint-sub001/options"
	"github.com/jshint/jshint-sub001/parser/tdop"
	"github.com/jshint/jshint-sub001/report"
)

// ParserAnalyzer is the analyzer name attached to diagnostics produced by
// the parser.
const ParserAnalyzer = "jshint"

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

func severityOf(code report.Code) Severity {
	switch code.Severity() {
	case report.SeverityError:
		return SeverityError
	case report.SeverityInfo:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "max-len").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Lines holds the source split into lines without terminators.
	Lines []string

	// Options are the options in force at the top of the file, after any
	// directive comments at the top level were applied by the parser.
	Options *options.Options

	// Result is the parse result.  Its diagnostics are already reported.
	Result *tdop.Result

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// ReportCode records a catalog diagnostic at a position.
func (p *Pass) ReportCode(code report.Code, line, col int, args ...string) {
	p.Report(Diagnostic{
		Pos:     Position{File: p.Filename, Line: line, Col: col},
		Code:    code,
		Message: code.Format(args...),
	})
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Code is the catalog code of the problem, if it has one.
	Code report.Code `json:"code,omitempty"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (code)
// with optional note lines appended.
func (d Diagnostic) String() string {
	tag := d.Analyzer
	if d.Code != "" {
		tag = string(d.Code)
	}
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, tag)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// FileResult is the outcome of linting one file.
type FileResult struct {
	Filename    string            `json:"file"`
	Diagnostics []Diagnostic      `json:"diagnostics"`
	Summary     *analysis.Summary `json:"summary,omitempty"`
	// Incomplete is set when the parser stopped early.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Linter runs the parser and a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Options are the options in force at the start of every file.  Nil
	// means the defaults.
	Options *options.Options

	// Predefined overrides the global table derived from Options.
	Predefined map[string]bool

	// Concurrency bounds the number of files linted at once by LintPaths.
	// Zero means one per CPU.
	Concurrency int

	// Logger receives per-file progress at debug level.  Nil discards it.
	Logger logrus.FieldLogger
}

func (l *Linter) logger() logrus.FieldLogger {
	if l.Logger != nil {
		return l.Logger
	}
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}

// LintFile analyzes a single source file and returns all diagnostics.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	res, err := l.LintSource(source, filename)
	if err != nil {
		return nil, err
	}
	return res.Diagnostics, nil
}

// LintSource analyzes a single source file and returns the diagnostics
// together with the scope summary.
func (l *Linter) LintSource(source []byte, filename string) (*FileResult, error) {
	opts := l.Options
	if opts == nil {
		opts = options.Default()
	}
	parsed := tdop.Parse(source, &tdop.Config{
		File:       filename,
		Options:    opts,
		Predefined: l.Predefined,
	})

	all := make([]Diagnostic, 0, len(parsed.Diagnostics))
	for _, d := range parsed.Diagnostics {
		all = append(all, fromReport(filename, d))
	}

	lines := SplitLines(source)
	fileOpts := parsed.Options
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Lines:    lines,
			Options:  fileOpts,
			Result:   parsed,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
			if code := pass.diagnostics[i].Code; code != "" && fileOpts.IsIgnored(code) {
				continue
			}
			all = append(all, pass.diagnostics[i])
		}
	}

	all = filterSuppressed(all, parsed.IgnoredLines)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.File != all[j].Pos.File {
			return all[i].Pos.File < all[j].Pos.File
		}
		return all[i].Pos.Line < all[j].Pos.Line
	})

	l.logger().WithFields(logrus.Fields{
		"file":        filename,
		"diagnostics": len(all),
		"incomplete":  parsed.Incomplete,
	}).Debug("linted file")

	return &FileResult{
		Filename:    filename,
		Diagnostics: all,
		Summary:     parsed.Summary,
		Incomplete:  parsed.Incomplete,
	}, nil
}

func fromReport(filename string, d report.Diagnostic) Diagnostic {
	return Diagnostic{
		Pos:      Position{File: filename, Line: d.Line, Col: d.Col},
		Code:     d.Code,
		Message:  d.Message(),
		Analyzer: ParserAnalyzer,
		Severity: severityOf(d.Code),
	}
}

// filterSuppressed removes analyzer diagnostics on lines carrying an
// ignore:line directive.  The parser filters its own.
func filterSuppressed(diags []Diagnostic, ignored map[int]bool) []Diagnostic {
	if len(ignored) == 0 {
		return diags
	}
	var filtered []Diagnostic
	for _, d := range diags {
		if d.Analyzer != ParserAnalyzer && ignored[d.Pos.Line] {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// FormatReport writes whole file results, summaries included, as JSON.
func FormatReport(w io.Writer, results []*FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerMaxStatements,
		AnalyzerMaxParams,
		AnalyzerMaxComplexity,
		AnalyzerMaxLen,
		AnalyzerTrailing,
		AnalyzerMixedIndent,
	}
}
