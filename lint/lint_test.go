// Copyright © 2024 The ELPS authors

package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jshint/jshint-sub001/linttest"
	"github.com/jshint/jshint-sub001/options"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string, set func(o *options.Options)) []Diagnostic {
	t.Helper()
	o := options.Default()
	if set != nil {
		set(o)
	}
	l := &Linter{Analyzers: DefaultAnalyzers(), Options: o, Logger: linttest.NewLogger(t)}
	diags, err := l.LintFile([]byte(source), "test.js")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string, set func(o *options.Options)) []Diagnostic {
	t.Helper()
	o := options.Default()
	if set != nil {
		set(o)
	}
	l := &Linter{Analyzers: []*Analyzer{analyzer}, Options: o}
	diags, err := l.LintFile([]byte(source), "test.js")
	require.NoError(t, err)
	var own []Diagnostic
	for _, d := range diags {
		if d.Analyzer == analyzer.Name {
			own = append(own, d)
		}
	}
	return own
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// assertDiagOnLine checks that a diagnostic exists on the given line with the given substring.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Message))
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

func TestPosition_String_FileOnly(t *testing.T) {
	p := Position{File: "a.js"}
	assert.Equal(t, "a.js", p.String())
}

func TestPosition_String_FileLine(t *testing.T) {
	p := Position{File: "a.js", Line: 3}
	assert.Equal(t, "a.js:3", p.String())
}

func TestPosition_String_FileLineCol(t *testing.T) {
	p := Position{File: "a.js", Line: 3, Col: 7}
	assert.Equal(t, "a.js:3:7", p.String())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Pos:      Position{File: "a.js", Line: 1, Col: 1},
		Code:     "W117",
		Message:  "'x' is not defined.",
		Analyzer: ParserAnalyzer,
		Notes:    []string{"declare it with var"},
	}
	assert.Equal(t, "a.js:1:1: 'x' is not defined. (W117)\n  = note: declare it with var", d.String())

	d = Diagnostic{Pos: Position{File: "a.js", Line: 2}, Message: "custom", Analyzer: "mine"}
	assert.Equal(t, "a.js:2: custom (mine)", d.String())
}

func TestSeverity_JSON(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		b, err := json.Marshal(s)
		require.NoError(t, err)
		var back Severity
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, s, back)
	}
	b, err := json.Marshal(severityUnset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))
	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
}

func TestLintFile_AnalyzerError(t *testing.T) {
	boom := &Analyzer{
		Name: "boom",
		Run:  func(*Pass) error { return errors.New("exploded") },
	}
	l := &Linter{Analyzers: []*Analyzer{boom}}
	_, err := l.LintFile([]byte("var a;"), "test.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.js: analyzer boom: exploded")
}

func TestLintFile_ParserDiagnostics(t *testing.T) {
	diags := lintSource(t, "x = 1;", func(o *options.Options) { o.Undef = true })
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "W117", string(d.Code))
	assert.Equal(t, ParserAnalyzer, d.Analyzer)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, Position{File: "test.js", Line: 1, Col: 1}, d.Pos)
	assert.Equal(t, "'x' is not defined.", d.Message)
}

func TestLintFile_ErrorSeverity(t *testing.T) {
	diags := lintSource(t, "if (", nil)
	require.NotEmpty(t, diags)
	last := diags[len(diags)-1]
	assert.Equal(t, "E042", string(last.Code))
	assert.Equal(t, SeverityError, last.Severity)
}

func TestLintFile_SortedByLine(t *testing.T) {
	src := "function f() {\n  var a = 1;\n  var b = 2;\n}\nf();\nx = 1;"
	diags := lintSource(t, src, func(o *options.Options) {
		o.Undef = true
		o.MaxStatements = 1
	})
	require.Len(t, diags, 2)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, "W071", string(diags[0].Code))
	assert.Equal(t, 6, diags[1].Pos.Line)
	assert.Equal(t, "W117", string(diags[1].Code))
}

func TestLintSource_Summary(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	res, err := l.LintSource([]byte("function f(a) { return a; }\nf(1);"), "test.js")
	require.NoError(t, err)
	assert.False(t, res.Incomplete)
	require.NotNil(t, res.Summary)
	require.Len(t, res.Summary.Functions, 1)
	assert.Equal(t, "f", res.Summary.Functions[0].Name)
}

func TestMaxStatements(t *testing.T) {
	src := "function f() {\n  var a = 1;\n  var b = 2;\n  return a + b;\n}\nf();"
	set := func(o *options.Options) { o.MaxStatements = 2 }
	diags := lintCheck(t, AnalyzerMaxStatements, src, set)
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 1, "too many statements. (3)")

	assertNoDiags(t, lintCheck(t, AnalyzerMaxStatements, src, func(o *options.Options) { o.MaxStatements = 3 }))
	assertNoDiags(t, lintCheck(t, AnalyzerMaxStatements, src, nil))
}

func TestMaxParams(t *testing.T) {
	src := "function f(a, b, c) { return a + b + c; }\nf();"
	diags := lintCheck(t, AnalyzerMaxParams, src, func(o *options.Options) { o.MaxParams = 2 })
	require.Len(t, diags, 1)
	assertHasDiag(t, diags, "too many parameters. (3)")
	assert.Equal(t, "W072", string(diags[0].Code))

	assertNoDiags(t, lintCheck(t, AnalyzerMaxParams, src, func(o *options.Options) { o.MaxParams = 3 }))
}

func TestMaxComplexity(t *testing.T) {
	src := "function f(a) {\n  if (a) {\n    return 1;\n  }\n  return a || 2;\n}\nf(1);"
	diags := lintCheck(t, AnalyzerMaxComplexity, src, func(o *options.Options) { o.MaxComplexity = 2 })
	require.Len(t, diags, 1)
	assertHasDiag(t, diags, "cyclomatic complexity is too high. (3)")

	assertNoDiags(t, lintCheck(t, AnalyzerMaxComplexity, src, func(o *options.Options) { o.MaxComplexity = 3 }))
}

func TestMaxLen(t *testing.T) {
	src := "var a = 1;\nvar abcdefghij = 1;"
	diags := lintCheck(t, AnalyzerMaxLen, src, func(o *options.Options) { o.MaxLen = 10 })
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 2, "Line is too long.")
	assert.Equal(t, 11, diags[0].Pos.Col)
}

func TestMaxLen_Directive(t *testing.T) {
	src := "/* jshint maxlen: 30 */\nvar abcdefghijklmnopqrstuvwxyz = 1;"
	diags := lintCheck(t, AnalyzerMaxLen, src, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].Pos.Line)
}

func TestMaxLen_IgnoreLine(t *testing.T) {
	src := "var abcdefghij = 1; // jshint ignore:line"
	assertNoDiags(t, lintCheck(t, AnalyzerMaxLen, src, func(o *options.Options) { o.MaxLen = 10 }))
}

func TestMaxLen_IgnoreLineInString(t *testing.T) {
	src := "var abcdefghij = 'jshint ignore:line';"
	diags := lintCheck(t, AnalyzerMaxLen, src, func(o *options.Options) { o.MaxLen = 10 })
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 1, "Line is too long.")

	src = "var abcdefghij = 1; /* jshint ignore:line */"
	assertNoDiags(t, lintCheck(t, AnalyzerMaxLen, src, func(o *options.Options) { o.MaxLen = 10 }))
}

func TestTrailing(t *testing.T) {
	src := "var a = 1;  \nvar b = 2;"
	diags := lintCheck(t, AnalyzerTrailing, src, func(o *options.Options) { o.Trailing = true })
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 1, "Trailing whitespace.")
	assert.Equal(t, 11, diags[0].Pos.Col)

	assertNoDiags(t, lintCheck(t, AnalyzerTrailing, src, nil))
}

func TestMixedIndent(t *testing.T) {
	src := "function f() {\n \tvar a;\n\treturn a;\n}\nf();"
	diags := lintCheck(t, AnalyzerMixedIndent, src, nil)
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 2, "Mixed spaces and tabs.")

	assertNoDiags(t, lintCheck(t, AnalyzerMixedIndent, "/* jshint -W099 */\n"+src, nil))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", ""}, SplitLines([]byte("a\r\nb\rc\n")))
	assert.Equal(t, []string{""}, SplitLines(nil))
}

func TestFormatText(t *testing.T) {
	diags := lintSource(t, "x = 1;", func(o *options.Options) { o.Undef = true })
	var buf bytes.Buffer
	FormatText(&buf, diags)
	assert.Equal(t, "test.js:1:1: 'x' is not defined. (W117)\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	diags := lintSource(t, "x = 1;", func(o *options.Options) { o.Undef = true })
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "W117", decoded[0]["code"])
	assert.Equal(t, "warning", decoded[0]["severity"])
	assert.Equal(t, ParserAnalyzer, decoded[0]["analyzer"])
	pos := decoded[0]["pos"].(map[string]interface{})
	assert.Equal(t, "test.js", pos["file"])
	assert.Equal(t, float64(1), pos["line"])
}

func TestFormatReport(t *testing.T) {
	l := &Linter{}
	res, err := l.LintSource([]byte("var a = 1;"), "test.js")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, []*FileResult{res}))
	assert.Contains(t, buf.String(), `"file": "test.js"`)
	assert.Contains(t, buf.String(), `"globals": [`)
}

func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		paths = append(paths, path)
	}
	return dir, paths
}

func TestLintPaths(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)

	_, paths := writeFiles(t, map[string]string{
		"a.js": "x = 1;",
		"b.js": "var b = 1;",
		"c.js": "y = 2;\nz = 3;",
	})
	o := options.Default()
	o.Undef = true
	l := &Linter{Analyzers: DefaultAnalyzers(), Options: o, Concurrency: 2, Logger: linttest.NewLogger(t)}
	results, err := l.LintPaths(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, paths[i], r.Filename)
		switch filepath.Base(r.Filename) {
		case "a.js":
			assert.Len(t, r.Diagnostics, 1)
		case "b.js":
			assert.Empty(t, r.Diagnostics)
		case "c.js":
			assert.Len(t, r.Diagnostics, 2)
		}
	}
	assert.Equal(t, 3, Count(results))
	assert.Len(t, Flatten(results), 3)

	spans := exporter.GetSpans()
	assert.GreaterOrEqual(t, len(spans), len(paths)+1, "expected a span per file and one for the batch")
}

func TestLintPaths_MissingFile(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{"a.js": "var a;"})
	paths = append(paths, filepath.Join(dir, "missing.js"))
	l := &Linter{}
	_, err := l.LintPaths(context.Background(), paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.js")
}
