// Copyright © 2024 The ELPS authors

package lint

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jshint/jshint-sub001/analysis"
)

// AnalyzerMaxStatements warns about functions with more statements than the
// maxstatements option allows.
var AnalyzerMaxStatements = &Analyzer{
	Name:     "max-statements",
	Doc:      "Warn when a function has more statements than `maxstatements` allows.\n\nNested functions count their own statements; a function declaration counts as one statement of its parent.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		limit := pass.Options.MaxStatements
		if limit <= 0 {
			return nil
		}
		WalkFunctions(pass, func(f *analysis.FunctionInfo) {
			if f.Metrics.Statements > limit {
				pass.ReportCode("W071", f.Line, f.Col, strconv.Itoa(f.Metrics.Statements))
			}
		})
		return nil
	},
}

// AnalyzerMaxParams warns about functions declaring more formal parameters
// than the maxparams option allows.
var AnalyzerMaxParams = &Analyzer{
	Name:     "max-params",
	Doc:      "Warn when a function declares more parameters than `maxparams` allows.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		limit := pass.Options.MaxParams
		if limit <= 0 {
			return nil
		}
		WalkFunctions(pass, func(f *analysis.FunctionInfo) {
			if len(f.Params) > limit {
				pass.ReportCode("W072", f.Line, f.Col, strconv.Itoa(len(f.Params)))
			}
		})
		return nil
	},
}

// AnalyzerMaxComplexity warns about functions whose cyclomatic complexity
// exceeds the maxcomplexity option.
var AnalyzerMaxComplexity = &Analyzer{
	Name:     "max-complexity",
	Doc:      "Warn when a function's cyclomatic complexity exceeds `maxcomplexity`.\n\nEvery function starts at one.  Each branch of if, loops, case clauses, catch clauses, the ternary operator and the short-circuit operators add one.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		limit := pass.Options.MaxComplexity
		if limit <= 0 {
			return nil
		}
		WalkFunctions(pass, func(f *analysis.FunctionInfo) {
			if f.Metrics.Complexity > limit {
				pass.ReportCode("W074", f.Line, f.Col, strconv.Itoa(f.Metrics.Complexity))
			}
		})
		return nil
	},
}

// AnalyzerMaxLen warns about lines longer than the maxlen option.
var AnalyzerMaxLen = &Analyzer{
	Name:     "max-len",
	Doc:      "Warn when a line is longer than `maxlen` characters.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		limit := pass.Options.MaxLen
		if limit <= 0 {
			return nil
		}
		WalkLines(pass, func(line string, n int) {
			if utf8.RuneCountInString(line) > limit {
				pass.ReportCode("W101", n, limit+1)
			}
		})
		return nil
	},
}

// AnalyzerTrailing warns about white space at the end of a line when the
// trailing option is set.
var AnalyzerTrailing = &Analyzer{
	Name:     "trailing",
	Doc:      "Warn about trailing white space when `trailing` is set.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		if !pass.Options.Trailing {
			return nil
		}
		WalkLines(pass, func(line string, n int) {
			trimmed := strings.TrimRight(line, " \t")
			if len(trimmed) < len(line) {
				pass.ReportCode("W102", n, utf8.RuneCountInString(trimmed)+1)
			}
		})
		return nil
	},
}

// AnalyzerMixedIndent warns about indentation mixing tabs and spaces.
var AnalyzerMixedIndent = &Analyzer{
	Name:     "mixed-indent",
	Doc:      "Warn about indentation which mixes spaces and tabs.\n\nSilence it with `-W099`.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		WalkLines(pass, func(line string, n int) {
			ind := Indent(line)
			if len(ind) == len(line) {
				return
			}
			if sp, tab := strings.IndexByte(ind, ' '), strings.IndexByte(ind, '\t'); sp >= 0 && tab >= 0 {
				col := sp
				if tab > col {
					col = tab
				}
				pass.ReportCode("W099", n, col+1)
			}
		})
		return nil
	},
}
