// Copyright © 2024 The ELPS authors

package lint

import (
	"strings"

	"github.com/jshint/jshint-sub001/analysis"
)

// SplitLines splits source into lines.  Line terminators are "\n", "\r\n"
// and a lone "\r", matching the lexer's line numbering.
func SplitLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// WalkLines calls fn with every line of the file and its 1-based number.
func WalkLines(pass *Pass, fn func(line string, n int)) {
	for i, line := range pass.Lines {
		fn(line, i+1)
	}
}

// WalkFunctions calls fn for every function in the parse summary, in source
// order.
func WalkFunctions(pass *Pass, fn func(f *analysis.FunctionInfo)) {
	if pass.Result == nil || pass.Result.Summary == nil {
		return
	}
	fs := pass.Result.Summary.Functions
	for i := range fs {
		fn(&fs[i])
	}
}

// Indent returns the leading white space of line.
func Indent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
