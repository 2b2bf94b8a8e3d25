// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/jshint/jshint-sub001/diagnostic"
	"github.com/jshint/jshint-sub001/lint"
)

// colorMode returns the mode selected with --color.  The flag is validated
// before any command runs.
func colorMode() diagnostic.ColorMode {
	mode, _ := diagnostic.ParseColorMode(colorFlag)
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(), Width: 100}
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
// Sources supplies text for inputs which are not files, such as stdin.
func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic, sources map[string][]byte) {
	r := newRenderer()
	r.Sources = sources
	_ = lint.RenderAll(w, r, diags)
}
