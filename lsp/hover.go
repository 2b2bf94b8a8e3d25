// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jshint/jshint-sub001/analysis"
)

// textDocumentHover handles the textDocument/hover request.  On an implied
// global it lists where the global is used; on the first line of a
// function it shows the function's metrics and the names it closes over.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	res := s.ensureLinted(doc)
	if res.Summary == nil {
		return nil, nil
	}
	doc.mu.Lock()
	lines := splitLines(doc.Content)
	doc.mu.Unlock()

	content := buildHoverContent(res.Summary, wordAt(lines, params.Position), int(params.Position.Line)+1)
	if content == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}, nil
}

// buildHoverContent builds Markdown hover text for word on the 1-based
// line.
func buildHoverContent(sum *analysis.Summary, word string, line int) string {
	if word != "" {
		for _, g := range sum.Implied {
			if g.Name == word {
				lines := make([]string, len(g.Lines))
				for i, l := range g.Lines {
					lines[i] = fmt.Sprint(l)
				}
				return fmt.Sprintf("**implied global** `%s`\n\nUsed without a declaration on line %s.",
					g.Name, strings.Join(lines, ", "))
			}
		}
	}

	// The innermost function starting on this line.
	var fn *analysis.FunctionInfo
	for i := range sum.Functions {
		if sum.Functions[i].Line == line {
			fn = &sum.Functions[i]
		}
	}
	if fn == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s%s`", fn.Kind, displayName(*fn), signature(*fn))
	fmt.Fprintf(&sb, "\n\nstatements: %d, depth: %d, complexity: %d",
		fn.Metrics.Statements, fn.Metrics.MaxDepth, fn.Metrics.Complexity)
	if len(fn.Closure) > 0 {
		fmt.Fprintf(&sb, "\n\nread by inner functions: `%s`", strings.Join(fn.Closure, "`, `"))
	}
	if len(fn.Outer) > 0 {
		fmt.Fprintf(&sb, "\n\ncloses over: `%s`", strings.Join(fn.Outer, "`, `"))
	}
	if len(fn.Global) > 0 {
		fmt.Fprintf(&sb, "\n\nglobals: `%s`", strings.Join(fn.Global, "`, `"))
	}
	return sb.String()
}
