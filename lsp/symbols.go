// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jshint/jshint-sub001/analysis"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// Functions are reported as a tree following their nesting.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
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

	return documentSymbols(lines, res.Summary.Functions), nil
}

type symbolNode struct {
	fn       analysis.FunctionInfo
	children []*symbolNode
}

// documentSymbols nests fns, which are in source order, by their ranges.
func documentSymbols(lines []string, fns []analysis.FunctionInfo) []protocol.DocumentSymbol {
	var roots []*symbolNode
	var stack []*symbolNode
	for _, fn := range fns {
		n := &symbolNode{fn: fn}
		for len(stack) > 0 && !contains(stack[len(stack)-1].fn, fn) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		}
		stack = append(stack, n)
	}
	return toDocumentSymbols(lines, roots)
}

func toDocumentSymbols(lines []string, nodes []*symbolNode) []protocol.DocumentSymbol {
	symbols := make([]protocol.DocumentSymbol, 0, len(nodes))
	for _, n := range nodes {
		r := functionRange(lines, n.fn)
		detail := signature(n.fn)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           displayName(n.fn),
			Detail:         &detail,
			Kind:           mapFunctionKind(n.fn.Kind),
			Range:          r,
			SelectionRange: protocol.Range{Start: r.Start, End: r.Start},
			Children:       toDocumentSymbols(lines, n.children),
		})
	}
	return symbols
}

// contains reports whether inner starts within outer.  A function whose end
// is unknown extends to the end of the file.
func contains(outer, inner analysis.FunctionInfo) bool {
	if before(inner.Line, inner.Col, outer.Line, outer.Col) {
		return false
	}
	if outer.EndLine == 0 {
		return true
	}
	return !before(outer.EndLine, outer.EndCol, inner.Line, inner.Col)
}

func before(l1, c1, l2, c2 int) bool {
	return l1 < l2 || (l1 == l2 && c1 < c2)
}

// functionRange returns the LSP range spanned by fn.
func functionRange(lines []string, fn analysis.FunctionInfo) protocol.Range {
	endLine, endCol := fn.EndLine, fn.EndCol+1
	if endLine == 0 {
		endLine = len(lines)
		endCol = len([]rune(lineText(lines, endLine))) + 1
	}
	return protocol.Range{
		Start: toLSPPosition(lines, fn.Line, fn.Col),
		End:   toLSPPosition(lines, endLine, endCol),
	}
}

func displayName(fn analysis.FunctionInfo) string {
	if fn.Name == "" || fn.Name == "(empty)" {
		return "(anonymous " + fn.Kind + ")"
	}
	return fn.Name
}

func signature(fn analysis.FunctionInfo) string {
	return "(" + strings.Join(fn.Params, ", ") + ")"
}

// mapFunctionKind converts a function kind to an LSP SymbolKind.
func mapFunctionKind(kind string) protocol.SymbolKind {
	switch kind {
	case "method":
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindFunction
	}
}
