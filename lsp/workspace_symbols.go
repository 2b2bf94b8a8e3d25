// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request.
// It returns the functions of every open document whose name matches the
// query string. An empty query returns all of them.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var results []protocol.SymbolInformation
	for _, doc := range s.docs.All() {
		res := s.ensureLinted(doc)
		if res.Summary == nil {
			continue
		}
		doc.mu.Lock()
		lines := splitLines(doc.Content)
		doc.mu.Unlock()

		var container []string
		var stackEnd []int
		fns := res.Summary.Functions
		for i, fn := range fns {
			// Track enclosing functions to name the container.
			for len(stackEnd) > 0 && !contains(fns[stackEnd[len(stackEnd)-1]], fn) {
				stackEnd = stackEnd[:len(stackEnd)-1]
				container = container[:len(container)-1]
			}
			name := displayName(fn)
			if matchesQuery(name, query) {
				si := protocol.SymbolInformation{
					Name: name,
					Kind: mapFunctionKind(fn.Kind),
					Location: protocol.Location{
						URI:   doc.URI,
						Range: functionRange(lines, fn),
					},
				}
				if len(container) > 0 {
					c := container[len(container)-1]
					si.ContainerName = &c
				}
				results = append(results, si)
			}
			stackEnd = append(stackEnd, i)
			container = append(container, name)
		}
	}
	return results, nil
}

// matchesQuery performs a case-insensitive substring match.
func matchesQuery(name, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), query)
}
