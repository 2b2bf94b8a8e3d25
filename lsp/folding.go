// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line functions and comment blocks.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	res := s.ensureLinted(doc)

	doc.mu.Lock()
	content := doc.Content
	doc.mu.Unlock()

	var ranges []protocol.FoldingRange
	if res.Summary != nil {
		for _, fn := range res.Summary.Functions {
			if fn.EndLine > fn.Line {
				kind := string(protocol.FoldingRangeKindRegion)
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: safeUint(fn.Line - 1),
					EndLine:   safeUint(fn.EndLine - 1),
					Kind:      &kind,
				})
			}
		}
	}
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

// commentFoldingRanges produces a folding range for each block comment
// spanning lines and each run of two or more "//" line comments.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := splitLines(content)
	var ranges []protocol.FoldingRange
	add := func(start, end int) {
		if end > start {
			kind := string(protocol.FoldingRangeKindComment)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(start),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
	}

	blockStart := -1
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "//") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		if blockStart >= 0 {
			add(blockStart, i-1)
			blockStart = -1
		}
		if strings.HasPrefix(trimmed, "/*") && !strings.Contains(trimmed[2:], "*/") {
			start := i
			for i+1 < len(lines) && !strings.Contains(lines[i+1], "*/") {
				i++
			}
			if i+1 < len(lines) {
				i++
			}
			add(start, i)
		}
	}
	// Handle comment block at end of file.
	if blockStart >= 0 {
		add(blockStart, len(lines)-1)
	}
	return ranges
}
