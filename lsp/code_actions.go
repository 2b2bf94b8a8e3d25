// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// It returns quick-fix actions for diagnostics in the requested range.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 {
		if !slicesContains(params.Context.Only, protocol.CodeActionKindQuickFix) {
			return nil, nil
		}
	}

	doc.mu.Lock()
	content := doc.Content
	doc.mu.Unlock()

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		// Only handle diagnostics we published.
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		code := fmt.Sprintf("%v", diag.Code.Value)
		if code == "W117" {
			if name := quotedName(diag.Message); name != "" {
				actions = append(actions, insertAtTop(params.TextDocument.URI, diag,
					fmt.Sprintf("Declare '%s' as a global", name),
					fmt.Sprintf("/* global %s */\n", name)))
			}
		}
		if strings.HasPrefix(code, "W") {
			actions = append(actions, insertAtTop(params.TextDocument.URI, diag,
				fmt.Sprintf("Silence %s in this file", code),
				fmt.Sprintf("/* jshint -%s */\n", code)))
		}
		actions = append(actions, ignoreLineAction(params.TextDocument.URI, diag, content))
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// insertAtTop creates a code action inserting text at the start of the
// document.
func insertAtTop(uri string, diag protocol.Diagnostic, title, text string) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	pos := protocol.Position{Line: 0, Character: 0}
	return protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {{Range: protocol.Range{Start: pos, End: pos}, NewText: text}},
			},
		},
	}
}

// ignoreLineAction creates a code action that adds a // jshint ignore:line
// comment to the end of the diagnostic line.
func ignoreLineAction(uri string, diag protocol.Diagnostic, content string) protocol.CodeAction {
	lines := splitLines(content)
	line := int(diag.Range.Start.Line)
	lineEnd := 0
	if line >= 0 && line < len(lines) {
		lineEnd = utf16Col(lines[line], len([]rune(lines[line]))+1)
	}

	kind := protocol.CodeActionKindQuickFix
	insertPos := protocol.Position{Line: diag.Range.Start.Line, Character: safeUint(lineEnd)}
	return protocol.CodeAction{
		Title:       "Ignore problems on this line",
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {{Range: protocol.Range{Start: insertPos, End: insertPos}, NewText: " // jshint ignore:line"}},
			},
		},
	}
}

// quotedName extracts the name from a message such as "'x' is not defined.".
func quotedName(msg string) string {
	_, after, found := strings.Cut(msg, "'")
	if !found {
		return ""
	}
	name, _, found := strings.Cut(after, "'")
	if !found {
		return ""
	}
	return name
}

// slicesContains checks if a string slice contains a value.
func slicesContains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
