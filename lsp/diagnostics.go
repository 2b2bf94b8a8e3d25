// Copyright © 2024 The ELPS authors

package lsp

import (
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jshint/jshint-sub001/lint"
)

const (
	debounceDelay = 300 * time.Millisecond

	// diagnosticSource is attached to every published diagnostic.
	diagnosticSource = "jshint"
)

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.lintAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay linting to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on a lint panic
		d := s.docs.Get(doc.URI)
		if d != nil {
			s.lintAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	// Cancel any pending debounce and publish immediately.
	s.debounceMu.Lock()
	if t, ok := s.debounce[params.TextDocument.URI]; ok {
		t.Stop()
		delete(s.debounce, params.TextDocument.URI)
	}
	s.debounceMu.Unlock()

	doc := s.docs.Get(params.TextDocument.URI)
	if doc != nil {
		s.lintAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	// Cancel pending debounce.
	s.debounceMu.Lock()
	if t, ok := s.debounce[params.TextDocument.URI]; ok {
		t.Stop()
		delete(s.debounce, params.TextDocument.URI)
	}
	s.debounceMu.Unlock()

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

// lintAndPublish lints a document and publishes the resulting diagnostics
// to the client.
func (s *Server) lintAndPublish(doc *Document) {
	res := s.ensureLinted(doc)

	doc.mu.Lock()
	content := doc.Content
	uri := doc.URI
	doc.mu.Unlock()

	lines := splitLines(content)
	diags := make([]protocol.Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diags = append(diags, convertLintDiagnostic(lines, d))
	}
	s.logger.WithField("uri", uri).WithField("diagnostics", len(diags)).Debug("publish diagnostics")

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.
// The range covers the identifier at the reported position.
func convertLintDiagnostic(lines []string, d lint.Diagnostic) protocol.Diagnostic {
	sev := mapLintSeverity(d.Severity)
	code := d.Analyzer
	if d.Code != "" {
		code = string(d.Code)
	}
	return protocol.Diagnostic{
		Range:    wordRange(lines, d.Pos.Line, d.Pos.Col),
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Code:     &protocol.IntegerOrString{Value: code},
		Message:  d.Message,
	}
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func strPtr(s string) *string {
	return &s
}
