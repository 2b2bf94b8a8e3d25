// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jshint/jshint-sub001/options"
)

const (
	testURI    = "file:///tmp/test.js"
	summarySrc = "function outer(a) {\n  var b = a;\n  return function inner() { return b; };\n}\nouter(1);"
)

// testServer creates a server with the undef option enabled.
func testServer() *Server {
	opts := options.Default()
	opts.Undef = true
	s := New(WithOptions(opts))
	s.exitFn = func(int) {}
	return s
}

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

// --- Position conversion tests ---

func TestPositionConversion(t *testing.T) {
	tests := []struct {
		text  string
		col   int
		utf16 int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"abc", 5, 4},
		{"é = 1", 2, 1},
		{"\U0001D4B3 = 1", 2, 2},
		{"\U0001D4B3\U0001D4B3x", 3, 4},
	}
	for _, test := range tests {
		assert.Equal(t, test.utf16, utf16Col(test.text, test.col), "utf16Col(%q, %d)", test.text, test.col)
		assert.Equal(t, test.col, runeCol(test.text, test.utf16), "runeCol(%q, %d)", test.text, test.utf16)
	}
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 1, utf16Len('a'))
	assert.Equal(t, 1, utf16Len('\uffff'))
	assert.Equal(t, 2, utf16Len('\U00010000'))
	assert.Equal(t, 2, utf16Len('\U0001D4B3'))

	// Invalid UTF-8 decodes to U+FFFD, a single code unit.
	assert.Equal(t, 1, utf16Col("\xffa", 2))
}

func TestWordRange(t *testing.T) {
	lines := []string{"var foo = bar;"}
	r := wordRange(lines, 1, 5)
	assert.Equal(t, protocol.Position{Line: 0, Character: 4}, r.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 7}, r.End)

	// Punctuation gets a single character.
	r = wordRange(lines, 1, 9)
	assert.Equal(t, protocol.UInteger(8), r.Start.Character)
	assert.Equal(t, protocol.UInteger(9), r.End.Character)

	// Positions past the end of the file do not panic.
	r = wordRange(lines, 7, 1)
	assert.Equal(t, protocol.UInteger(6), r.Start.Line)
}

func TestWordAt(t *testing.T) {
	lines := []string{"x = $y + 1;"}
	assert.Equal(t, "x", wordAt(lines, protocol.Position{Line: 0, Character: 0}))
	assert.Equal(t, "x", wordAt(lines, protocol.Position{Line: 0, Character: 1}))
	assert.Equal(t, "$y", wordAt(lines, protocol.Position{Line: 0, Character: 5}))
	assert.Equal(t, "", wordAt(lines, protocol.Position{Line: 0, Character: 7}))
	assert.Equal(t, "", wordAt(lines, protocol.Position{Line: 3, Character: 0}))
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/tmp/a.js", uriToPath("file:///tmp/a.js"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
	assert.Equal(t, "file:///tmp/a.js", pathToURI("/tmp/a.js"))
}

// --- Document store tests ---

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	store.Open("file:///b.js", 1, "b")
	store.Open("file:///a.js", 1, "a")
	doc := store.Change("file:///a.js", 2, "a2")
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, "a2", store.Get("file:///a.js").Content)

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, "file:///a.js", all[0].URI)

	store.Close("file:///a.js")
	assert.Nil(t, store.Get("file:///a.js"))
}

// --- Diagnostics tests ---

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "var a = 1;\nfoo = a;\n"},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	params := (*captured)[0]
	assert.Equal(t, testURI, params.URI)
	require.Len(t, params.Diagnostics, 1)

	d := params.Diagnostics[0]
	assert.Equal(t, "'foo' is not defined.", d.Message)
	assert.Equal(t, "W117", d.Code.Value)
	assert.Equal(t, diagnosticSource, *d.Source)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 3},
	}, d.Range)
}

func TestDidSaveRelints(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "var a = 1;\n"},
	}))
	require.Empty(t, (*captured)[0].Diagnostics)

	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "a = 1\n"}},
	}))
	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 2)
	var codes []any
	for _, d := range (*captured)[1].Diagnostics {
		codes = append(codes, d.Code.Value)
	}
	assert.ElementsMatch(t, []any{"W117", "W033"}, codes)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "x = 1;"},
	}))
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 2)
	assert.Empty(t, (*captured)[1].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

// --- Symbols tests ---

func TestDocumentSymbols(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, summarySrc)

	result, err := s.textDocumentDocumentSymbol(nil, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok, "got %T", result)
	require.Len(t, symbols, 1)

	outer := symbols[0]
	assert.Equal(t, "outer", outer.Name)
	assert.Equal(t, "(a)", *outer.Detail)
	assert.Equal(t, protocol.SymbolKindFunction, outer.Kind)
	assert.Equal(t, protocol.UInteger(0), outer.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(3), outer.Range.End.Line)
	require.Len(t, outer.Children, 1)
	assert.Equal(t, "inner", outer.Children[0].Name)
	assert.Equal(t, protocol.UInteger(2), outer.Children[0].Range.Start.Line)
}

func TestDocumentSymbols_UnknownDocument(t *testing.T) {
	s := testServer()
	result, err := s.textDocumentDocumentSymbol(nil, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.js"},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestWorkspaceSymbols(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, summarySrc)
	openDoc(s, "file:///tmp/other.js", "function innerHTML() {}\ninnerHTML();\n")

	results, err := s.workspaceSymbol(nil, &protocol.WorkspaceSymbolParams{Query: "INNER"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "innerHTML", results[0].Name)
	assert.Nil(t, results[0].ContainerName)
	assert.Equal(t, "inner", results[1].Name)
	require.NotNil(t, results[1].ContainerName)
	assert.Equal(t, "outer", *results[1].ContainerName)

	all, err := s.workspaceSymbol(nil, &protocol.WorkspaceSymbolParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// --- Folding tests ---

func TestFoldingRanges(t *testing.T) {
	s := testServer()
	src := "// one\n// two\n" + summarySrc + "\n/*\n * block\n */\n"
	openDoc(s, testURI, src)

	ranges, err := s.textDocumentFoldingRange(nil, &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)

	type span struct {
		start, end protocol.UInteger
		kind       string
	}
	var got []span
	for _, r := range ranges {
		got = append(got, span{r.StartLine, r.EndLine, *r.Kind})
	}
	assert.Equal(t, []span{
		{2, 5, string(protocol.FoldingRangeKindRegion)},
		{0, 1, string(protocol.FoldingRangeKindComment)},
		{7, 9, string(protocol.FoldingRangeKindComment)},
	}, got)
}

// --- Hover tests ---

func TestHover(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, summarySrc+"\nundeclared = 2;\n")

	hover := func(line, char protocol.UInteger) *protocol.Hover {
		h, err := s.textDocumentHover(nil, &protocol.HoverParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
				Position:     protocol.Position{Line: line, Character: char},
			},
		})
		require.NoError(t, err)
		return h
	}

	h := hover(0, 10)
	require.NotNil(t, h)
	content := h.Contents.(protocol.MarkupContent).Value
	assert.Contains(t, content, "**function** `outer(a)`")
	assert.Contains(t, content, "read by inner functions: `b`")

	h = hover(5, 2)
	require.NotNil(t, h)
	assert.Contains(t, h.Contents.(protocol.MarkupContent).Value, "**implied global** `undeclared`")

	assert.Nil(t, hover(1, 2))
}

// --- Code action tests ---

func TestCodeActions(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "foo = 1;\n")

	source := diagnosticSource
	diag := protocol.Diagnostic{
		Range:   protocol.Range{Start: protocol.Position{Line: 0, Character: 0}, End: protocol.Position{Line: 0, Character: 3}},
		Source:  &source,
		Code:    &protocol.IntegerOrString{Value: "W117"},
		Message: "'foo' is not defined.",
	}
	result, err := s.textDocumentCodeAction(nil, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context:      protocol.CodeActionContext{Diagnostics: []protocol.Diagnostic{diag}},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 3)

	assert.Equal(t, "Declare 'foo' as a global", actions[0].Title)
	assert.Equal(t, "/* global foo */\n", actions[0].Edit.Changes[testURI][0].NewText)
	assert.Equal(t, "/* jshint -W117 */\n", actions[1].Edit.Changes[testURI][0].NewText)
	edit := actions[2].Edit.Changes[testURI][0]
	assert.Equal(t, " // jshint ignore:line", edit.NewText)
	assert.Equal(t, protocol.UInteger(8), edit.Range.Start.Character)

	// Other kinds are not offered.
	result, err = s.textDocumentCodeAction(nil, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context: protocol.CodeActionContext{
			Diagnostics: []protocol.Diagnostic{diag},
			Only:        []protocol.CodeActionKind{protocol.CodeActionKindRefactor},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestQuotedName(t *testing.T) {
	assert.Equal(t, "x", quotedName("'x' is not defined."))
	assert.Equal(t, "", quotedName("Missing semicolon."))
	assert.Equal(t, "", quotedName("'unterminated"))
}
